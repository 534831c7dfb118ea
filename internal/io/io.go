// Package io writes resolution results as JSON or YAML.
package io

import (
	"encoding/json"
	"fmt"
	stdio "io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ResolveFormat picks the output encoding. format can be "json", "yaml",
// or "auto" (default); "auto" is decided by the extension of outputPath and
// falls back to JSON.
func ResolveFormat(outputPath, format string) (string, error) {
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".yaml", ".yml":
			return "yaml", nil
		default:
			return "json", nil
		}
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", format)
	}
}

// Write encodes v to w in the given format ("json" or "yaml").
func Write(w stdio.Writer, v any, format string) error {
	actual, err := ResolveFormat("", format)
	if err != nil {
		return err
	}
	if actual == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFile writes v to outputPath, creating parent directories. The file
// extension must agree with an explicit format.
func WriteFile(v any, outputPath, format string) error {
	actual, err := ResolveFormat(outputPath, format)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(outputPath))
	mismatch := false
	switch actual {
	case "yaml":
		mismatch = ext == ".json"
	case "json":
		mismatch = ext == ".yaml" || ext == ".yml"
	}
	if mismatch {
		return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Write(f, v, actual); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return f.Close()
}
