package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geolink-tools/geolink/internal/metadata"
)

// LoadFile reads a record from disk. format can be "xml", "json", or "auto"
// (default); "auto" uses the file extension, then the first byte.
func LoadFile(path, format string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xml":
			actual = "xml"
		case ".json":
			actual = "json"
		default:
			actual = "auto"
		}
	case "json", "xml":
		// ok
	default:
		return nil, fmt.Errorf("unsupported record format: %q", format)
	}

	doc, err := metadata.Decode(f, actual)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}
