package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"

	cmd "github.com/geolink-tools/geolink/cmd/geolink"
	"github.com/geolink-tools/geolink/internal/apperr"
	"github.com/geolink-tools/geolink/internal/ui"
)

// Version is set at build time
var Version = "dev"

func main() {
	cmd.SetVersion(Version)
	err := fang.Execute(
		context.Background(),
		cmd.GetRootCmd(),
		fang.WithColorSchemeFunc(ui.FangColorScheme),
	)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	// User deliberately cancelled an interactive flow – not a failure.
	case errors.Is(err, apperr.ErrCancelled):
		return 0
	case errors.Is(err, apperr.ErrUnresolved):
		return 2
	default:
		return 1
	}
}
