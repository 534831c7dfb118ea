package catalog

import (
	"io"

	"github.com/geolink-tools/geolink/internal/logging"
	"github.com/geolink-tools/geolink/internal/ui"
)

var logger = &logging.Logger{PrefixText: "CSW:", PrefixColor: ui.FgMagenta}

// SetLogger sets an optional destination for catalog logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(recordID string, format string, args ...any) {
	logger.Logf(recordID, format, args...)
}
