package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/geolink-tools/geolink/internal/apperr"
	"github.com/geolink-tools/geolink/internal/catalog"
	"github.com/geolink-tools/geolink/internal/logging"
	"github.com/geolink-tools/geolink/internal/ui"
	"github.com/geolink-tools/geolink/pkg/geolink"
)

// addRecordFlags registers the flags selecting a record, bound under key.
func addRecordFlags(cmd *cobra.Command, key string) {
	f := cmd.Flags()
	f.String("id", "", "Record identifier; also the WFS type name when a link names none")
	f.String("csw", "", "CSW endpoint to fetch the record from with GetRecordById")
	f.String("token", "", "Bearer token for the CSW endpoint")
	f.String("file", "", "Read the record from an XML or JSON file instead of a CSW endpoint")
	f.String("record-format", "", "Record file format: xml|json|auto")
	f.Duration("timeout", 0, "Overall deadline for the command (0 = none)")
	f.String("log-level", "", "Log level: quiet|standard|debug")

	for _, name := range []string{"id", "csw", "token", "file", "record-format", "timeout", "log-level"} {
		viper.BindPFlag(key+"."+name, f.Lookup(name))
	}
}

// recordSource is the validated record selection of one command run.
type recordSource struct {
	ID       string
	Endpoint string
	Token    string
	File     string
	Format   string
}

func (s recordSource) String() string {
	if s.File != "" {
		return "file " + s.File
	}
	return "CSW " + s.Endpoint
}

func readRecordSource(key string) (recordSource, error) {
	s := recordSource{
		ID:       strings.TrimSpace(viper.GetString(key + ".id")),
		Endpoint: strings.TrimSpace(viper.GetString(key + ".csw")),
		Token:    strings.TrimSpace(viper.GetString(key + ".token")),
		File:     strings.TrimSpace(viper.GetString(key + ".file")),
		Format:   strings.TrimSpace(viper.GetString(key + ".record-format")),
	}
	switch {
	case s.File != "" && s.Endpoint != "":
		return s, apperr.User("cannot use both --csw and --file")
	case s.File == "" && s.Endpoint == "":
		return s, apperr.User("one of --csw or --file is required")
	case s.Endpoint != "" && s.ID == "":
		return s, apperr.User("--id is required with --csw")
	}
	return s, nil
}

func loadRecord(ctx context.Context, s recordSource, opts geolink.Options) (geolink.Record, error) {
	if s.File != "" {
		return geolink.LoadFile(s.File, s.Format)
	}
	rec, err := geolink.FetchRecord(ctx, s.Endpoint, s.ID, opts)
	switch {
	case err == nil:
		return rec, nil
	case catalog.IsNotFound(err):
		return rec, apperr.Userf("record %q not found at %s", s.ID, s.Endpoint)
	case catalog.IsUnauthorized(err):
		return rec, apperr.Userf("access to %s denied; check --token", s.Endpoint)
	default:
		return rec, fmt.Errorf("fetch record %s: %w", s.ID, err)
	}
}

// runLog is the logging setup of one command run. In standard mode the
// reporter output is held back until the progress display is finished.
type runLog struct {
	Level  string
	Logger *logging.Logger
	held   *bytes.Buffer
	out    io.Writer
}

func newRunLog(key string, stderr io.Writer) (*runLog, error) {
	level := strings.ToLower(strings.TrimSpace(viper.GetString(key + ".log-level")))
	if level == "" {
		level = "standard"
	}
	minLevel, err := logging.ParseLevel(level)
	if err != nil {
		return nil, apperr.User(err.Error())
	}

	l := &runLog{Level: level, out: stderr}
	w := stderr
	if level == "standard" {
		minLevel = logging.LevelWarn
		l.held = &bytes.Buffer{}
		w = l.held
	}
	l.Logger = &logging.Logger{
		Writer:      w,
		PrefixText:  "geolink:",
		PrefixColor: ui.FgCyan,
		RunID:       uuid.NewString()[:8],
		MinLevel:    minLevel,
	}
	if level == "debug" {
		catalog.SetLogger(stderr)
	}
	return l, nil
}

func (l *runLog) Quiet() bool { return l.Level == "quiet" }
func (l *runLog) Debug() bool { return l.Level == "debug" }

// Flush writes held reporter output.
func (l *runLog) Flush() {
	if l.held != nil && l.held.Len() > 0 {
		fmt.Fprintln(l.out)
		_, _ = l.held.WriteTo(l.out)
	}
}

// probeOptions builds facade options from the probe.* settings.
func probeOptions(s recordSource, rep geolink.Reporter) geolink.Options {
	return geolink.Options{
		UserAgent:      viper.GetString("probe.user-agent"),
		HeadTimeout:    viper.GetDuration("probe.head-timeout"),
		ServiceTimeout: viper.GetDuration("probe.service-timeout"),
		CatalogToken:   s.Token,
		Reporter:       rep,
	}
}

func commandContext(cmd *cobra.Command, key string) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := viper.GetDuration(key + ".timeout"); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
