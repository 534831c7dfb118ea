package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/geolink-tools/geolink/internal/ui"
)

// Reporter receives narration of a resolution: candidates found, probe
// outcomes, negotiation attempts. It never influences control flow.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Level is the minimum severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps the CLI log levels quiet|standard|debug to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "quiet":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q (expected quiet|standard|debug)", s)
	}
}

// Logger is a tiny opt-in logger used across internal packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> [run=<id>] record=<recordID> <formattedMessage>\n
//
// where <recordID> is trimmed and defaults to "(unknown)".
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// Record is the resource identifier used by the leveled methods.
	Record string
	// RunID, when set, tags every line of one resolution run.
	RunID string
	// MinLevel filters the leveled methods; Logf always writes.
	MinLevel Level

	// OmitRecord controls whether the record field is written.
	OmitRecord bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

// With returns a copy of l bound to recordID.
func (l *Logger) With(recordID string) *Logger {
	if l == nil {
		return nil
	}
	c := *l
	c.Record = recordID
	return &c
}

func (l *Logger) Logf(recordID string, format string, args ...any) {
	if l == nil || l.Writer == nil {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	if l.RunID != "" {
		prefix += " run=" + l.RunID
	}
	msg := fmt.Sprintf(format, args...)
	if l.OmitRecord {
		fmt.Fprintf(l.Writer, "%s %s\n", prefix, msg)
		return
	}

	r := strings.TrimSpace(recordID)
	if r == "" {
		r = "(unknown)"
	}
	fmt.Fprintf(l.Writer, "%s record=%s %s\n", prefix, r, msg)
}

func (l *Logger) logAt(level Level, tag, format string, args ...any) {
	if !l.Enabled() || level < l.MinLevel {
		return
	}
	if tag != "" {
		format = tag + " " + format
	}
	l.Logf(l.Record, format, args...)
}

func (l *Logger) Debug(format string, args ...any) { l.logAt(LevelDebug, "", format, args...) }

func (l *Logger) Info(format string, args ...any) { l.logAt(LevelInfo, "", format, args...) }

func (l *Logger) Warn(format string, args ...any) {
	l.logAt(LevelWarn, ui.Color("warn:", ui.FgYellow), format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.logAt(LevelError, ui.Color("error:", ui.FgRed), format, args...)
}

type nop struct{}

func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}

// Nop discards everything.
var Nop Reporter = nop{}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop
	}
	return r
}
