package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/huh"

	"github.com/geolink-tools/geolink/internal/apperr"
)

// CandidateRow is one line of the candidate listing.
type CandidateRow struct {
	URL       string
	Format    string
	Score     int
	Rule      string
	LayerName string
	// Reachable is nil when the candidate was not probed.
	Reachable *bool
}

const maxURLWidth = 72

// PrintCandidates writes a ranked table of candidates.
func PrintCandidates(w io.Writer, title string, rows []CandidateRow) {
	fmt.Fprintln(w, SectionHeader.Render(title))
	if len(rows) == 0 {
		fmt.Fprintln(w, Muted.Render("  no download links declared"))
		return
	}

	formatWidth := len("format")
	for _, r := range rows {
		formatWidth = max(formatWidth, len(r.Format))
	}

	probed := false
	for _, r := range rows {
		if r.Reachable != nil {
			probed = true
			break
		}
	}

	header := fmt.Sprintf("  %-3s %-5s %-*s  %s", "#", "score", formatWidth, "format", "url")
	fmt.Fprintln(w, Dim.Render(header))
	for i, r := range rows {
		var b strings.Builder
		fmt.Fprintf(&b, "  %-3d %s %s  ", i+1, pad(FormatScore(r.Score), 5), pad(Bold.Render(r.Format), formatWidth))
		if probed {
			switch {
			case r.Reachable == nil:
				b.WriteString(Muted.Render("-") + " ")
			case *r.Reachable:
				b.WriteString(GetCheckMark() + " ")
			default:
				b.WriteString(GetCrossMark() + " ")
			}
		}
		b.WriteString(truncate(r.URL, maxURLWidth))
		extra := "rule=" + r.Rule
		if r.LayerName != "" {
			extra += " layer=" + r.LayerName
		}
		b.WriteString(" " + Muted.Render(extra))
		fmt.Fprintln(w, b.String())
	}
}

// pad right-pads a styled string to a visible width.
func pad(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// PickCandidate asks the user to choose one of rows and returns its index.
// Aborting the prompt yields apperr.ErrCancelled.
func PickCandidate(rows []CandidateRow) (int, error) {
	if len(rows) == 0 {
		return -1, apperr.User("no candidates to choose from")
	}

	options := make([]huh.Option[int], 0, len(rows))
	for i, r := range rows {
		label := fmt.Sprintf("[%3d] %-10s %s", r.Score, r.Format, truncate(r.URL, maxURLWidth))
		options = append(options, huh.NewOption(label, i))
	}

	choice := 0
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select a download link").
				Description("Candidates are ranked by confidence; the chosen link is still validated.").
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return -1, apperr.ErrCancelled
		}
		return -1, err
	}
	return choice, nil
}
