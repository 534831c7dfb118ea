package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geolink-tools/geolink/internal/apperr"
	bomio "github.com/geolink-tools/geolink/internal/io"
	"github.com/geolink-tools/geolink/internal/ui"
	"github.com/geolink-tools/geolink/pkg/geolink"
)

// candidatesCmd represents the candidates command
var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List the ranked download candidates of a metadata record",
	Long: "Classify and rank the links of a record without validating them. With --probe each candidate " +
		"gets a plain reachability check; with --interactive one candidate is picked and resolved.",
	RunE: runCandidates,
}

func init() {
	addRecordFlags(candidatesCmd, "candidates")
	candidatesCmd.Flags().Bool("probe", false, "Check the reachability of every candidate")
	candidatesCmd.Flags().Bool("interactive", false, "Pick a candidate and resolve it")
	candidatesCmd.Flags().StringP("format", "f", "", "Output format: table|json|yaml")

	viper.BindPFlag("candidates.probe", candidatesCmd.Flags().Lookup("probe"))
	viper.BindPFlag("candidates.interactive", candidatesCmd.Flags().Lookup("interactive"))
	viper.BindPFlag("candidates.format", candidatesCmd.Flags().Lookup("format"))
}

// probedCandidate is a candidate with its optional reachability.
type probedCandidate struct {
	geolink.Candidate `yaml:",inline"`
	Reachable         *bool `json:"reachable,omitempty" yaml:"reachable,omitempty"`
}

func runCandidates(cmd *cobra.Command, args []string) error {
	src, err := readRecordSource("candidates")
	if err != nil {
		return err
	}
	rl, err := newRunLog("candidates", cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer rl.Flush()

	format := strings.ToLower(strings.TrimSpace(viper.GetString("candidates.format")))
	if format == "" {
		format = "table"
	}
	switch format {
	case "table", "json", "yaml":
	default:
		return apperr.Userf("invalid --format %q (expected table|json|yaml)", format)
	}
	interactive := viper.GetBool("candidates.interactive")
	if interactive && format != "table" {
		return apperr.User("--interactive cannot be combined with --format " + format)
	}

	ctx, cancel := commandContext(cmd, "candidates")
	defer cancel()

	opts := probeOptions(src, rl.Logger.With(src.ID))
	rec, err := loadRecord(ctx, src, opts)
	if err != nil {
		return err
	}
	id := src.ID
	if id == "" {
		id = rec.ID
	}
	opts.Reporter = rl.Logger.With(id)

	cands := rec.Candidates()
	listed := make([]probedCandidate, len(cands))
	for i, c := range cands {
		listed[i] = probedCandidate{Candidate: c}
	}

	if viper.GetBool("candidates.probe") {
		animate := isTerminal(cmd.ErrOrStderr()) && !rl.Quiet() && !rl.Debug()
		for i := range listed {
			if err := ctx.Err(); err != nil {
				return err
			}
			var sp *ui.Spinner
			if animate {
				sp = ui.NewSpinner(cmd.ErrOrStderr(), "probing "+listed[i].URL, true)
				sp.Start()
			}
			ok := geolink.Reachable(ctx, listed[i].URL, opts)
			listed[i].Reachable = &ok
			if sp != nil {
				sp.Stop(ok, listed[i].URL)
			}
		}
	}

	if format != "table" {
		return bomio.Write(cmd.OutOrStdout(), listed, format)
	}

	rows := make([]ui.CandidateRow, len(listed))
	for i, c := range listed {
		rows[i] = ui.CandidateRow{
			URL:       c.URL,
			Format:    c.Format,
			Score:     c.Score,
			Rule:      c.Rule,
			LayerName: c.LayerName,
			Reachable: c.Reachable,
		}
	}
	ui.PrintCandidates(cmd.OutOrStdout(), fmt.Sprintf("Candidates for %s", displayID(id)), rows)

	if !interactive {
		return nil
	}
	idx, err := ui.PickCandidate(rows)
	if err != nil {
		return err
	}

	view := ui.NewResolveUI(cmd.ErrOrStderr(), rl.Quiet())
	sp := ui.NewSpinner(cmd.ErrOrStderr(), "resolving "+cands[idx].URL, isTerminal(cmd.ErrOrStderr()))
	sp.Start()
	res, err := geolink.ResolveCandidate(ctx, cands[idx], id, opts)
	if err != nil {
		sp.Stop(false, failureReason(err))
		return err
	}
	sp.Stop(true, res.Format)
	if err := bomio.Write(cmd.OutOrStdout(), res, "json"); err != nil {
		return err
	}
	view.PrintResult(ui.ResultView{ResourceID: res.ResourceID, URL: res.URL, Format: res.Format})
	return nil
}
