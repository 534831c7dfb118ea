package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/geolink-tools/geolink/internal/apperr"
	bomio "github.com/geolink-tools/geolink/internal/io"
	"github.com/geolink-tools/geolink/internal/ui"
	"github.com/geolink-tools/geolink/pkg/geolink"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the best downloadable link of one metadata record",
	Long: "Fetch a record from a CSW endpoint (or read it from a file), rank its links, probe them in order " +
		"and print the first one that yields a concrete data format. Exits with status 2 when no link resolves.",
	Example: `  geolink resolve --csw https://example.org/geonetwork/srv/eng/csw --id 3f1c9a
  geolink resolve --file record.xml -o result.yaml`,
	RunE: runResolve,
}

func init() {
	addRecordFlags(resolveCmd, "resolve")
	resolveCmd.Flags().StringP("output", "o", "", "Write the result to this file instead of stdout")
	resolveCmd.Flags().StringP("format", "f", "", "Result format: json|yaml|auto")

	viper.BindPFlag("resolve.output", resolveCmd.Flags().Lookup("output"))
	viper.BindPFlag("resolve.format", resolveCmd.Flags().Lookup("format"))
}

func runResolve(cmd *cobra.Command, args []string) error {
	src, err := readRecordSource("resolve")
	if err != nil {
		return err
	}
	rl, err := newRunLog("resolve", cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	output := strings.TrimSpace(viper.GetString("resolve.output"))
	format, err := bomio.ResolveFormat(output, viper.GetString("resolve.format"))
	if err != nil {
		return apperr.User(err.Error())
	}

	ctx, cancel := commandContext(cmd, "resolve")
	defer cancel()

	view := ui.NewResolveUI(cmd.ErrOrStderr(), rl.Quiet())
	view.StartWorkflow(src.String(), isTerminal(cmd.ErrOrStderr()) && !rl.Debug(), output != "")
	defer rl.Flush()

	opts := probeOptions(src, rl.Logger.With(src.ID))

	view.Start(ui.StepLoad, src.String())
	rec, err := loadRecord(ctx, src, opts)
	if err != nil {
		view.Fail(ui.StepLoad, err.Error())
		view.FinishWorkflow()
		return err
	}
	id := src.ID
	if id == "" {
		id = rec.ID
	}
	opts.Reporter = rl.Logger.With(id)
	view.Complete(ui.StepLoad, "record "+displayID(id))

	view.Start(ui.StepClassify, "")
	candidates := rec.Candidates()
	view.Complete(ui.StepClassify, fmt.Sprintf("%d candidate(s)", len(candidates)))

	view.Start(ui.StepValidate, "probing in rank order")
	opts.OnProgress = func(e geolink.ProgressEvent) {
		if e.Type == geolink.EventResolved {
			view.Update(ui.StepValidate, e.Message)
		}
	}
	res, err := geolink.Resolve(ctx, rec, id, opts)
	if err != nil {
		view.Fail(ui.StepValidate, failureReason(err))
		if output != "" {
			view.Skip(ui.StepWrite, "nothing to write")
		}
		view.FinishWorkflow()
		if errors.Is(err, apperr.ErrUnresolved) {
			view.PrintUnresolved(id, len(candidates))
		}
		return err
	}
	view.Complete(ui.StepValidate, res.Format)

	if output != "" {
		view.Start(ui.StepWrite, output)
		if err := bomio.WriteFile(res, output, format); err != nil {
			view.Fail(ui.StepWrite, err.Error())
			view.FinishWorkflow()
			return err
		}
		view.Complete(ui.StepWrite, output)
	}
	view.FinishWorkflow()

	if output == "" {
		if err := bomio.Write(cmd.OutOrStdout(), res, format); err != nil {
			return err
		}
	}
	view.PrintResult(ui.ResultView{ResourceID: res.ResourceID, URL: res.URL, Format: res.Format, Output: output})
	return nil
}

func failureReason(err error) string {
	if errors.Is(err, apperr.ErrUnresolved) {
		return "no candidate resolved"
	}
	return err.Error()
}

func displayID(id string) string {
	if id == "" {
		return "(no identifier)"
	}
	return id
}
