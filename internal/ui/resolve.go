package ui

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Resolve workflow steps, in display order.
const (
	StepLoad = iota
	StepClassify
	StepValidate
	StepWrite
)

// ResolveUI renders progress and results for the resolve command.
type ResolveUI struct {
	writer    io.Writer
	quiet     bool
	workflow  *Workflow
	startTime time.Time
}

// NewResolveUI creates the view. A quiet view writes nothing.
func NewResolveUI(w io.Writer, quiet bool) *ResolveUI {
	return &ResolveUI{writer: w, quiet: quiet, startTime: time.Now()}
}

func (r *ResolveUI) active() bool { return !r.quiet && r.workflow != nil }

// StartWorkflow draws the step list. source names where the record comes
// from; writeOutput adds the output step.
func (r *ResolveUI) StartWorkflow(source string, animate, writeOutput bool) {
	if r.quiet {
		return
	}
	r.startTime = time.Now()
	r.workflow = NewWorkflow(r.writer, animate)
	r.workflow.AddTask("Loading record from " + source)
	r.workflow.AddTask("Classifying links")
	r.workflow.AddTask("Validating candidates")
	if writeOutput {
		r.workflow.AddTask("Writing result")
	}
	r.workflow.Start()
}

// Start marks step as running.
func (r *ResolveUI) Start(step int, message string) {
	if !r.active() {
		return
	}
	r.workflow.StartTask(step, Dim.Render(message))
}

// Update changes the running message of step.
func (r *ResolveUI) Update(step int, message string) {
	if !r.active() {
		return
	}
	r.workflow.UpdateMessage(step, Dim.Render(message))
}

// Complete marks step as done.
func (r *ResolveUI) Complete(step int, details string) {
	if !r.active() {
		return
	}
	r.workflow.CompleteTask(step, details)
}

// Fail marks step as failed.
func (r *ResolveUI) Fail(step int, msg string) {
	if !r.active() {
		return
	}
	r.workflow.FailTask(step, msg)
}

// Skip marks step as skipped.
func (r *ResolveUI) Skip(step int, reason string) {
	if !r.active() {
		return
	}
	r.workflow.SkipTask(step, reason)
}

// FinishWorkflow stops the step display.
func (r *ResolveUI) FinishWorkflow() {
	if !r.active() {
		return
	}
	r.workflow.Stop()
}

// ResultView is what PrintResult shows.
type ResultView struct {
	ResourceID string
	URL        string
	Format     string
	Output     string
}

// PrintResult prints the resolved download in a success box.
func (r *ResolveUI) PrintResult(v ResultView) {
	if r.quiet {
		return
	}
	var b strings.Builder
	b.WriteString(Success.Bold(true).Render("Download resolved"))
	b.WriteString("\n\n")
	if v.ResourceID != "" {
		b.WriteString(FormatKeyValue("Resource", Highlight.Render(v.ResourceID)))
		b.WriteString("\n")
	}
	b.WriteString(FormatKeyValue("Format", v.Format))
	b.WriteString("\n")
	b.WriteString(FormatKeyValue("URL", v.URL))
	b.WriteString("\n")
	if v.Output != "" {
		b.WriteString(FormatKeyValue("Written to", v.Output))
		b.WriteString("\n")
	}
	b.WriteString(FormatKeyValue("Duration", time.Since(r.startTime).Round(time.Millisecond).String()))

	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, SuccessBox.Render(b.String()))
}

// PrintUnresolved prints a failure summary.
func (r *ResolveUI) PrintUnresolved(resourceID string, candidates int) {
	if r.quiet {
		return
	}
	var b strings.Builder
	b.WriteString(Error.Bold(true).Render("No downloadable link"))
	b.WriteString("\n\n")
	if resourceID != "" {
		b.WriteString(FormatKeyValue("Resource", resourceID))
		b.WriteString("\n")
	}
	b.WriteString(FormatKeyValue("Candidates tried", fmt.Sprintf("%d", candidates)))

	fmt.Fprintln(r.writer)
	fmt.Fprintln(r.writer, ErrorBox.Render(b.String()))
}

// LogStep prints a single status line outside the workflow.
func (r *ResolveUI) LogStep(status, message string) {
	if r.quiet {
		return
	}
	fmt.Fprintln(r.writer, FormatStatus(status, message))
}
