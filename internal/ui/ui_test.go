package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestColorAppliesANSICodes(t *testing.T) {
	Init(false)
	defer Init(true)
	got := Color("hello", FgGreen)
	want := FgGreen + "hello" + Reset
	if got != want {
		t.Fatalf("Color() = %q, want %q", got, want)
	}
}

func TestColorDisabled(t *testing.T) {
	Init(true)
	if got := Color("hello", FgRed); got != "hello" {
		t.Fatalf("Color() with colors disabled = %q", got)
	}
	if got := Success.Render("ok"); got != "ok" {
		t.Fatalf("Render() with colors disabled = %q", got)
	}
}

func TestResolveUI_PrintResult(t *testing.T) {
	Init(true)
	tests := []struct {
		name  string
		view  ResultView
		quiet bool
		want  []string
	}{
		{
			name: "with output",
			view: ResultView{ResourceID: "parcelles-2024", URL: "https://x.org/a.geojson", Format: "geojson", Output: "out.json"},
			want: []string{"Download resolved", "Resource: parcelles-2024", "Format: geojson", "URL: https://x.org/a.geojson", "Written to: out.json", "Duration:"},
		},
		{
			name: "without resource id",
			view: ResultView{URL: "https://x.org/a.zip", Format: "shapefile"},
			want: []string{"Download resolved", "Format: shapefile"},
		},
		{
			name:  "quiet mode produces no output",
			view:  ResultView{URL: "https://x.org/a.zip", Format: "shapefile"},
			quiet: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewResolveUI(&buf, tt.quiet).PrintResult(tt.view)
			out := buf.String()
			if tt.quiet {
				if out != "" {
					t.Fatalf("expected no output in quiet mode, got %q", out)
				}
				return
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q.\nGot:\n%s", w, out)
				}
			}
		})
	}
}

func TestResolveUI_PrintUnresolved(t *testing.T) {
	Init(true)
	var buf bytes.Buffer
	NewResolveUI(&buf, false).PrintUnresolved("rec-9", 3)
	out := buf.String()
	for _, w := range []string{"No downloadable link", "Resource: rec-9", "Candidates tried: 3"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q.\nGot:\n%s", w, out)
		}
	}
}

func TestResolveUI_WorkflowFinalState(t *testing.T) {
	Init(true)
	var buf bytes.Buffer
	r := NewResolveUI(&buf, false)
	r.StartWorkflow("file record.xml", false, true)
	r.Start(StepLoad, "reading")
	r.Complete(StepLoad, "record rec-1")
	r.Complete(StepClassify, "4 candidate(s)")
	r.Fail(StepValidate, "nothing reachable")
	r.Skip(StepWrite, "no result")
	r.FinishWorkflow()

	out := buf.String()
	want := []string{
		"✓ Loading record from file record.xml → record rec-1",
		"✓ Classifying links → 4 candidate(s)",
		"✗ Validating candidates → nothing reachable",
		"⊘ Writing result → no result",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q.\nGot:\n%s", w, out)
		}
	}
	if strings.Contains(out, "\033[A") {
		t.Fatalf("non-animated workflow must not move the cursor: %q", out)
	}
}

func TestWorkflow_TasksAndElapsed(t *testing.T) {
	wf := NewWorkflow(&bytes.Buffer{}, false)
	if wf.Elapsed() != 0 {
		t.Fatalf("elapsed before start should be zero")
	}
	idx := wf.AddTask("a")
	wf.Start()
	wf.StartTask(idx, "running")
	wf.UpdateMessage(idx, "still running")
	wf.CompleteTask(idx, "done")
	wf.CompleteTask(7, "out of range is ignored")
	wf.Stop()

	tasks := wf.Tasks()
	if len(tasks) != 1 || tasks[0].Status != TaskDone || tasks[0].Details != "done" || tasks[0].Message != "still running" {
		t.Fatalf("unexpected tasks %+v", tasks)
	}
	e := wf.Elapsed()
	if e != wf.Elapsed() {
		t.Fatalf("elapsed should be frozen after Stop")
	}
}

func TestWorkflow_AnimatedRedraws(t *testing.T) {
	Init(true)
	var buf bytes.Buffer
	wf := NewWorkflow(&buf, true)
	wf.AddTask("probe")
	wf.Start()
	wf.StartTask(0, "")
	time.Sleep(5 * frameInterval)
	wf.CompleteTask(0, "ok")
	wf.Stop()
	wf.Stop()

	out := buf.String()
	if !strings.Contains(out, "✓ probe → ok") {
		t.Fatalf("final state missing: %q", out)
	}
	if !strings.Contains(out, "\033[A\033[K") {
		t.Fatalf("expected redraw to clear the previous frame: %q", out)
	}
}

func TestSpinner_StopWithoutAnimation(t *testing.T) {
	Init(true)
	var buf bytes.Buffer
	s := NewSpinner(&buf, "probing", false)
	s.Start()
	s.UpdateMessage("still probing")
	s.Stop(false, "unreachable")
	s.Stop(true, "ignored")
	if got := buf.String(); got != "✗ unreachable\n" {
		t.Fatalf("spinner output = %q", got)
	}
}

func TestPrintCandidates(t *testing.T) {
	Init(true)
	yes, no := true, false
	var buf bytes.Buffer
	PrintCandidates(&buf, "Candidates", []CandidateRow{
		{URL: "https://x.org/a.zip", Format: "shapefile", Score: 90, Rule: "zip-suffix", Reachable: &yes},
		{URL: "https://x.org/wfs", Format: "wfs_service", Score: 10, Rule: "wfs-service", LayerName: "ns:roads", Reachable: &no},
		{URL: "https://x.org/" + strings.Repeat("p", 100), Format: "unknown", Score: 0, Rule: "unknown"},
	})
	out := buf.String()
	for _, w := range []string{"Candidates", "score", "shapefile", "✓ https://x.org/a.zip", "✗ https://x.org/wfs", "layer=ns:roads", "rule=unknown", "…"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q.\nGot:\n%s", w, out)
		}
	}

	buf.Reset()
	PrintCandidates(&buf, "Candidates", nil)
	if !strings.Contains(buf.String(), "no download links declared") {
		t.Fatalf("empty listing = %q", buf.String())
	}
}

func TestPickCandidate_Empty(t *testing.T) {
	if _, err := PickCandidate(nil); err == nil {
		t.Fatalf("expected error for empty candidate list")
	}
}

func TestFormatScore(t *testing.T) {
	Init(true)
	if got := FormatScore(7); got != "  7" {
		t.Fatalf("FormatScore = %q", got)
	}
}
