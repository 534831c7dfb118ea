package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const frameInterval = 80 * time.Millisecond

// TaskStatus represents the status of a task
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskRunning
	TaskDone
	TaskFailed
	TaskSkipped
)

// Task is one step of a Workflow.
type Task struct {
	Name    string
	Status  TaskStatus
	Message string
	Details string // shown once the task is done
}

// Workflow renders a fixed list of steps with a spinner on the running one.
// With animation disabled only the final state is written, which keeps
// output clean when stderr is not a terminal.
type Workflow struct {
	writer  io.Writer
	animate bool

	mu         sync.Mutex
	tasks      []*Task
	frame      int
	lines      int
	running    bool
	stop       chan struct{}
	done       chan struct{}
	startTime  time.Time
	finishTime time.Time
}

// NewWorkflow creates a workflow writing to w.
func NewWorkflow(w io.Writer, animate bool) *Workflow {
	return &Workflow{writer: w, animate: animate}
}

// AddTask appends a pending task and returns its index.
func (wf *Workflow) AddTask(name string) int {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.tasks = append(wf.tasks, &Task{Name: name})
	return len(wf.tasks) - 1
}

func (wf *Workflow) update(idx int, fn func(*Task)) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if idx >= 0 && idx < len(wf.tasks) {
		fn(wf.tasks[idx])
	}
}

// StartTask marks a task as running
func (wf *Workflow) StartTask(idx int, message string) {
	wf.update(idx, func(t *Task) { t.Status, t.Message = TaskRunning, message })
}

// UpdateMessage replaces the message of a task
func (wf *Workflow) UpdateMessage(idx int, message string) {
	wf.update(idx, func(t *Task) { t.Message = message })
}

// CompleteTask marks a task as done
func (wf *Workflow) CompleteTask(idx int, details string) {
	wf.update(idx, func(t *Task) { t.Status, t.Details = TaskDone, details })
}

// FailTask marks a task as failed
func (wf *Workflow) FailTask(idx int, errMsg string) {
	wf.update(idx, func(t *Task) { t.Status, t.Message = TaskFailed, errMsg })
}

// SkipTask marks a task as skipped
func (wf *Workflow) SkipTask(idx int, reason string) {
	wf.update(idx, func(t *Task) { t.Status, t.Message = TaskSkipped, reason })
}

// Tasks returns a snapshot of the task list.
func (wf *Workflow) Tasks() []Task {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	out := make([]Task, len(wf.tasks))
	for i, t := range wf.tasks {
		out[i] = *t
	}
	return out
}

// Elapsed is the time since Start, frozen once Stop returns.
func (wf *Workflow) Elapsed() time.Duration {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if wf.startTime.IsZero() {
		return 0
	}
	if !wf.finishTime.IsZero() {
		return wf.finishTime.Sub(wf.startTime)
	}
	return time.Since(wf.startTime)
}

// Start begins the display.
func (wf *Workflow) Start() {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	if wf.running {
		return
	}
	wf.running = true
	wf.startTime = time.Now()
	if !wf.animate {
		return
	}
	wf.stop = make(chan struct{})
	wf.done = make(chan struct{})
	go wf.loop(wf.stop, wf.done)
}

func (wf *Workflow) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			wf.mu.Lock()
			wf.frame = (wf.frame + 1) % len(spinnerFrames)
			wf.draw(wf.renderTask)
			wf.mu.Unlock()
		}
	}
}

// Stop ends the display and writes the final state of every task.
func (wf *Workflow) Stop() {
	wf.mu.Lock()
	if !wf.running {
		wf.mu.Unlock()
		return
	}
	wf.running = false
	stop, done := wf.stop, wf.done
	wf.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	wf.mu.Lock()
	defer wf.mu.Unlock()
	wf.finishTime = time.Now()
	wf.draw(renderTaskFinal)
}

// draw replaces the previously drawn block. Caller holds mu.
func (wf *Workflow) draw(render func(*Task) string) {
	var b strings.Builder
	for i := 0; i < wf.lines; i++ {
		b.WriteString("\033[A\033[K")
	}
	for _, t := range wf.tasks {
		b.WriteString(render(t))
		b.WriteString("\n")
	}
	wf.lines = len(wf.tasks)
	fmt.Fprint(wf.writer, b.String())
}

func (wf *Workflow) renderTask(t *Task) string {
	icon, nameStyle := taskIcon(t.Status)
	msgStyle := Dim
	switch t.Status {
	case TaskRunning:
		icon = Secondary.Render(spinnerFrames[wf.frame])
		msgStyle = Secondary
	case TaskFailed:
		msgStyle = Error
	case TaskSkipped:
		msgStyle = Warning
	}
	line := icon + " " + nameStyle.Render(t.Name)
	if t.Message != "" {
		line += " " + msgStyle.Render(t.Message)
	}
	return line
}

func renderTaskFinal(t *Task) string {
	icon, nameStyle := taskIcon(t.Status)
	line := icon + " " + nameStyle.Render(t.Name)
	switch {
	case t.Status == TaskDone && t.Details != "":
		line += " " + Dim.Render("→ "+t.Details)
	case t.Status == TaskFailed && t.Message != "":
		line += " " + Error.Render("→ "+t.Message)
	case t.Status == TaskSkipped && t.Message != "":
		line += " " + Warning.Render("→ "+t.Message)
	}
	return line
}

// taskIcon returns the static icon and name style of a status. A task
// still running at the end is drawn as pending.
func taskIcon(s TaskStatus) (string, styleWrapper) {
	switch s {
	case TaskDone:
		return GetCheckMark(), StepComplete
	case TaskFailed:
		return GetCrossMark(), StepFailed
	case TaskSkipped:
		return Warning.Render("⊘"), StepSkipped
	case TaskRunning:
		return Muted.Render("○"), StepRunning
	default:
		return Muted.Render("○"), StepPending
	}
}

// Spinner is an inline spinner for a single short operation.
type Spinner struct {
	writer  io.Writer
	animate bool

	mu      sync.Mutex
	message string
	frame   int
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner creates a spinner showing message.
func NewSpinner(w io.Writer, message string, animate bool) *Spinner {
	return &Spinner{writer: w, message: message, animate: animate}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	if !s.animate {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.mu.Lock()
				s.frame = (s.frame + 1) % len(spinnerFrames)
				fmt.Fprintf(s.writer, "\r\033[K%s %s", Secondary.Render(spinnerFrames[s.frame]), s.message)
				s.mu.Unlock()
			}
		}
	}(s.stop, s.done)
}

// UpdateMessage replaces the spinner message
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop ends the spinner and prints the outcome on the same line.
func (s *Spinner) Stop(success bool, finalMessage string) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
		fmt.Fprint(s.writer, "\r\033[K")
	}
	if success {
		fmt.Fprintf(s.writer, "%s %s\n", GetCheckMark(), finalMessage)
	} else {
		fmt.Fprintf(s.writer, "%s %s\n", GetCrossMark(), Error.Render(finalMessage))
	}
}
