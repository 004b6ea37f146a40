package task

import (
	"time"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/prompt"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/report"
)

// Status represents the status of a task
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Task represents a report generation task
type Task struct {
	ID        string       `json:"task_id"`
	Input     string       `json:"input"`
	Kind      prompt.Kind  `json:"kind"`
	Model     string       `json:"model"`
	Status    Status       `json:"status"`
	Message   string       `json:"message"`
	Stage     report.Stage `json:"stage,omitempty"`
	Report    any          `json:"report,omitempty"`
	Gaps      []string     `json:"gaps,omitempty"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	result *report.Result
}

// UpdateStatus updates the task status and message
func (t *Task) UpdateStatus(status Status, message string) {
	t.Status = status
	t.Message = message
	t.UpdatedAt = time.Now()
}

// SetError sets the task error and status to failed
func (t *Task) SetError(err error) {
	t.Status = StatusFailed
	t.Error = err.Error()
	t.Message = "Task failed"
	t.UpdatedAt = time.Now()
}

// SetResult stores a normalized reply and marks the task completed
func (t *Task) SetResult(res report.Result, gaps []string) {
	t.result = &res
	t.Stage = res.Stage
	t.Report = res.Document()
	t.Gaps = gaps
	if res.OK() {
		t.UpdateStatus(StatusCompleted, "Project report generated")
	} else {
		t.UpdateStatus(StatusCompleted, "Model reply was not valid JSON; raw output kept")
	}
}

// Result returns the normalized reply of a completed task
func (t *Task) Result() (report.Result, bool) {
	if t.result == nil {
		return report.Result{}, false
	}
	return *t.result, true
}

// IsTerminal returns true if the task is in a terminal state
func (t *Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed || t.Status == StatusCancelled
}

// snapshot copies t so it can be handed out without holding the manager lock
func (t *Task) snapshot() Task {
	c := *t
	c.Gaps = append([]string(nil), t.Gaps...)
	if len(c.Gaps) == 0 {
		c.Gaps = nil
	}
	return c
}
