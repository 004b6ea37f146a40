package api

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/report"
	"github.com/KARTHIKEYASHARMA672/elctronic/internal/task"
)

// statusEvent is the data of an SSE status event
type statusEvent struct {
	TaskID  string       `json:"task_id"`
	Status  task.Status  `json:"status"`
	Message string       `json:"message"`
	Stage   report.Stage `json:"stage,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// HandleStatus streams status updates of a task until it is terminal
func (h *Handler) HandleStatus(c *gin.Context) {
	updates := make(chan task.Task, 16)
	t, unsubscribe, err := h.taskMgr.Subscribe(c.Param("task_id"), func(t task.Task) {
		select {
		case updates <- t:
		default:
			// Client channel is full, skip
		}
	})
	if err != nil {
		writeError(c, err)
		return
	}
	defer unsubscribe()

	// Set headers for SSE
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Send initial status
	sendSSEMessage(c.Writer, "status", t)
	c.Writer.Flush()

	if t.IsTerminal() {
		return
	}

	clientGone := c.Request.Context().Done()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case t := <-updates:
			sendSSEMessage(c.Writer, "status", t)
			c.Writer.Flush()

			if t.IsTerminal() {
				return
			}

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()
		}
	}
}

// sendSSEMessage sends an SSE message
func sendSSEMessage(w io.Writer, event string, t task.Task) {
	data, err := json.Marshal(statusEvent{
		TaskID:  t.ID,
		Status:  t.Status,
		Message: t.Message,
		Stage:   t.Stage,
		Error:   t.Error,
	})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
