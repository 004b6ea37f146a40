package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KARTHIKEYASHARMA672/elctronic/internal/generator"
)

var (
	// ErrNotFound means no task has the given ID
	ErrNotFound = errors.New("task not found")
	// ErrBusy means MaxConcurrentTasks tasks are already generating
	ErrBusy = errors.New("too many reports are being generated, try again shortly")
	// ErrFinished means the task already reached a terminal state
	ErrFinished = errors.New("task already finished")
	// ErrShutdown means the manager no longer accepts tasks
	ErrShutdown = errors.New("task manager is shut down")
)

// RunFunc performs the generation for a task. It must return when ctx is done.
type RunFunc func(ctx context.Context, req generator.Request) (*generator.Outcome, error)

// StatusCallback is called with a copy of the task after every status change.
// It runs on the task goroutine and must not block.
type StatusCallback func(t Task)

type entry struct {
	task      *Task
	cancel    context.CancelFunc
	callbacks map[int]StatusCallback
	cancelled bool
}

// Manager runs generation tasks in the background and keeps their results
// in memory until the retention period passes.
type Manager struct {
	mu        sync.RWMutex
	tasks     map[string]*entry
	nextSubID int

	maxConcurrentTasks int
	activeTasks        int
	retention          time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a new task manager. Terminal tasks older than
// retention are dropped; zero keeps them forever.
func NewManager(maxConcurrentTasks int, retention time.Duration) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		tasks:              make(map[string]*entry),
		maxConcurrentTasks: maxConcurrentTasks,
		retention:          retention,
		ctx:                ctx,
		cancel:             cancel,
	}

	if retention > 0 {
		m.wg.Add(1)
		go m.janitor(retention)
	}

	return m
}

// Submit creates a task for req and starts run in the background
func (m *Manager) Submit(req generator.Request, run RunFunc) (Task, error) {
	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		return Task{}, ErrShutdown
	}
	if m.activeTasks >= m.maxConcurrentTasks {
		m.mu.Unlock()
		return Task{}, ErrBusy
	}

	now := time.Now()
	t := &Task{
		ID:        uuid.New().String(),
		Input:     req.Input,
		Kind:      req.Kind,
		Model:     req.Model,
		Status:    StatusPending,
		Message:   "Task created",
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.tasks[t.ID] = &entry{task: t, cancel: cancel, callbacks: make(map[int]StatusCallback)}
	m.activeTasks++
	m.wg.Add(1)
	snap := t.snapshot()
	m.mu.Unlock()

	go m.process(ctx, t.ID, req, run)

	return snap, nil
}

// process runs a task to a terminal state
func (m *Manager) process(ctx context.Context, id string, req generator.Request, run RunFunc) {
	defer m.wg.Done()

	m.update(id, func(t *Task) {
		t.UpdateStatus(StatusGenerating, "Generating project report...")
	})

	out, err := run(ctx, req)

	m.mu.Lock()
	m.activeTasks--
	m.mu.Unlock()

	m.update(id, func(t *Task) {
		if out != nil && out.Model != "" {
			t.Model = out.Model
		}
		switch {
		case ctx.Err() != nil && m.wasCancelled(id):
			t.UpdateStatus(StatusCancelled, "Task cancelled")
		case ctx.Err() != nil:
			t.UpdateStatus(StatusCancelled, "Server shutting down")
		case err != nil:
			t.SetError(err)
		default:
			t.SetResult(out.Result, out.Gaps)
		}
	})

	m.mu.RLock()
	if e, ok := m.tasks[id]; ok {
		e.cancel()
	}
	m.mu.RUnlock()
}

// update applies fn to the task and notifies subscribers
func (m *Manager) update(id string, fn func(t *Task)) {
	m.mu.Lock()
	e, ok := m.tasks[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	fn(e.task)
	snap := e.task.snapshot()
	callbacks := make([]StatusCallback, 0, len(e.callbacks))
	for _, cb := range e.callbacks {
		callbacks = append(callbacks, cb)
	}
	if snap.IsTerminal() {
		e.callbacks = make(map[int]StatusCallback)
	}
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(snap)
	}
}

// wasCancelled must be called with m.mu held for writing by update
func (m *Manager) wasCancelled(id string) bool {
	e, ok := m.tasks[id]
	return ok && e.cancelled
}

// Get returns a copy of the task
func (m *Manager) Get(id string) (Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e.task.snapshot(), nil
}

// Cancel stops a running task
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if e.task.IsTerminal() {
		return ErrFinished
	}
	e.cancelled = true
	e.cancel()
	return nil
}

// Subscribe registers cb for status changes of a task. It returns the
// task as of subscription and a function removing the subscription.
// Terminal tasks get no callbacks.
func (m *Manager) Subscribe(id string, cb StatusCallback) (Task, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[id]
	if !ok {
		return Task{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	snap := e.task.snapshot()
	if snap.IsTerminal() {
		return snap, func() {}, nil
	}

	subID := m.nextSubID
	m.nextSubID++
	e.callbacks[subID] = cb

	unsubscribe := func() {
		m.mu.Lock()
		delete(e.callbacks, subID)
		m.mu.Unlock()
	}
	return snap, unsubscribe, nil
}

// Prune drops terminal tasks last updated before cutoff and returns how many were removed
func (m *Manager) Prune(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.tasks {
		if e.task.IsTerminal() && e.task.UpdatedAt.Before(cutoff) {
			delete(m.tasks, id)
			removed++
		}
	}
	return removed
}

// janitor prunes expired tasks until shutdown
func (m *Manager) janitor(retention time.Duration) {
	defer m.wg.Done()

	interval := retention / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.Prune(now.Add(-retention))
		}
	}
}

// Shutdown cancels every running task and waits for them to finish
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.cancel()
	m.mu.Unlock()
	m.wg.Wait()
}
