package app

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joacominatel/alertsnap/internal/database"
)

// TaskState is the lifecycle of one submitted statement.
type TaskState int

// Task states. A task only moves forward: Idle, Running, then one terminal state.
const (
	TaskIdle TaskState = iota
	TaskRunning
	TaskSucceeded
	TaskFailed
)

func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	case TaskSucceeded:
		return "succeeded"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s TaskState) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// Task tracks one statement submitted to a session.
type Task struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Query     string

	mu     sync.Mutex
	state  TaskState
	result *database.QueryResult
	err    error

	done   chan struct{}
	finish sync.Once
	onDone func(*Task)
}

func newTask(sessionID uuid.UUID, query string, onDone func(*Task)) *Task {
	return &Task{
		ID:        uuid.New(),
		SessionID: sessionID,
		Query:     query,
		done:      make(chan struct{}),
		onDone:    onDone,
	}
}

// State returns the current state.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Result returns the result once the task succeeded, nil otherwise.
func (t *Task) Result() *database.QueryResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.result
}

// Err returns the failure once the task failed, nil otherwise.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// Wait blocks until the task is finished.
func (t *Task) Wait() (*database.QueryResult, error) {
	<-t.done

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.result, t.err
}

func (t *Task) start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TaskIdle {
		t.state = TaskRunning
	}
}

// complete moves the task to its terminal state. Only the first call has any
// effect, so the callback runs exactly once.
func (t *Task) complete(result *database.QueryResult, err error) {
	t.finish.Do(func() {
		defer close(t.done)

		t.mu.Lock()
		if err != nil {
			t.state = TaskFailed
			t.err = err
		} else {
			t.state = TaskSucceeded
			t.result = result
		}
		t.mu.Unlock()

		if t.onDone != nil {
			t.onDone(t)
		}
	})
}
