package queue

import "errors"

var (
	// ErrUnknownTask is returned when executing a task that was never
	// registered.
	ErrUnknownTask = errors.New("queue: unknown task")

	// ErrInvalidPayload is returned when a payload cannot be unmarshaled
	// into the task's expected type.
	ErrInvalidPayload = errors.New("queue: invalid payload")

	// ErrAlreadyStarted is returned when starting a running manager.
	ErrAlreadyStarted = errors.New("queue: already started")

	// ErrNotStarted is returned when stopping a manager that never started.
	ErrNotStarted = errors.New("queue: not started")

	// ErrPoolRequired is returned when no database pool is provided.
	ErrPoolRequired = errors.New("queue: pool is required")
)
