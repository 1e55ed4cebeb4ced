package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation is one CLI invocation. Its ID tags every log line written while
// it runs, so the lines of one command can be pulled out of the shared log.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation creates an operation with a fresh ID.
func NewOperation(name string) *Operation {
	return &Operation{
		ID:        uuid.New().String(),
		Name:      name,
		StartedAt: time.Now(),
		Status:    "success",
	}
}

// Fail marks the operation as failed when err is non-nil and returns err.
func (op *Operation) Fail(err error) error {
	if err != nil {
		op.Status = "error"
	}
	return err
}

// Elapsed returns how long the operation has been running.
func (op *Operation) Elapsed() time.Duration {
	return time.Since(op.StartedAt)
}
