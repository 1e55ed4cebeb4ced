package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewOperation(t *testing.T) {
	op := NewOperation("Scan")

	if op.Name != "Scan" {
		t.Errorf("Name = %q, want %q", op.Name, "Scan")
	}
	if op.Status != "success" {
		t.Errorf("Status = %q, want %q", op.Status, "success")
	}
	if _, err := uuid.Parse(op.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", op.ID, err)
	}
	if other := NewOperation("Scan"); other.ID == op.ID {
		t.Error("two operations share an ID")
	}
	if op.Elapsed() < 0 {
		t.Error("Elapsed() is negative")
	}
}

func TestOperation_Fail(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
	}{
		{name: "nil error keeps success", err: nil, status: "success"},
		{name: "error marks failure", err: errors.New("boom"), status: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("List")
			if got := op.Fail(tt.err); got != tt.err {
				t.Errorf("Fail() = %v, want %v", got, tt.err)
			}
			if op.Status != tt.status {
				t.Errorf("Status = %q, want %q", op.Status, tt.status)
			}
		})
	}
}
