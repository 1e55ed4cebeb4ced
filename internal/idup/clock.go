package idup

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so scan records are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock. Times are UTC so scan history sorts the
// same on every host.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator produces scan identifiers.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
