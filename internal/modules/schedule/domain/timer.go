package domain

import (
	"fmt"
	"time"
)

// ArmedTimer is a pending wake-up request with the host timer service. The
// payload travels opaquely to the firing dispatcher.
type ArmedTimer struct {
	AlarmID int64
	FireAt  time.Time
	Payload string
}

func (t ArmedTimer) Validate() error {
	if t.AlarmID <= 0 {
		return fmt.Errorf("alarm id must be assigned")
	}
	if t.FireAt.IsZero() {
		return fmt.Errorf("fire instant is required")
	}
	return nil
}
