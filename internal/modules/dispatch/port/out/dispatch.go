package out

import "context"

// AttentionSignal is the process-wide alerting resource. At most one
// instance plays at a time; Start replaces any prior instance. It is
// injected, never reached through package state, so sessions cannot leak
// into each other.
type AttentionSignal interface {
	Start(ctx context.Context, alarmID int64, message string) error
	Stop(ctx context.Context) error
	Active() bool
}
