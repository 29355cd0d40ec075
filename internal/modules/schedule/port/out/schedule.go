package out

import (
	"context"

	"shakker/internal/modules/schedule/domain"
)

// TimerService is the host wake-timer primitive: exact-time, wake-from-idle
// one-shot delivery. Arm with an already-armed id replaces the prior timer.
// Arm may report apperrors.ErrExactAlarmsDenied on platforms that gate the
// capability behind a permission.
type TimerService interface {
	Arm(ctx context.Context, timer domain.ArmedTimer) error
	Cancel(ctx context.Context, alarmID int64) error
}
