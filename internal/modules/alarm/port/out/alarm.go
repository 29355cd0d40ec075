package out

import (
	"context"

	"shakker/internal/modules/alarm/domain"
)

// AlarmStore owns persisted alarm records. List returns records ordered by
// fire instant, soonest first. GetByID reports apperrors.ErrNotFound for
// unknown identifiers.
type AlarmStore interface {
	Create(ctx context.Context, alarm domain.Alarm) (int64, error)
	Update(ctx context.Context, alarm domain.Alarm) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Alarm, error)
	GetByID(ctx context.Context, id int64) (domain.Alarm, error)
}
