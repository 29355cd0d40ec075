package in

import (
	"context"

	"shakker/internal/modules/schedule/dto"
)

type Usecase interface {
	Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error)
	Cancel(ctx context.Context, alarmID int64) error
	Armed(ctx context.Context) ([]dto.ArmedTimerOutput, error)
}
