package in

import (
	"context"

	"shakker/internal/modules/alarm/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateInput) (dto.AlarmOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.AlarmOutput, error)
	List(ctx context.Context) ([]dto.AlarmOutput, error)
	Get(ctx context.Context, id int64) (dto.AlarmOutput, error)
	SetEnabled(ctx context.Context, input dto.SetEnabledInput) (dto.AlarmOutput, error)
	Delete(ctx context.Context, id int64) error
	CompleteFiring(ctx context.Context, id int64) (dto.AlarmOutput, error)
	RescheduleAll(ctx context.Context) (dto.RescheduleOutput, error)
}
