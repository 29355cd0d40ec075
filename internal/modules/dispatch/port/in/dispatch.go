package in

import (
	"context"

	"shakker/internal/modules/dispatch/dto"
)

type Usecase interface {
	TimerFired(ctx context.Context, input dto.FiredInput) (dto.FiredOutput, error)
	BootCompleted(ctx context.Context) (dto.BootOutput, error)
	Silence(ctx context.Context) error
}
