package in

import (
	"context"

	"shakker/internal/modules/challenge/dto"
)

type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.SessionOutput, error)
	Submit(ctx context.Context, input dto.SubmitInput) (dto.SessionOutput, error)
	Suspend(ctx context.Context) error
	Resume(ctx context.Context) (dto.SessionOutput, error)
	ManualDismiss(ctx context.Context) error
	Active(ctx context.Context) (dto.SessionOutput, error)
}
