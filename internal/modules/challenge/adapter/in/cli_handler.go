package in

import (
	"context"

	challengedto "shakker/internal/modules/challenge/dto"
	challengein "shakker/internal/modules/challenge/port/in"
)

type CLIHandler struct {
	usecase challengein.Usecase
}

func NewCLIHandler(usecase challengein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Submit(ctx context.Context, answer int) (challengedto.SessionOutput, error) {
	return h.usecase.Submit(ctx, challengedto.SubmitInput{Answer: answer})
}

func (h CLIHandler) Suspend(ctx context.Context) error {
	return h.usecase.Suspend(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (challengedto.SessionOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) ManualDismiss(ctx context.Context) error {
	return h.usecase.ManualDismiss(ctx)
}

func (h CLIHandler) Active(ctx context.Context) (challengedto.SessionOutput, error) {
	return h.usecase.Active(ctx)
}
