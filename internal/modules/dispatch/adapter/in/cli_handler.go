package in

import (
	"context"

	dispatchdto "shakker/internal/modules/dispatch/dto"
	dispatchin "shakker/internal/modules/dispatch/port/in"
)

type CLIHandler struct {
	usecase dispatchin.Usecase
}

func NewCLIHandler(usecase dispatchin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) TimerFired(ctx context.Context, alarmID int64, challenge string) (dispatchdto.FiredOutput, error) {
	return h.usecase.TimerFired(ctx, dispatchdto.FiredInput{AlarmID: alarmID, Challenge: challenge})
}

func (h CLIHandler) BootCompleted(ctx context.Context) (dispatchdto.BootOutput, error) {
	return h.usecase.BootCompleted(ctx)
}

func (h CLIHandler) Silence(ctx context.Context) error {
	return h.usecase.Silence(ctx)
}
