package in

import (
	"context"

	alarmdto "shakker/internal/modules/alarm/dto"
	alarmin "shakker/internal/modules/alarm/port/in"
)

type CLIHandler struct {
	usecase alarmin.Usecase
}

func NewCLIHandler(usecase alarmin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Create(ctx context.Context, hour, minute int, message string, days []string, challenge string) (alarmdto.AlarmOutput, error) {
	return h.usecase.Create(ctx, alarmdto.CreateInput{Hour: hour, Minute: minute, Message: message, Days: days, Challenge: challenge})
}

func (h CLIHandler) Update(ctx context.Context, input alarmdto.UpdateInput) (alarmdto.AlarmOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) List(ctx context.Context) ([]alarmdto.AlarmOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id int64) (alarmdto.AlarmOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) SetEnabled(ctx context.Context, id int64, enabled bool) (alarmdto.AlarmOutput, error) {
	return h.usecase.SetEnabled(ctx, alarmdto.SetEnabledInput{ID: id, Enabled: enabled})
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) RescheduleAll(ctx context.Context) (alarmdto.RescheduleOutput, error) {
	return h.usecase.RescheduleAll(ctx)
}
