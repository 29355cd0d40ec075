package usecase

import (
	"context"
	"sort"

	"shakker/internal/modules/schedule/domain"
	"shakker/internal/modules/schedule/dto"
	schedulein "shakker/internal/modules/schedule/port/in"
	"shakker/internal/modules/schedule/service"
)

type Interactor struct {
	svc *service.ScheduleService
}

func NewInteractor(svc *service.ScheduleService) schedulein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Schedule(ctx context.Context, input dto.ScheduleInput) (dto.ScheduleOutput, error) {
	status, err := i.svc.Schedule(ctx, domain.ArmedTimer{
		AlarmID: input.AlarmID,
		FireAt:  input.FireAt,
		Payload: input.Challenge,
	})
	if err != nil {
		return dto.ScheduleOutput{}, err
	}
	return dto.ScheduleOutput{Armed: status.Armed, Denied: status.Denied, Skipped: status.Skipped}, nil
}

func (i *Interactor) Cancel(ctx context.Context, alarmID int64) error {
	return i.svc.Cancel(ctx, alarmID)
}

func (i *Interactor) Armed(ctx context.Context) ([]dto.ArmedTimerOutput, error) {
	timers := i.svc.Armed()
	sort.Slice(timers, func(a, b int) bool { return timers[a].FireAt.Before(timers[b].FireAt) })
	out := make([]dto.ArmedTimerOutput, 0, len(timers))
	for _, t := range timers {
		out = append(out, dto.ArmedTimerOutput{AlarmID: t.AlarmID, FireAt: t.FireAt, Challenge: t.Payload})
	}
	return out, nil
}
