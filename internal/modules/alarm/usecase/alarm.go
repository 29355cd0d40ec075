package usecase

import (
	"context"
	"fmt"

	"shakker/internal/modules/alarm/domain"
	"shakker/internal/modules/alarm/dto"
	alarmin "shakker/internal/modules/alarm/port/in"
	alarmout "shakker/internal/modules/alarm/port/out"
	"shakker/internal/modules/alarm/service"
	scheduledto "shakker/internal/modules/schedule/dto"
	schedulein "shakker/internal/modules/schedule/port/in"
	apperrors "shakker/internal/platform/errors"
	"shakker/internal/platform/seq"
)

type Interactor struct {
	svc       *service.AlarmService
	store     alarmout.AlarmStore
	scheduler schedulein.Usecase
	seq       seq.Sequencer
}

func NewInteractor(svc *service.AlarmService, store alarmout.AlarmStore, scheduler schedulein.Usecase, sequencer seq.Sequencer) alarmin.Usecase {
	return &Interactor{svc: svc, store: store, scheduler: scheduler, seq: sequencer}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateInput) (dto.AlarmOutput, error) {
	days, err := domain.ParseDayNames(input.Days)
	if err != nil {
		return dto.AlarmOutput{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err)
	}
	alarm, err := i.svc.Build(input.Hour, input.Minute, input.Message, days, domain.NormalizeChallenge(input.Challenge))
	if err != nil {
		return dto.AlarmOutput{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err)
	}

	id, err := i.store.Create(ctx, alarm)
	if err != nil {
		return dto.AlarmOutput{}, err
	}
	alarm.ID = id

	armed, err := i.arm(ctx, alarm)
	if err != nil {
		return dto.AlarmOutput{}, err
	}
	return toOutput(alarm, armed), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateInput) (dto.AlarmOutput, error) {
	var out dto.AlarmOutput
	err := i.seq.Do(input.ID, func() error {
		alarm, err := i.store.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		hour, minute := alarm.FireTime().Hour(), alarm.FireTime().Minute()
		if input.Hour >= 0 {
			hour, minute = input.Hour, input.Minute
		}
		days := alarm.Days
		if input.Days != nil {
			days, err = domain.ParseDayNames(input.Days)
			if err != nil {
				return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err)
			}
		}
		message := alarm.Message
		if input.Message != "" {
			message = input.Message
		}
		challenge := alarm.Challenge
		if input.Challenge != "" {
			challenge = domain.NormalizeChallenge(input.Challenge)
		}

		rebuilt, err := i.svc.Build(hour, minute, message, days, challenge)
		if err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err)
		}
		rebuilt.ID = alarm.ID
		rebuilt.Enabled = alarm.Enabled
		if err := i.store.Update(ctx, rebuilt); err != nil {
			return err
		}

		armed := scheduledto.ScheduleOutput{}
		if rebuilt.Enabled {
			armed, err = i.arm(ctx, rebuilt)
			if err != nil {
				return err
			}
		}
		out = toOutput(rebuilt, armed)
		return nil
	})
	return out, err
}

func (i *Interactor) List(ctx context.Context) ([]dto.AlarmOutput, error) {
	alarms, err := i.store.List(ctx)
	if err != nil {
		return nil, err
	}
	armedSet, err := i.armedSet(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlarmOutput, 0, len(alarms))
	for _, a := range alarms {
		out = append(out, toOutput(a, scheduledto.ScheduleOutput{Armed: armedSet[a.ID]}))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id int64) (dto.AlarmOutput, error) {
	alarm, err := i.store.GetByID(ctx, id)
	if err != nil {
		return dto.AlarmOutput{}, err
	}
	armedSet, err := i.armedSet(ctx)
	if err != nil {
		return dto.AlarmOutput{}, err
	}
	return toOutput(alarm, scheduledto.ScheduleOutput{Armed: armedSet[id]}), nil
}

// SetEnabled applies a toggle coming from the list surface. The model state
// is applied silently: re-deriving the fire instant and re-arming happens
// here, never by re-emitting the toggle back through the caller.
func (i *Interactor) SetEnabled(ctx context.Context, input dto.SetEnabledInput) (dto.AlarmOutput, error) {
	var out dto.AlarmOutput
	err := i.seq.Do(input.ID, func() error {
		alarm, err := i.store.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}
		alarm.Enabled = input.Enabled
		if input.Enabled {
			// A stale instant from before the toggle must not fire in
			// the past; advance it first.
			alarm = i.svc.RollForward(alarm)
		}
		if err := i.store.Update(ctx, alarm); err != nil {
			return err
		}

		armed := scheduledto.ScheduleOutput{}
		if input.Enabled {
			armed, err = i.arm(ctx, alarm)
			if err != nil {
				return err
			}
		} else if err := i.scheduler.Cancel(ctx, alarm.ID); err != nil {
			return err
		}
		out = toOutput(alarm, armed)
		return nil
	})
	return out, err
}

func (i *Interactor) Delete(ctx context.Context, id int64) error {
	return i.seq.Do(id, func() error {
		if err := i.scheduler.Cancel(ctx, id); err != nil {
			return err
		}
		return i.store.Delete(ctx, id)
	})
}

// CompleteFiring finalizes a dismissed alarm: repeating records roll forward
// and re-arm, one-time records deactivate.
func (i *Interactor) CompleteFiring(ctx context.Context, id int64) (dto.AlarmOutput, error) {
	var out dto.AlarmOutput
	err := i.seq.Do(id, func() error {
		alarm, err := i.store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !alarm.Repeating() {
			alarm.Enabled = false
			if err := i.store.Update(ctx, alarm); err != nil {
				return err
			}
			if err := i.scheduler.Cancel(ctx, alarm.ID); err != nil {
				return err
			}
			out = toOutput(alarm, scheduledto.ScheduleOutput{})
			return nil
		}

		alarm = i.svc.RollForward(alarm)
		if err := i.store.Update(ctx, alarm); err != nil {
			return err
		}
		armed, err := i.arm(ctx, alarm)
		if err != nil {
			return err
		}
		out = toOutput(alarm, armed)
		return nil
	})
	return out, err
}

// RescheduleAll re-arms every enabled record, recomputing elapsed instants.
// Armed timers do not survive a restart, so this runs on boot and on daemon
// start.
func (i *Interactor) RescheduleAll(ctx context.Context) (dto.RescheduleOutput, error) {
	alarms, err := i.store.List(ctx)
	if err != nil {
		return dto.RescheduleOutput{}, err
	}

	out := dto.RescheduleOutput{}
	for _, alarm := range alarms {
		if !alarm.Enabled {
			continue
		}
		out.Scanned++

		rolled := i.svc.RollForward(alarm)
		if rolled.FireAt != alarm.FireAt {
			if err := i.store.Update(ctx, rolled); err != nil {
				return dto.RescheduleOutput{}, err
			}
		}
		armed, err := i.arm(ctx, rolled)
		if err != nil {
			return dto.RescheduleOutput{}, err
		}
		if armed.Armed {
			out.Armed++
		}
		if armed.Denied {
			out.Denied++
		}
	}
	return out, nil
}

func (i *Interactor) arm(ctx context.Context, alarm domain.Alarm) (scheduledto.ScheduleOutput, error) {
	return i.scheduler.Schedule(ctx, scheduledto.ScheduleInput{
		AlarmID:   alarm.ID,
		FireAt:    alarm.FireTime(),
		Challenge: string(alarm.Challenge),
	})
}

func (i *Interactor) armedSet(ctx context.Context) (map[int64]bool, error) {
	timers, err := i.scheduler.Armed(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(timers))
	for _, t := range timers {
		set[t.AlarmID] = true
	}
	return set, nil
}

func toOutput(alarm domain.Alarm, armed scheduledto.ScheduleOutput) dto.AlarmOutput {
	return dto.AlarmOutput{
		ID:        alarm.ID,
		FireAt:    alarm.FireTime(),
		TimeLabel: alarm.FireTime().Format("03:04 PM"),
		Message:   alarm.Message,
		Enabled:   alarm.Enabled,
		Repeat:    alarm.Days.String(),
		Challenge: string(alarm.Challenge),
		Armed:     armed.Armed,
		Denied:    armed.Denied,
	}
}
