package usecase

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	alarmin "shakker/internal/modules/alarm/port/in"
	challengedto "shakker/internal/modules/challenge/dto"
	challengein "shakker/internal/modules/challenge/port/in"
	"shakker/internal/modules/dispatch/domain"
	"shakker/internal/modules/dispatch/dto"
	dispatchin "shakker/internal/modules/dispatch/port/in"
	"shakker/internal/modules/dispatch/service"
	schedulein "shakker/internal/modules/schedule/port/in"
)

type Interactor struct {
	svc        *service.DispatchService
	alarms     alarmin.Usecase
	challenges challengein.Usecase
	scheduler  schedulein.Usecase
	logger     hclog.Logger
}

func NewInteractor(svc *service.DispatchService, alarms alarmin.Usecase, challenges challengein.Usecase, scheduler schedulein.Usecase, logger hclog.Logger) dispatchin.Usecase {
	return &Interactor{
		svc:        svc,
		alarms:     alarms,
		challenges: challenges,
		scheduler:  scheduler,
		logger:     logger.Named("dispatch"),
	}
}

func (i *Interactor) TimerFired(ctx context.Context, input dto.FiredInput) (dto.FiredOutput, error) {
	event := domain.FiredEvent{AlarmID: input.AlarmID, Challenge: input.Challenge}
	if err := event.Validate(); err != nil {
		// Fail closed: no session, no signal.
		i.logger.Warn("dropping fired event", "alarm_id", input.AlarmID, "error", err)
		return dto.FiredOutput{}, err
	}

	// The one-shot timer consumed itself; keep the scheduler's view in step.
	if err := i.scheduler.Cancel(ctx, event.AlarmID); err != nil {
		i.logger.Warn("clearing fired timer failed", "alarm_id", event.AlarmID, "error", err)
	}

	alarm, err := i.alarms.Get(ctx, event.AlarmID)
	if err != nil {
		i.logger.Warn("fired event for unknown alarm", "alarm_id", event.AlarmID, "error", err)
		return dto.FiredOutput{}, err
	}

	message := alarm.Message + " (challenge: " + event.Challenge + ")"
	if err := i.svc.RaiseSignal(ctx, event.AlarmID, message); err != nil {
		return dto.FiredOutput{}, err
	}

	session, err := i.challenges.Open(ctx, challengedto.OpenInput{AlarmID: event.AlarmID, Challenge: event.Challenge})
	if err != nil {
		// Degrade to silent-but-unresolved rather than un-silenceable.
		_ = i.svc.Silence(ctx)
		return dto.FiredOutput{}, err
	}
	return dto.FiredOutput{
		SessionID: session.SessionID,
		Kind:      session.Kind,
		Degraded:  session.Degraded,
		Message:   message,
	}, nil
}

func (i *Interactor) BootCompleted(ctx context.Context) (dto.BootOutput, error) {
	res, err := i.alarms.RescheduleAll(ctx)
	if err != nil {
		return dto.BootOutput{}, err
	}
	i.logger.Info("boot reschedule complete", "scanned", res.Scanned, "armed", res.Armed, "denied", res.Denied)
	return dto.BootOutput{Scanned: res.Scanned, Armed: res.Armed, Denied: res.Denied}, nil
}

func (i *Interactor) Silence(ctx context.Context) error {
	return i.svc.Silence(ctx)
}
