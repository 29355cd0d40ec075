package usecase

import (
	"context"

	"shakker/internal/modules/challenge/domain"
	"shakker/internal/modules/challenge/dto"
	challengein "shakker/internal/modules/challenge/port/in"
	"shakker/internal/modules/challenge/service"
)

type Interactor struct {
	svc *service.ChallengeService
}

func NewInteractor(svc *service.ChallengeService) challengein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Open(ctx context.Context, input dto.OpenInput) (dto.SessionOutput, error) {
	sess, err := i.svc.Open(ctx, input.AlarmID, input.Challenge)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) Submit(ctx context.Context, input dto.SubmitInput) (dto.SessionOutput, error) {
	sess, err := i.svc.Submit(ctx, input.Answer)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) Suspend(ctx context.Context) error {
	return i.svc.Suspend(ctx)
}

func (i *Interactor) Resume(ctx context.Context) (dto.SessionOutput, error) {
	sess, err := i.svc.Resume(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func (i *Interactor) ManualDismiss(ctx context.Context) error {
	return i.svc.ManualDismiss(ctx)
}

func (i *Interactor) Active(ctx context.Context) (dto.SessionOutput, error) {
	sess, err := i.svc.Active(ctx)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toOutput(sess), nil
}

func toOutput(sess domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		SessionID: sess.ID,
		AlarmID:   sess.AlarmID,
		Kind:      string(sess.Kind),
		State:     string(sess.State),
		Progress:  sess.Progress,
		Question:  sess.Question(),
		Degraded:  sess.Degraded,
	}
}
