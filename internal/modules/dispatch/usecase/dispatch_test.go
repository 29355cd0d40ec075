package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	alarmdto "shakker/internal/modules/alarm/dto"
	challengedto "shakker/internal/modules/challenge/dto"
	dispatchdto "shakker/internal/modules/dispatch/dto"
	"shakker/internal/modules/dispatch/service"
	scheduledto "shakker/internal/modules/schedule/dto"
	apperrors "shakker/internal/platform/errors"
	"shakker/internal/platform/logging"
)

type fakeSignal struct {
	active   bool
	starts   int
	stops    int
	messages []string
}

func (f *fakeSignal) Start(ctx context.Context, alarmID int64, message string) error {
	f.active = true
	f.starts++
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeSignal) Stop(ctx context.Context) error {
	f.active = false
	f.stops++
	return nil
}

func (f *fakeSignal) Active() bool {
	return f.active
}

type fakeAlarms struct {
	alarms     map[int64]alarmdto.AlarmOutput
	reschedule alarmdto.RescheduleOutput
}

func (f *fakeAlarms) Create(ctx context.Context, input alarmdto.CreateInput) (alarmdto.AlarmOutput, error) {
	return alarmdto.AlarmOutput{}, nil
}

func (f *fakeAlarms) Update(ctx context.Context, input alarmdto.UpdateInput) (alarmdto.AlarmOutput, error) {
	return alarmdto.AlarmOutput{}, nil
}

func (f *fakeAlarms) List(ctx context.Context) ([]alarmdto.AlarmOutput, error) {
	return nil, nil
}

func (f *fakeAlarms) Get(ctx context.Context, id int64) (alarmdto.AlarmOutput, error) {
	alarm, ok := f.alarms[id]
	if !ok {
		return alarmdto.AlarmOutput{}, apperrors.ErrNotFound
	}
	return alarm, nil
}

func (f *fakeAlarms) SetEnabled(ctx context.Context, input alarmdto.SetEnabledInput) (alarmdto.AlarmOutput, error) {
	return alarmdto.AlarmOutput{}, nil
}

func (f *fakeAlarms) Delete(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeAlarms) CompleteFiring(ctx context.Context, id int64) (alarmdto.AlarmOutput, error) {
	return alarmdto.AlarmOutput{}, nil
}

func (f *fakeAlarms) RescheduleAll(ctx context.Context) (alarmdto.RescheduleOutput, error) {
	return f.reschedule, nil
}

type fakeChallenges struct {
	openErr error
	opened  []challengedto.OpenInput
}

func (f *fakeChallenges) Open(ctx context.Context, input challengedto.OpenInput) (challengedto.SessionOutput, error) {
	if f.openErr != nil {
		return challengedto.SessionOutput{}, f.openErr
	}
	f.opened = append(f.opened, input)
	return challengedto.SessionOutput{SessionID: "sess1", AlarmID: input.AlarmID, Kind: input.Challenge, State: "ARMED"}, nil
}

func (f *fakeChallenges) Submit(ctx context.Context, input challengedto.SubmitInput) (challengedto.SessionOutput, error) {
	return challengedto.SessionOutput{}, nil
}

func (f *fakeChallenges) Suspend(ctx context.Context) error {
	return nil
}

func (f *fakeChallenges) Resume(ctx context.Context) (challengedto.SessionOutput, error) {
	return challengedto.SessionOutput{}, nil
}

func (f *fakeChallenges) ManualDismiss(ctx context.Context) error {
	return nil
}

func (f *fakeChallenges) Active(ctx context.Context) (challengedto.SessionOutput, error) {
	return challengedto.SessionOutput{}, apperrors.ErrNoActiveChallenge
}

type fakeScheduler struct {
	cancelled []int64
}

func (f *fakeScheduler) Schedule(ctx context.Context, input scheduledto.ScheduleInput) (scheduledto.ScheduleOutput, error) {
	return scheduledto.ScheduleOutput{}, nil
}

func (f *fakeScheduler) Cancel(ctx context.Context, alarmID int64) error {
	f.cancelled = append(f.cancelled, alarmID)
	return nil
}

func (f *fakeScheduler) Armed(ctx context.Context) ([]scheduledto.ArmedTimerOutput, error) {
	return nil, nil
}

func newFixture(alarms map[int64]alarmdto.AlarmOutput) (*fakeSignal, *fakeChallenges, *fakeScheduler, *Interactor) {
	signal := &fakeSignal{}
	challenges := &fakeChallenges{}
	scheduler := &fakeScheduler{}
	svc := service.NewDispatchService(signal, logging.Discard())
	uc := NewInteractor(svc, &fakeAlarms{alarms: alarms}, challenges, scheduler, logging.Discard())
	return signal, challenges, scheduler, uc.(*Interactor)
}

func TestTimerFiredOpensSessionAndSignal(t *testing.T) {
	t.Parallel()
	signal, challenges, scheduler, uc := newFixture(map[int64]alarmdto.AlarmOutput{
		4: {ID: 4, Message: "Wake up"},
	})

	out, err := uc.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: 4, Challenge: "MATH"})
	if err != nil {
		t.Fatalf("fired: %v", err)
	}
	if out.SessionID != "sess1" {
		t.Fatalf("session %q", out.SessionID)
	}
	if signal.starts != 1 || !signal.active {
		t.Fatalf("starts %d active %v", signal.starts, signal.active)
	}
	if !strings.Contains(out.Message, "Wake up") || !strings.Contains(out.Message, "MATH") {
		t.Fatalf("message %q", out.Message)
	}
	if len(challenges.opened) != 1 || challenges.opened[0].AlarmID != 4 {
		t.Fatalf("opened %v", challenges.opened)
	}
	if len(scheduler.cancelled) != 1 || scheduler.cancelled[0] != 4 {
		t.Fatalf("cancelled %v", scheduler.cancelled)
	}
}

func TestTimerFiredRejectsSentinelID(t *testing.T) {
	t.Parallel()
	signal, challenges, _, uc := newFixture(nil)

	_, err := uc.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: -1, Challenge: "SHAKE"})
	if err == nil {
		t.Fatal("sentinel id accepted")
	}
	if signal.starts != 0 {
		t.Fatalf("signal started %d times", signal.starts)
	}
	if len(challenges.opened) != 0 {
		t.Fatalf("opened %v", challenges.opened)
	}
}

func TestTimerFiredUnknownAlarmStaysSilent(t *testing.T) {
	t.Parallel()
	signal, challenges, _, uc := newFixture(nil)

	_, err := uc.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: 9, Challenge: "SHAKE"})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("err %v", err)
	}
	if signal.starts != 0 || len(challenges.opened) != 0 {
		t.Fatalf("starts %d opened %v", signal.starts, challenges.opened)
	}
}

func TestTimerFiredSilencesWhenSessionFails(t *testing.T) {
	t.Parallel()
	signal, challenges, _, uc := newFixture(map[int64]alarmdto.AlarmOutput{
		2: {ID: 2, Message: "Alarm for 07:00 AM"},
	})
	challenges.openErr = errors.New("sensor host exploded")

	_, err := uc.TimerFired(context.Background(), dispatchdto.FiredInput{AlarmID: 2, Challenge: "SHAKE"})
	if err == nil {
		t.Fatal("expected error")
	}
	if signal.active {
		t.Fatal("signal left playing with no session to dismiss it")
	}
}

func TestBootCompletedDelegates(t *testing.T) {
	t.Parallel()
	signal := &fakeSignal{}
	svc := service.NewDispatchService(signal, logging.Discard())
	alarms := &fakeAlarms{reschedule: alarmdto.RescheduleOutput{Scanned: 5, Armed: 3, Denied: 1}}
	uc := NewInteractor(svc, alarms, &fakeChallenges{}, &fakeScheduler{}, logging.Discard())

	out, err := uc.BootCompleted(context.Background())
	if err != nil {
		t.Fatalf("boot: %v", err)
	}
	if out.Scanned != 5 || out.Armed != 3 || out.Denied != 1 {
		t.Fatalf("out %+v", out)
	}
}
