package service

import (
	"context"
	"testing"
	"time"

	"shakker/internal/modules/schedule/domain"
	apperrors "shakker/internal/platform/errors"
	"shakker/internal/platform/logging"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memTimers struct {
	armed     map[int64]domain.ArmedTimer
	denyAll   bool
	cancelled []int64
}

func newMemTimers() *memTimers {
	return &memTimers{armed: map[int64]domain.ArmedTimer{}}
}

func (m *memTimers) Arm(ctx context.Context, timer domain.ArmedTimer) error {
	if m.denyAll {
		return apperrors.ErrExactAlarmsDenied
	}
	m.armed[timer.AlarmID] = timer
	return nil
}

func (m *memTimers) Cancel(ctx context.Context, alarmID int64) error {
	delete(m.armed, alarmID)
	m.cancelled = append(m.cancelled, alarmID)
	return nil
}

var testNow = time.Date(2024, time.March, 5, 8, 0, 0, 0, time.Local)

func newService(timers *memTimers) *ScheduleService {
	return NewScheduleService(fixedClock{now: testNow}, timers, logging.Discard())
}

func TestScheduleArmsAndMirrors(t *testing.T) {
	t.Parallel()
	timers := newMemTimers()
	svc := newService(timers)

	status, err := svc.Schedule(context.Background(), domain.ArmedTimer{
		AlarmID: 1, FireAt: testNow.Add(time.Hour), Payload: "SHAKE",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !status.Armed {
		t.Fatalf("status %+v", status)
	}
	if _, ok := timers.armed[1]; !ok {
		t.Fatal("timer service never armed")
	}
	if len(svc.Armed()) != 1 {
		t.Fatalf("armed mirror %v", svc.Armed())
	}
}

func TestScheduleReplacesSameID(t *testing.T) {
	t.Parallel()
	timers := newMemTimers()
	svc := newService(timers)

	first := domain.ArmedTimer{AlarmID: 1, FireAt: testNow.Add(time.Hour), Payload: "SHAKE"}
	second := domain.ArmedTimer{AlarmID: 1, FireAt: testNow.Add(2 * time.Hour), Payload: "MATH"}
	if _, err := svc.Schedule(context.Background(), first); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := svc.Schedule(context.Background(), second); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	armed := svc.Armed()
	if len(armed) != 1 {
		t.Fatalf("armed %v", armed)
	}
	if !armed[0].FireAt.Equal(second.FireAt) || armed[0].Payload != "MATH" {
		t.Fatalf("mirror kept stale timer: %+v", armed[0])
	}
	if !timers.armed[1].FireAt.Equal(second.FireAt) {
		t.Fatalf("timer service kept stale timer: %+v", timers.armed[1])
	}
}

func TestSchedulePastInstantSkipped(t *testing.T) {
	t.Parallel()
	timers := newMemTimers()
	svc := newService(timers)

	status, err := svc.Schedule(context.Background(), domain.ArmedTimer{
		AlarmID: 1, FireAt: testNow.Add(-time.Minute), Payload: "SHAKE",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !status.Skipped || status.Armed {
		t.Fatalf("status %+v", status)
	}
	if len(timers.armed) != 0 {
		t.Fatal("past instant reached the timer service")
	}
}

func TestScheduleDeniedIsRecoverable(t *testing.T) {
	t.Parallel()
	timers := newMemTimers()
	timers.denyAll = true
	svc := newService(timers)

	status, err := svc.Schedule(context.Background(), domain.ArmedTimer{
		AlarmID: 3, FireAt: testNow.Add(time.Hour), Payload: "LUX",
	})
	if err != nil {
		t.Fatalf("denied must not be an error: %v", err)
	}
	if !status.Denied || status.Armed {
		t.Fatalf("status %+v", status)
	}
	if len(svc.Armed()) != 0 {
		t.Fatal("denied timer in mirror")
	}
}

func TestScheduleRejectsUnassignedID(t *testing.T) {
	t.Parallel()
	svc := newService(newMemTimers())
	if _, err := svc.Schedule(context.Background(), domain.ArmedTimer{AlarmID: -1, FireAt: testNow.Add(time.Hour)}); err == nil {
		t.Fatal("unassigned id accepted")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	t.Parallel()
	timers := newMemTimers()
	svc := newService(timers)

	if _, err := svc.Schedule(context.Background(), domain.ArmedTimer{AlarmID: 1, FireAt: testNow.Add(time.Hour), Payload: "SHAKE"}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := svc.Cancel(context.Background(), 1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := svc.Cancel(context.Background(), 1); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if err := svc.Cancel(context.Background(), 42); err != nil {
		t.Fatalf("cancel of never-armed id: %v", err)
	}
	if len(svc.Armed()) != 0 {
		t.Fatalf("armed %v", svc.Armed())
	}
}
