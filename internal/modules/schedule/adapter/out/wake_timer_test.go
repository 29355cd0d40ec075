package out

import (
	"context"
	"testing"
	"time"

	"shakker/internal/modules/schedule/domain"
	"shakker/internal/platform/clock"
	"shakker/internal/platform/logging"
)

type firing struct {
	alarmID int64
	payload string
}

func startTimer(t *testing.T) (*WakeTimer, chan firing) {
	t.Helper()
	fired := make(chan firing, 8)
	timer := NewWakeTimer(clock.SystemClock{}, logging.Discard())
	timer.Bind(func(alarmID int64, payload string) {
		fired <- firing{alarmID: alarmID, payload: payload}
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := timer.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	t.Cleanup(func() { _ = timer.Interrupt() })
	return timer, fired
}

func waitFiring(t *testing.T, fired chan firing) firing {
	t.Helper()
	select {
	case f := <-fired:
		return f
	case <-time.After(3 * time.Second):
		t.Fatal("timer never fired")
		return firing{}
	}
}

func TestWakeTimerFires(t *testing.T) {
	t.Parallel()
	timer, fired := startTimer(t)

	err := timer.Arm(context.Background(), domain.ArmedTimer{
		AlarmID: 1, FireAt: time.Now().Add(30 * time.Millisecond), Payload: "SHAKE",
	})
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	f := waitFiring(t, fired)
	if f.alarmID != 1 || f.payload != "SHAKE" {
		t.Fatalf("fired %+v", f)
	}
}

func TestWakeTimerRearmReplaces(t *testing.T) {
	t.Parallel()
	timer, fired := startTimer(t)

	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 1, FireAt: time.Now().Add(80 * time.Millisecond), Payload: "OLD"}); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 1, FireAt: time.Now().Add(40 * time.Millisecond), Payload: "NEW"}); err != nil {
		t.Fatalf("rearm: %v", err)
	}

	f := waitFiring(t, fired)
	if f.payload != "NEW" {
		t.Fatalf("stale timer fired first: %+v", f)
	}
	select {
	case extra := <-fired:
		t.Fatalf("superseded timer also fired: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWakeTimerCancel(t *testing.T) {
	t.Parallel()
	timer, fired := startTimer(t)

	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 1, FireAt: time.Now().Add(40 * time.Millisecond), Payload: "SHAKE"}); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if err := timer.Cancel(context.Background(), 1); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	select {
	case f := <-fired:
		t.Fatalf("cancelled timer fired: %+v", f)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWakeTimerOrdersFirings(t *testing.T) {
	t.Parallel()
	timer, fired := startTimer(t)

	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 2, FireAt: time.Now().Add(90 * time.Millisecond), Payload: "B"}); err != nil {
		t.Fatalf("arm: %v", err)
	}
	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 1, FireAt: time.Now().Add(30 * time.Millisecond), Payload: "A"}); err != nil {
		t.Fatalf("arm: %v", err)
	}

	first := waitFiring(t, fired)
	second := waitFiring(t, fired)
	if first.alarmID != 1 || second.alarmID != 2 {
		t.Fatalf("order %d then %d", first.alarmID, second.alarmID)
	}
}

func TestWakeTimerRejectsUnassignedID(t *testing.T) {
	t.Parallel()
	timer := NewWakeTimer(clock.SystemClock{}, logging.Discard())
	if err := timer.Arm(context.Background(), domain.ArmedTimer{AlarmID: 0, FireAt: time.Now().Add(time.Hour)}); err == nil {
		t.Fatal("unassigned id accepted")
	}
}
