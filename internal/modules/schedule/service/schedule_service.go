package service

import (
	"context"
	"errors"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"shakker/internal/modules/schedule/domain"
	scheduleout "shakker/internal/modules/schedule/port/out"
	"shakker/internal/platform/clock"
	apperrors "shakker/internal/platform/errors"
)

// ScheduleService maintains the invariant that every enabled alarm has
// exactly one armed timer matching its current fire instant, and disabled
// or deleted alarms have none. It mirrors armed state so the last writer
// wins per id: a cancel issued after a stale schedule leaves nothing armed.
type ScheduleService struct {
	clock  clock.Clock
	timers scheduleout.TimerService
	logger hclog.Logger

	mu    sync.Mutex
	armed map[int64]domain.ArmedTimer
}

func NewScheduleService(clk clock.Clock, timers scheduleout.TimerService, logger hclog.Logger) *ScheduleService {
	return &ScheduleService{
		clock:  clk,
		timers: timers,
		logger: logger.Named("schedule"),
		armed:  map[int64]domain.ArmedTimer{},
	}
}

type ScheduleStatus struct {
	Armed   bool
	Denied  bool
	Skipped bool
}

func (s *ScheduleService) Schedule(ctx context.Context, timer domain.ArmedTimer) (ScheduleStatus, error) {
	if err := timer.Validate(); err != nil {
		return ScheduleStatus{}, err
	}
	if !timer.FireAt.After(s.clock.Now()) {
		// Callers must have resolved a future instant already.
		s.logger.Warn("skipping past fire instant", "alarm_id", timer.AlarmID, "fire_at", timer.FireAt)
		return ScheduleStatus{Skipped: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timers.Arm(ctx, timer); err != nil {
		if errors.Is(err, apperrors.ErrExactAlarmsDenied) {
			// Recoverable: the record stays persisted, just unarmed.
			s.logger.Warn("exact wake timer denied", "alarm_id", timer.AlarmID)
			delete(s.armed, timer.AlarmID)
			return ScheduleStatus{Denied: true}, nil
		}
		return ScheduleStatus{}, err
	}
	s.armed[timer.AlarmID] = timer
	s.logger.Debug("timer armed", "alarm_id", timer.AlarmID, "fire_at", timer.FireAt)
	return ScheduleStatus{Armed: true}, nil
}

func (s *ScheduleService) Cancel(ctx context.Context, alarmID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.timers.Cancel(ctx, alarmID); err != nil {
		return err
	}
	delete(s.armed, alarmID)
	return nil
}

func (s *ScheduleService) Armed() []domain.ArmedTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ArmedTimer, 0, len(s.armed))
	for _, t := range s.armed {
		out = append(out, t)
	}
	return out
}
