package service

import (
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"shakker/internal/modules/alarm/domain"
	"shakker/internal/platform/clock"
)

type AlarmService struct {
	clock  clock.Clock
	logger hclog.Logger
}

func NewAlarmService(clk clock.Clock, logger hclog.Logger) *AlarmService {
	return &AlarmService{clock: clk, logger: logger.Named("alarm")}
}

// Build constructs an unpersisted record whose fire instant is the next
// occurrence of the given wall-clock time.
func (s *AlarmService) Build(hour, minute int, message string, days domain.DaySet, challenge domain.ChallengeKind) (domain.Alarm, error) {
	if hour < 0 || hour > 23 {
		return domain.Alarm{}, fmt.Errorf("hour must be in 0..23")
	}
	if minute < 0 || minute > 59 {
		return domain.Alarm{}, fmt.Errorf("minute must be in 0..59")
	}

	now := s.clock.Now()
	base := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	next := s.nextOccurrence(base, days, now)

	if message == "" {
		message = domain.DefaultMessage(next)
	}
	alarm := domain.Alarm{
		ID:        domain.UnassignedID,
		FireAt:    next.UnixMilli(),
		Message:   message,
		Enabled:   true,
		Days:      days,
		Challenge: challenge,
	}
	if err := alarm.Validate(); err != nil {
		return domain.Alarm{}, err
	}
	return alarm, nil
}

// RollForward advances a record whose fire instant has elapsed to its next
// occurrence. Records still in the future are returned unchanged.
func (s *AlarmService) RollForward(alarm domain.Alarm) domain.Alarm {
	now := s.clock.Now()
	fireAt := alarm.FireTime().In(now.Location())
	if fireAt.After(now) {
		return alarm
	}
	alarm.FireAt = s.nextOccurrence(fireAt, alarm.Days, now).UnixMilli()
	return alarm
}

func (s *AlarmService) nextOccurrence(base time.Time, days domain.DaySet, now time.Time) time.Time {
	next, fellBack := domain.NextOccurrence(base, days, now)
	if fellBack {
		s.logger.Error("occurrence scan bound exceeded, using unfiltered next day", "base", base, "days", days.String())
	}
	return next
}
