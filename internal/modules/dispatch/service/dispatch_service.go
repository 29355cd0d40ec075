package service

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	dispatchout "shakker/internal/modules/dispatch/port/out"
)

type DispatchService struct {
	signal dispatchout.AttentionSignal
	logger hclog.Logger
}

func NewDispatchService(signal dispatchout.AttentionSignal, logger hclog.Logger) *DispatchService {
	return &DispatchService{signal: signal, logger: logger.Named("dispatch")}
}

// RaiseSignal starts the attention signal for an alarm, stopping any prior
// instance first. Only one plays at a time.
func (s *DispatchService) RaiseSignal(ctx context.Context, alarmID int64, message string) error {
	if s.signal.Active() {
		if err := s.signal.Stop(ctx); err != nil {
			s.logger.Warn("stopping prior signal failed", "error", err)
		}
	}
	if err := s.signal.Start(ctx, alarmID, message); err != nil {
		return err
	}
	s.logger.Info("attention signal started", "alarm_id", alarmID)
	return nil
}

// Silence stops the signal unconditionally. It must always be callable,
// whatever state dispatch got stuck in.
func (s *DispatchService) Silence(ctx context.Context) error {
	if !s.signal.Active() {
		return nil
	}
	if err := s.signal.Stop(ctx); err != nil {
		return err
	}
	s.logger.Info("attention signal stopped")
	return nil
}
