package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"shakker/internal/modules/challenge/domain"
	"shakker/internal/modules/challenge/port/out"
	apperrors "shakker/internal/platform/errors"
	"shakker/internal/platform/id"
)

// ChallengeService owns the single active dismissal session. Sensor
// callbacks are serialized against session state with the mutex; they are
// short and never block on the outbound ports.
type ChallengeService struct {
	rules     domain.Rules
	sensors   out.SensorSource
	stopper   out.SignalStopper
	completer out.FiringCompleter
	ids       id.Generator
	rng       *rand.Rand
	logger    hclog.Logger

	mu      sync.Mutex
	session *domain.Session
	detach  context.CancelFunc
}

func NewChallengeService(rules domain.Rules, sensors out.SensorSource, stopper out.SignalStopper, completer out.FiringCompleter, ids id.Generator, rng *rand.Rand, logger hclog.Logger) *ChallengeService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ChallengeService{
		rules:     rules,
		sensors:   sensors,
		stopper:   stopper,
		completer: completer,
		ids:       ids,
		rng:       rng,
		logger:    logger.Named("challenge"),
	}
}

// Open starts a session for the fired alarm. An already active session is
// replaced, mirroring how a new attention signal displaces the previous one.
func (s *ChallengeService) Open(ctx context.Context, alarmID int64, kind string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.logger.Warn("replacing active session", "old_alarm_id", s.session.AlarmID, "new_alarm_id", alarmID)
		s.detachLocked()
	}

	sess := domain.NewSession(s.ids.New(), alarmID, domain.NormalizeKind(kind))
	if sess.Kind == domain.KindMath {
		sess.Problem = domain.NewMathProblem(s.rng)
	}
	s.session = sess
	s.attachLocked(sess)

	s.logger.Info("session opened", "session_id", sess.ID, "alarm_id", alarmID, "kind", sess.Kind, "degraded", sess.Degraded)
	return *sess, nil
}

// Submit checks a math answer. A wrong answer keeps the session armed; the
// caller clears its input field.
func (s *ChallengeService) Submit(ctx context.Context, answer int) (domain.Session, error) {
	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return domain.Session{}, apperrors.ErrNoActiveChallenge
	}
	if sess.Kind != domain.KindMath {
		s.mu.Unlock()
		return domain.Session{}, fmt.Errorf("session accepts no answer: %w", apperrors.ErrInvalidInput)
	}
	if !sess.SubmitAnswer(answer) {
		snapshot := *sess
		s.mu.Unlock()
		return snapshot, nil
	}
	snapshot := *sess
	alarmID := sess.AlarmID
	s.clearLocked()
	s.mu.Unlock()

	s.dismiss(alarmID)
	snapshot.MarkDismissed()
	return snapshot, nil
}

// Suspend detaches the sensor listeners without resetting progress. It is a
// no-op when no session is active.
func (s *ChallengeService) Suspend(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	s.detachLocked()
	s.logger.Debug("session suspended", "session_id", s.session.ID, "progress", s.session.Progress)
	return nil
}

// Resume reattaches the listeners of a suspended session. A sensor that has
// since become available clears the degraded flag.
func (s *ChallengeService) Resume(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session
	if sess == nil {
		return domain.Session{}, apperrors.ErrNoActiveChallenge
	}
	if s.detach == nil {
		s.attachLocked(sess)
	}
	return *sess, nil
}

// ManualDismiss ends a degraded session without solving the challenge. A
// healthy session must be solved.
func (s *ChallengeService) ManualDismiss(ctx context.Context) error {
	s.mu.Lock()
	sess := s.session
	if sess == nil {
		s.mu.Unlock()
		return apperrors.ErrNoActiveChallenge
	}
	if !sess.Degraded {
		s.mu.Unlock()
		return fmt.Errorf("challenge must be solved: %w", apperrors.ErrInvalidInput)
	}
	alarmID := sess.AlarmID
	s.clearLocked()
	s.mu.Unlock()

	s.dismiss(alarmID)
	return nil
}

func (s *ChallengeService) Active(ctx context.Context) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.Session{}, apperrors.ErrNoActiveChallenge
	}
	return *s.session, nil
}

func (s *ChallengeService) attachLocked(sess *domain.Session) {
	switch sess.Kind {
	case domain.KindShake:
		pumpCtx, cancel := context.WithCancel(context.Background())
		ch, err := s.sensors.Accelerometer(pumpCtx)
		if err != nil {
			cancel()
			sess.Degraded = true
			s.logger.Warn("accelerometer unavailable", "alarm_id", sess.AlarmID, "error", err)
			return
		}
		sess.Degraded = false
		s.detach = cancel
		go s.pumpAccel(sess, ch)
	case domain.KindLux:
		pumpCtx, cancel := context.WithCancel(context.Background())
		ch, err := s.sensors.Light(pumpCtx)
		if err != nil {
			cancel()
			sess.Degraded = true
			s.logger.Warn("light sensor unavailable", "alarm_id", sess.AlarmID, "error", err)
			return
		}
		sess.Degraded = false
		s.detach = cancel
		go s.pumpLux(sess, ch)
	case domain.KindMath:
	}
}

func (s *ChallengeService) detachLocked() {
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}

func (s *ChallengeService) clearLocked() {
	s.detachLocked()
	s.session.MarkDismissed()
	s.session = nil
}

// The pumps carry the session they were attached for. A sample still in
// flight from a replaced session's feed must not count toward its successor.
func (s *ChallengeService) pumpAccel(sess *domain.Session, ch <-chan out.AccelSample) {
	for sample := range ch {
		s.applyAcceleration(sess, sample)
	}
}

func (s *ChallengeService) pumpLux(sess *domain.Session, ch <-chan out.LuxSample) {
	for sample := range ch {
		s.applyLux(sess, sample)
	}
}

func (s *ChallengeService) applyAcceleration(owner *domain.Session, sample out.AccelSample) {
	s.mu.Lock()
	sess := s.session
	if sess == nil || sess != owner {
		s.mu.Unlock()
		return
	}
	if !sess.ApplyAcceleration(sample.X, sample.Y, sample.Z, s.rules.ShakeThreshold) {
		s.mu.Unlock()
		return
	}
	alarmID := sess.AlarmID
	s.clearLocked()
	s.mu.Unlock()

	s.dismiss(alarmID)
}

func (s *ChallengeService) applyLux(owner *domain.Session, sample out.LuxSample) {
	s.mu.Lock()
	sess := s.session
	if sess == nil || sess != owner {
		s.mu.Unlock()
		return
	}
	if !sess.ApplyLux(sample.Lux, s.rules.LuxThreshold) {
		s.mu.Unlock()
		return
	}
	alarmID := sess.AlarmID
	s.clearLocked()
	s.mu.Unlock()

	s.dismiss(alarmID)
}

// dismiss is the single exit path: silence the signal, then hand the alarm
// back for disable-or-roll-forward.
func (s *ChallengeService) dismiss(alarmID int64) {
	ctx := context.Background()
	if err := s.stopper.Stop(ctx); err != nil {
		s.logger.Warn("stopping signal failed", "alarm_id", alarmID, "error", err)
	}
	if err := s.completer.CompleteFiring(ctx, alarmID); err != nil {
		s.logger.Warn("completing firing failed", "alarm_id", alarmID, "error", err)
	}
	s.logger.Info("session dismissed", "alarm_id", alarmID)
}
