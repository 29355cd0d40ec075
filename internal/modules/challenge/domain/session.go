package domain

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

type Kind string

const (
	KindShake Kind = "SHAKE"
	KindMath  Kind = "MATH"
	KindLux   Kind = "LUX"
)

// NormalizeKind maps unrecognized kinds to the shake challenge.
func NormalizeKind(s string) Kind {
	switch Kind(strings.ToUpper(s)) {
	case KindShake, KindMath, KindLux:
		return Kind(strings.ToUpper(s))
	}
	return KindShake
}

type State string

const (
	StateNone      State = "NONE"
	StateArmed     State = "ARMED"
	StateSatisfied State = "SATISFIED"
	StateDismissed State = "DISMISSED"
)

type Rules struct {
	ShakeThreshold float64
	LuxThreshold   float64
}

func DefaultRules() Rules {
	return Rules{ShakeThreshold: 20, LuxThreshold: 150}
}

const (
	progressStep   = 10
	progressTarget = 100
)

type MathProblem struct {
	A int
	B int
}

func NewMathProblem(rng *rand.Rand) MathProblem {
	return MathProblem{A: 10 + rng.Intn(16), B: 5 + rng.Intn(11)}
}

func (p MathProblem) Answer() int {
	return p.A + p.B
}

func (p MathProblem) Question() string {
	return fmt.Sprintf("%d + %d = ?", p.A, p.B)
}

type Session struct {
	ID       string
	AlarmID  int64
	Kind     Kind
	State    State
	Progress int
	Problem  MathProblem
	Degraded bool
}

func NewSession(id string, alarmID int64, kind Kind) *Session {
	return &Session{ID: id, AlarmID: alarmID, Kind: kind, State: StateArmed}
}

func (s *Session) Armed() bool {
	return s.State == StateArmed
}

// ApplyAcceleration feeds one accelerometer sample. It reports whether the
// sample moved the session into Satisfied.
func (s *Session) ApplyAcceleration(x, y, z, threshold float64) bool {
	if s.State != StateArmed || s.Kind != KindShake {
		return false
	}
	magnitude := math.Sqrt(x*x + y*y + z*z)
	if magnitude <= threshold {
		return false
	}
	s.Progress += progressStep
	if s.Progress >= progressTarget {
		s.Progress = progressTarget
		s.State = StateSatisfied
		return true
	}
	return false
}

// ApplyLux feeds one light sample. Crossing the threshold satisfies directly.
func (s *Session) ApplyLux(lux, threshold float64) bool {
	if s.State != StateArmed || s.Kind != KindLux {
		return false
	}
	if lux <= threshold {
		return false
	}
	s.Progress = progressTarget
	s.State = StateSatisfied
	return true
}

// SubmitAnswer checks an exact match against the problem. A wrong answer
// leaves the session armed.
func (s *Session) SubmitAnswer(answer int) bool {
	if s.State != StateArmed || s.Kind != KindMath {
		return false
	}
	if answer != s.Problem.Answer() {
		return false
	}
	s.Progress = progressTarget
	s.State = StateSatisfied
	return true
}

func (s *Session) MarkDismissed() {
	s.State = StateDismissed
}

func (s *Session) Question() string {
	if s.Kind != KindMath {
		return ""
	}
	return s.Problem.Question()
}
