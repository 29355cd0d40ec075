package domain

import (
	"fmt"
	"strings"
	"time"
)

// UnassignedID marks a record that has not been persisted yet. The store
// assigns the real identifier on create.
const UnassignedID int64 = -1

type ChallengeKind string

const (
	KindShake ChallengeKind = "SHAKE"
	KindMath  ChallengeKind = "MATH"
	KindLux   ChallengeKind = "LUX"
)

// NormalizeChallenge maps missing or unrecognized values to the shake
// challenge, never failing.
func NormalizeChallenge(raw string) ChallengeKind {
	switch ChallengeKind(strings.ToUpper(raw)) {
	case KindShake, KindMath, KindLux:
		return ChallengeKind(strings.ToUpper(raw))
	default:
		return KindShake
	}
}

type Alarm struct {
	ID        int64
	FireAt    int64 // epoch milliseconds of the next scheduled fire instant
	Message   string
	Enabled   bool
	Days      DaySet
	Challenge ChallengeKind
}

func (a Alarm) Validate() error {
	if a.FireAt <= 0 {
		return fmt.Errorf("fire instant is required")
	}
	switch a.Challenge {
	case KindShake, KindMath, KindLux:
	default:
		return fmt.Errorf("unknown challenge kind: %s", a.Challenge)
	}
	return nil
}

func (a Alarm) FireTime() time.Time {
	return time.UnixMilli(a.FireAt)
}

// Repeating reports whether the alarm recurs after firing. A full 7-day set
// and an empty set differ: the former re-arms daily, the latter fires once.
func (a Alarm) Repeating() bool {
	return !a.Days.Empty()
}

// DefaultMessage renders the message used when the caller supplies none.
func DefaultMessage(fireAt time.Time) string {
	return "Alarm for " + fireAt.Format("03:04 PM")
}
