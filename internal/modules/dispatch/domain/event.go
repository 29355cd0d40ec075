package domain

import "errors"

// SentinelAlarmID is the "no id" marker carried by malformed fire events.
const SentinelAlarmID int64 = -1

var ErrInvalidAlarmID = errors.New("fired event carries no usable alarm id")

// FiredEvent is a wake-timer delivery. Challenge is the opaque payload the
// scheduler attached when arming; normalization to a known kind happens in
// the challenge module.
type FiredEvent struct {
	AlarmID   int64
	Challenge string
}

// Validate fails closed: a session must never start for an unidentified
// alarm.
func (e FiredEvent) Validate() error {
	if e.AlarmID <= 0 || e.AlarmID == SentinelAlarmID {
		return ErrInvalidAlarmID
	}
	return nil
}
