package dto

import "time"

type ScheduleInput struct {
	AlarmID   int64
	FireAt    time.Time
	Challenge string
}

// ScheduleOutput reports how arming went. Denied and Skipped are recoverable
// conditions: the record stays persisted, only the timer is absent.
type ScheduleOutput struct {
	Armed   bool
	Denied  bool
	Skipped bool
}

type ArmedTimerOutput struct {
	AlarmID   int64
	FireAt    time.Time
	Challenge string
}
