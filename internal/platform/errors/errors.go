package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoActiveChallenge = errors.New("no active challenge session")
	ErrExactAlarmsDenied = errors.New("exact wake alarms denied by platform")
	ErrSensorUnavailable = errors.New("required sensor unavailable")
)
