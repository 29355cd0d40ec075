package dto

import "time"

type CreateInput struct {
	Hour      int
	Minute    int
	Message   string
	Days      []string
	Challenge string
}

type SetEnabledInput struct {
	ID      int64
	Enabled bool
}

type UpdateInput struct {
	ID        int64
	Hour      int
	Minute    int
	Message   string
	Days      []string
	Challenge string
}

type AlarmOutput struct {
	ID        int64
	FireAt    time.Time
	TimeLabel string
	Message   string
	Enabled   bool
	Repeat    string
	Challenge string
	Armed     bool
	Denied    bool
}

type RescheduleOutput struct {
	Scanned int
	Armed   int
	Denied  int
}
