package dto

type FiredInput struct {
	AlarmID   int64
	Challenge string
}

type FiredOutput struct {
	SessionID string
	Kind      string
	Degraded  bool
	Message   string
}

type BootOutput struct {
	Scanned int
	Armed   int
	Denied  int
}
