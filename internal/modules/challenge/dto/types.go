package dto

type OpenInput struct {
	AlarmID   int64
	Challenge string
}

type SubmitInput struct {
	Answer int
}

type SessionOutput struct {
	SessionID string
	AlarmID   int64
	Kind      string
	State     string
	Progress  int
	Question  string
	Degraded  bool
}
