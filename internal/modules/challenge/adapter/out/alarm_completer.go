package out

import (
	"context"

	alarmin "shakker/internal/modules/alarm/port/in"
)

// AlarmCompleter hands a dismissed alarm back to the alarm module, which
// disables one-time alarms and rolls repeating ones forward.
type AlarmCompleter struct {
	alarms alarmin.Usecase
}

func NewAlarmCompleter(alarms alarmin.Usecase) AlarmCompleter {
	return AlarmCompleter{alarms: alarms}
}

func (a AlarmCompleter) CompleteFiring(ctx context.Context, alarmID int64) error {
	_, err := a.alarms.CompleteFiring(ctx, alarmID)
	return err
}
