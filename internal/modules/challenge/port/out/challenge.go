package out

import "context"

type AccelSample struct {
	X float64
	Y float64
	Z float64
}

type LuxSample struct {
	Lux float64
}

// SensorSource streams samples until the context is cancelled, at which
// point the returned channel is closed. A source without the requested
// sensor returns ErrSensorUnavailable.
type SensorSource interface {
	Accelerometer(ctx context.Context) (<-chan AccelSample, error)
	Light(ctx context.Context) (<-chan LuxSample, error)
}

type SignalStopper interface {
	Stop(ctx context.Context) error
}

type FiringCompleter interface {
	CompleteFiring(ctx context.Context, alarmID int64) error
}
