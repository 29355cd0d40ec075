package main

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hashicorp/go-plugin"

	sensorrpc "shakker/internal/modules/challenge/adapter/out/rpc"
)

// server simulates a phone lying on a nightstand: a short burst of shaking
// every few seconds and a slow sunrise on the light sensor.
type server struct {
	mu    sync.Mutex
	epoch time.Time
}

func (s *server) GetMetadata(_ context.Context, _ *sensorrpc.Empty) (*sensorrpc.Metadata, error) {
	return &sensorrpc.Metadata{
		Name:    "simsensor",
		Version: "1.0.0",
		Sensors: []string{sensorrpc.SensorAccelerometer, sensorrpc.SensorLight},
	}, nil
}

func (s *server) ReadSamples(_ context.Context, in *sensorrpc.ReadSamplesRequest) (*sensorrpc.ReadSamplesResponse, error) {
	s.mu.Lock()
	if s.epoch.IsZero() {
		s.epoch = time.Now()
	}
	elapsed := time.Since(s.epoch).Seconds()
	s.mu.Unlock()

	max := int(in.Max)
	if max <= 0 {
		max = 1
	}

	switch in.Sensor {
	case sensorrpc.SensorAccelerometer:
		return &sensorrpc.ReadSamplesResponse{Samples: accelSamples(elapsed, max), Available: true}, nil
	case sensorrpc.SensorLight:
		return &sensorrpc.ReadSamplesResponse{Samples: []sensorrpc.Sample{{Lux: lux(elapsed)}}, Available: true}, nil
	default:
		return nil, fmt.Errorf("unknown sensor: %s", in.Sensor)
	}
}

// accelSamples emits gravity-only readings, with a two second shake burst
// every ten seconds that exceeds the default magnitude threshold.
func accelSamples(elapsed float64, max int) []sensorrpc.Sample {
	count := 4
	if count > max {
		count = max
	}
	samples := make([]sensorrpc.Sample, 0, count)
	shaking := math.Mod(elapsed, 10) < 2
	for i := 0; i < count; i++ {
		sample := sensorrpc.Sample{Z: 9.81}
		if shaking {
			sample.X = 18 + 4*math.Sin(elapsed+float64(i))
			sample.Y = 12
		}
		samples = append(samples, sample)
	}
	return samples
}

// lux ramps from darkness to full daylight over a minute.
func lux(elapsed float64) float64 {
	if elapsed > 60 {
		return 400
	}
	return 400 * elapsed / 60
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sensorrpc.HandshakeConfig,
		Plugins:         sensorrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
