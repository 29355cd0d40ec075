package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	sensorrpc "shakker/internal/modules/challenge/adapter/out/rpc"
	challengeout "shakker/internal/modules/challenge/port/out"
	apperrors "shakker/internal/platform/errors"
)

const (
	pluginStartTimeout = 3 * time.Second
	pollInterval       = 200 * time.Millisecond
	maxSamplesPerRead  = 32
)

// PluginSensorSource hosts an external sensor feed binary over go-plugin and
// polls it for samples. The process is launched on first subscription and
// shared by both sensors.
type PluginSensorSource struct {
	binary string
	logger hclog.Logger

	mu      sync.Mutex
	client  sensorrpc.SensorFeedClient
	kill    func()
	sensors map[string]bool
}

func NewPluginSensorSource(binary string, logger hclog.Logger) *PluginSensorSource {
	return &PluginSensorSource{binary: binary, logger: logger.Named("sensors")}
}

func (s *PluginSensorSource) Accelerometer(ctx context.Context) (<-chan challengeout.AccelSample, error) {
	if err := s.ensure(ctx, sensorrpc.SensorAccelerometer); err != nil {
		return nil, err
	}
	ch := make(chan challengeout.AccelSample)
	go s.poll(ctx, sensorrpc.SensorAccelerometer, func(sample sensorrpc.Sample) bool {
		select {
		case ch <- challengeout.AccelSample{X: sample.X, Y: sample.Y, Z: sample.Z}:
			return true
		case <-ctx.Done():
			return false
		}
	}, func() { close(ch) })
	return ch, nil
}

func (s *PluginSensorSource) Light(ctx context.Context) (<-chan challengeout.LuxSample, error) {
	if err := s.ensure(ctx, sensorrpc.SensorLight); err != nil {
		return nil, err
	}
	ch := make(chan challengeout.LuxSample)
	go s.poll(ctx, sensorrpc.SensorLight, func(sample sensorrpc.Sample) bool {
		select {
		case ch <- challengeout.LuxSample{Lux: sample.Lux}:
			return true
		case <-ctx.Done():
			return false
		}
	}, func() { close(ch) })
	return ch, nil
}

// Close kills the hosted plugin process, if one was started.
func (s *PluginSensorSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kill != nil {
		s.kill()
		s.kill = nil
		s.client = nil
		s.sensors = nil
	}
}

func (s *PluginSensorSource) ensure(ctx context.Context, sensor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		if err := s.connectLocked(ctx); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrSensorUnavailable, err)
		}
	}
	if !s.sensors[sensor] {
		return fmt.Errorf("%w: feed has no %s", apperrors.ErrSensorUnavailable, sensor)
	}
	return nil
}

func (s *PluginSensorSource) connectLocked(ctx context.Context) error {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sensorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sensorrpc.PluginMap(nil),
		Cmd:              exec.Command(s.binary),
		Managed:          true,
		StartTimeout:     pluginStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	kill := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		kill()
		return fmt.Errorf("start sensor feed: %w", err)
	}
	raw, err := rpcClient.Dispense(sensorrpc.PluginMapKey)
	if err != nil {
		kill()
		return fmt.Errorf("dispense sensor feed: %w", err)
	}
	typed, ok := raw.(sensorrpc.SensorFeedClient)
	if !ok {
		kill()
		return fmt.Errorf("sensor feed rpc client type mismatch")
	}

	meta, err := typed.GetMetadata(ctx)
	if err != nil {
		kill()
		return fmt.Errorf("get metadata: %w", err)
	}
	sensors := make(map[string]bool, len(meta.Sensors))
	for _, name := range meta.Sensors {
		sensors[name] = true
	}

	s.client = typed
	s.kill = kill
	s.sensors = sensors
	s.logger.Info("sensor feed connected", "name", meta.Name, "version", meta.Version, "sensors", meta.Sensors)
	return nil
}

func (s *PluginSensorSource) poll(ctx context.Context, sensor string, forward func(sensorrpc.Sample) bool, done func()) {
	defer done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		client := s.client
		s.mu.Unlock()
		if client == nil {
			return
		}

		response, err := client.ReadSamples(ctx, &sensorrpc.ReadSamplesRequest{Sensor: sensor, Max: maxSamplesPerRead})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("reading samples failed", "sensor", sensor, "error", err)
			continue
		}
		if !response.Available {
			s.logger.Warn("sensor went away", "sensor", sensor)
			return
		}
		for _, sample := range response.Samples {
			if !forward(sample) {
				return
			}
		}
	}
}
