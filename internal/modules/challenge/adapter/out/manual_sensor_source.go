package out

import (
	"context"
	"sync"

	challengeout "shakker/internal/modules/challenge/port/out"
)

type accelFeed struct {
	mu     sync.Mutex
	ch     chan challengeout.AccelSample
	closed bool
}

type luxFeed struct {
	mu     sync.Mutex
	ch     chan challengeout.LuxSample
	closed bool
}

// ManualSensorSource is an in-process feed driven by Push calls. The TUI
// uses it to simulate shakes and light when no plugin is configured.
type ManualSensorSource struct {
	mu    sync.Mutex
	accel *accelFeed
	lux   *luxFeed
}

func NewManualSensorSource() *ManualSensorSource {
	return &ManualSensorSource{}
}

func (s *ManualSensorSource) Accelerometer(ctx context.Context) (<-chan challengeout.AccelSample, error) {
	feed := &accelFeed{ch: make(chan challengeout.AccelSample)}
	s.mu.Lock()
	s.accel = feed
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		feed.mu.Lock()
		feed.closed = true
		close(feed.ch)
		feed.mu.Unlock()
	}()
	return feed.ch, nil
}

func (s *ManualSensorSource) Light(ctx context.Context) (<-chan challengeout.LuxSample, error) {
	feed := &luxFeed{ch: make(chan challengeout.LuxSample)}
	s.mu.Lock()
	s.lux = feed
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		feed.mu.Lock()
		feed.closed = true
		close(feed.ch)
		feed.mu.Unlock()
	}()
	return feed.ch, nil
}

// PushAccel delivers one accelerometer sample to the active subscriber.
// Samples pushed with no subscriber are dropped. The subscriber drains its
// channel until detach, so the send cannot block past the subscription.
func (s *ManualSensorSource) PushAccel(sample challengeout.AccelSample) {
	s.mu.Lock()
	feed := s.accel
	s.mu.Unlock()
	if feed == nil {
		return
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.closed {
		return
	}
	feed.ch <- sample
}

// PushLux delivers one light sample to the active subscriber, if any.
func (s *ManualSensorSource) PushLux(sample challengeout.LuxSample) {
	s.mu.Lock()
	feed := s.lux
	s.mu.Unlock()
	if feed == nil {
		return
	}
	feed.mu.Lock()
	defer feed.mu.Unlock()
	if feed.closed {
		return
	}
	feed.ch <- sample
}
