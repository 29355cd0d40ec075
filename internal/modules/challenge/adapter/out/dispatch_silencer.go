package out

import (
	"context"
	"sync"

	dispatchin "shakker/internal/modules/dispatch/port/in"
)

// DispatchSilencer stops the attention signal through the dispatch module.
// The target is bound late because dispatch is constructed after the
// challenge module.
type DispatchSilencer struct {
	mu     sync.RWMutex
	target dispatchin.Usecase
}

func NewDispatchSilencer() *DispatchSilencer {
	return &DispatchSilencer{}
}

func (d *DispatchSilencer) Bind(target dispatchin.Usecase) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.target = target
}

func (d *DispatchSilencer) Stop(ctx context.Context) error {
	d.mu.RLock()
	target := d.target
	d.mu.RUnlock()
	if target == nil {
		return nil
	}
	return target.Silence(ctx)
}
