package out

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	dispatchout "shakker/internal/modules/dispatch/port/out"
)

// ProcessSignal plays the attention signal by running a configured command,
// for example an audio player looping an alarm sound. The process is killed
// on Stop. The alarm id and message are passed as arguments.
type ProcessSignal struct {
	command string
	logger  hclog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
}

func NewProcessSignal(command string, logger hclog.Logger) *ProcessSignal {
	return &ProcessSignal{command: command, logger: logger.Named("signal")}
}

var _ dispatchout.AttentionSignal = (*ProcessSignal)(nil)

func (p *ProcessSignal) Start(ctx context.Context, alarmID int64, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil {
		p.stopLocked()
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(runCtx, p.command, strconv.FormatInt(alarmID, 10), message)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start signal command: %w", err)
	}
	p.cmd = cmd
	p.cancel = cancel
	go func() {
		// Reap the process; a signal command exiting on its own is fine.
		_ = cmd.Wait()
	}()
	return nil
}

func (p *ProcessSignal) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd == nil {
		return nil
	}
	p.stopLocked()
	return nil
}

func (p *ProcessSignal) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cmd != nil
}

func (p *ProcessSignal) stopLocked() {
	p.cancel()
	p.cmd = nil
	p.cancel = nil
}
