package out

import (
	"context"
	"fmt"
	"io"
	"sync"

	dispatchout "shakker/internal/modules/dispatch/port/out"
)

// TerminalSignal rings the terminal bell and prints the alarm message. It is
// the default when no signal command is configured.
type TerminalSignal struct {
	out io.Writer

	mu      sync.Mutex
	alarmID int64
	active  bool
}

func NewTerminalSignal(out io.Writer) *TerminalSignal {
	return &TerminalSignal{out: out}
}

var _ dispatchout.AttentionSignal = (*TerminalSignal)(nil)

func (t *TerminalSignal) Start(ctx context.Context, alarmID int64, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "\a*** %s ***\n", message)
	t.alarmID = alarmID
	t.active = true
	return nil
}

func (t *TerminalSignal) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	t.alarmID = 0
	return nil
}

func (t *TerminalSignal) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
