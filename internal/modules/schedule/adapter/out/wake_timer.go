package out

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"shakker/internal/modules/schedule/domain"
	scheduleout "shakker/internal/modules/schedule/port/out"
	"shakker/internal/platform/clock"
)

// FiredFunc receives fired timers. It must return quickly; delivery happens
// on a dedicated goroutine per fire.
type FiredFunc func(alarmID int64, payload string)

// WakeTimer is the in-process timer service for daemon mode: a min-heap of
// armed entries driven by a single timer goroutine. Re-arming an id bumps a
// generation counter so stale heap entries are ignored when they surface,
// which makes Arm replace-by-id and Cancel last-writer-wins.
type WakeTimer struct {
	clock  clock.Clock
	logger hclog.Logger

	mu     sync.Mutex
	queue  timerQueue
	gen    map[int64]uint64
	armed  map[int64]domain.ArmedTimer
	reload chan struct{}
	fire   FiredFunc
	cancel context.CancelFunc
}

var _ scheduleout.TimerService = (*WakeTimer)(nil)

func NewWakeTimer(clk clock.Clock, logger hclog.Logger) *WakeTimer {
	return &WakeTimer{
		clock:  clk,
		logger: logger.Named("waketimer"),
		gen:    map[int64]uint64{},
		armed:  map[int64]domain.ArmedTimer{},
		reload: make(chan struct{}, 1),
		fire:   func(int64, string) {},
		cancel: func() {},
	}
}

// Bind installs the fired handler. Must be called before Run.
func (w *WakeTimer) Bind(fire FiredFunc) {
	w.fire = fire
}

func (w *WakeTimer) Run(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
	return nil
}

func (w *WakeTimer) Interrupt() error {
	w.cancel()
	return nil
}

func (w *WakeTimer) Arm(_ context.Context, timer domain.ArmedTimer) error {
	if err := timer.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	w.gen[timer.AlarmID]++
	w.armed[timer.AlarmID] = timer
	heap.Push(&w.queue, timerEntry{timer: timer, gen: w.gen[timer.AlarmID]})
	w.mu.Unlock()
	w.kick()
	return nil
}

func (w *WakeTimer) Cancel(_ context.Context, alarmID int64) error {
	w.mu.Lock()
	w.gen[alarmID]++
	delete(w.armed, alarmID)
	w.mu.Unlock()
	w.kick()
	return nil
}

func (w *WakeTimer) kick() {
	select {
	case w.reload <- struct{}{}:
	default:
	}
}

func (w *WakeTimer) run(ctx context.Context) {
	timer := time.NewTimer(math.MaxInt64)
	timer.Stop()

	for {
		w.rearm(timer)
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case <-w.reload:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

		case <-timer.C:
			w.fireDue()
		}
	}
}

func (w *WakeTimer) rearm(timer *time.Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dropStale()
	if len(w.queue) == 0 {
		return
	}
	timer.Reset(w.queue[0].timer.FireAt.Sub(w.clock.Now()))
}

func (w *WakeTimer) fireDue() {
	w.mu.Lock()
	now := w.clock.Now()
	var due []timerEntry
	for {
		w.dropStale()
		if len(w.queue) == 0 || w.queue[0].timer.FireAt.After(now) {
			break
		}
		entry := heap.Pop(&w.queue).(timerEntry)
		delete(w.armed, entry.timer.AlarmID)
		due = append(due, entry)
	}
	fire := w.fire
	w.mu.Unlock()

	for _, entry := range due {
		w.logger.Debug("timer fired", "alarm_id", entry.timer.AlarmID)
		go fire(entry.timer.AlarmID, entry.timer.Payload)
	}
}

// dropStale discards heap entries superseded by a later Arm or Cancel.
// Callers hold the lock.
func (w *WakeTimer) dropStale() {
	for len(w.queue) > 0 {
		head := w.queue[0]
		if w.gen[head.timer.AlarmID] == head.gen {
			return
		}
		heap.Pop(&w.queue)
	}
}

type timerEntry struct {
	timer domain.ArmedTimer
	gen   uint64
}

type timerQueue []timerEntry

var _ heap.Interface = (*timerQueue)(nil)

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	return q[i].timer.FireAt.Before(q[j].timer.FireAt)
}

func (q timerQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *timerQueue) Push(x any) { *q = append(*q, x.(timerEntry)) }

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = timerEntry{}
	*q = old[:n-1]
	return it
}
