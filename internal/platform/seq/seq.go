package seq

import "sync"

// Sequencer serializes operations per key. Record-store writes for one alarm
// id must not interleave: an update racing a delete of the same id would
// leave an armed timer for a missing record.
type Sequencer interface {
	Do(key int64, fn func() error) error
}

type KeyedSequencer struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewKeyedSequencer() *KeyedSequencer {
	return &KeyedSequencer{locks: map[int64]*sync.Mutex{}}
}

func (s *KeyedSequencer) Do(key int64, fn func() error) error {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn()
}
