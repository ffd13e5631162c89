package game

import (
	"sync"
	"time"
)

// Scheduler runs callbacks at fixed intervals. Implementations must never
// run two callbacks at the same time.
type Scheduler interface {
	// Every registers fn to run once per interval and returns a function
	// that cancels the registration. Cancel is idempotent.
	Every(interval time.Duration, fn func()) (cancel func())
}

// SteppedScheduler fires callbacks from Advance on the caller's goroutine.
// Time only moves when Advance is called, which makes runs reproducible.
type SteppedScheduler struct {
	now     time.Duration
	entries []*steppedEntry
}

type steppedEntry struct {
	interval  time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
}

// NewSteppedScheduler creates a scheduler at time zero.
func NewSteppedScheduler() *SteppedScheduler {
	return &SteppedScheduler{}
}

// Every implements Scheduler. Non-positive intervals are ignored.
func (s *SteppedScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 || fn == nil {
		return func() {}
	}
	e := &steppedEntry{interval: interval, next: s.now + interval, fn: fn}
	s.entries = append(s.entries, e)
	return func() { e.cancelled = true }
}

// Advance moves time forward by d, firing due callbacks in time order.
// Callbacks due at the same instant fire in registration order.
func (s *SteppedScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		e := s.nextDue(target)
		if e == nil {
			break
		}
		s.now = e.next
		e.next += e.interval
		e.fn()
	}
	s.now = target
	s.compact()
}

// Now returns the scheduler's virtual time.
func (s *SteppedScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of live registrations.
func (s *SteppedScheduler) Pending() int {
	n := 0
	for _, e := range s.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}

func (s *SteppedScheduler) nextDue(target time.Duration) *steppedEntry {
	var best *steppedEntry
	for _, e := range s.entries {
		if e.cancelled || e.next > target {
			continue
		}
		if best == nil || e.next < best.next {
			best = e
		}
	}
	return best
}

func (s *SteppedScheduler) compact() {
	live := s.entries[:0]
	for _, e := range s.entries {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	clear(s.entries[len(live):])
	s.entries = live
}

// TickerScheduler runs callbacks on real time.Tickers. Each registration
// has its own goroutine; a shared mutex keeps callbacks from overlapping.
type TickerScheduler struct {
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewTickerScheduler creates a real-time scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every implements Scheduler. Non-positive intervals are ignored.
func (s *TickerScheduler) Every(interval time.Duration, fn func()) func() {
	if interval <= 0 || fn == nil {
		return func() {}
	}
	done := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(done) }) }

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.mu.Lock()
				select {
				case <-done:
				default:
					fn()
				}
				s.mu.Unlock()
			}
		}
	}()
	return cancel
}

// Do runs fn while holding the callback lock, so it never overlaps a tick.
// It must not be called from inside a callback.
func (s *TickerScheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Wait blocks until every cancelled registration's goroutine has exited.
// It must not be called from inside a callback.
func (s *TickerScheduler) Wait() {
	s.wg.Wait()
}
