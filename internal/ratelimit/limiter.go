package ratelimit

import (
	"sync"
	"time"
)

// Store is a fixed-window request counter keyed by client identity.
// State lives in process memory and is sized for a single-process
// deployment; a horizontally scaled setup would need a shared store
// behind the same interface.
type Store struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

// NewStore creates a store allowing limit requests per client key per window
func NewStore(limit int, windowSize time.Duration) *Store {
	if limit <= 0 {
		limit = 60
	}
	if windowSize <= 0 {
		windowSize = time.Minute
	}
	return &Store{
		windows: make(map[string]*window),
		limit:   limit,
		window:  windowSize,
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is admitted.
// On denial the returned duration is how long the caller should wait
// before retrying. The check-and-increment is atomic under the store
// mutex so concurrent admissions never undercount.
func (s *Store) Allow(key string) (bool, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= s.window {
		s.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= s.limit {
		return false, w.start.Add(s.window).Sub(now)
	}

	w.count++
	return true, 0
}

// Prune drops windows that elapsed before cutoff, bounding memory on
// long-running processes with many distinct clients.
func (s *Store) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if now.Sub(w.start) >= s.window {
			delete(s.windows, key)
		}
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
