package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory keeps windows in process. Not shared across replicas.
type Memory struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

type slidingWindow struct {
	timestamps []time.Time
}

func NewMemory() *Memory {
	return &Memory{windows: make(map[string]*slidingWindow), now: time.Now}
}

func (s *Memory) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.windows[key]
	if w == nil {
		w = &slidingWindow{}
		s.windows[key] = w
	}
	w.expire(now.Add(-window))

	if len(w.timestamps) >= limit {
		resetAt := w.timestamps[0].Add(window)
		return Result{
			Allowed:    false,
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}
	w.timestamps = append(w.timestamps, now)
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.timestamps),
		ResetAt:   w.timestamps[0].Add(window),
	}, nil
}

// Sweep drops windows with no request newer than window. Run it periodically
// to bound memory.
func (s *Memory) Sweep(window time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-window)
	removed := 0
	for key, w := range s.windows {
		w.expire(cutoff)
		if len(w.timestamps) == 0 {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// expire removes timestamps at or before cutoff. Timestamps are appended in
// order so the expired ones form a prefix.
func (w *slidingWindow) expire(cutoff time.Time) {
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}
