package mock

import (
	"sync"

	"github.com/fwojciec/webpo"
)

var _ webpo.Stats = (*Stats)(nil)

// Stats is an in-memory implementation of webpo.Stats for tests.
type Stats struct {
	mu     sync.Mutex
	values map[string]float64
}

func (s *Stats) Set(key string, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	s.values[key] = value
}

func (s *Stats) Inc(key string, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]float64)
	}
	s.values[key] += delta
}

// Value returns the value stored under key.
func (s *Stats) Value(key string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}
