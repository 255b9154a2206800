// Package history keeps the bounded per-point motion log the crossing
// detector reads from. Latency here is critical: Record is called once per
// tracked point on every animation frame.
package history

import (
	"sync"

	"github.com/polygonome/engine/pkg/core"
)

// DefaultMaxMemory is a few frames of lookback. Detection needs at least
// two samples, so values below 2 are clamped.
const DefaultMaxMemory = 10

// Store maps point IDs to their recent position samples, newest last.
// Each point's history is independent; the mutex only guards the map for
// callers that poll from a different goroutine than the frame loop.
type Store struct {
	mu        sync.Mutex
	maxMemory int
	points    map[string][]core.PositionSample
}

// NewStore creates a store bounded to maxMemory samples per point.
func NewStore(maxMemory int) *Store {
	if maxMemory < 2 {
		maxMemory = 2
	}
	return &Store{
		maxMemory: maxMemory,
		points:    make(map[string][]core.PositionSample),
	}
}

// Record appends a sample for id, creating the history if absent and
// evicting from the front once the bound is exceeded. It never fails.
func (s *Store) Record(id string, pos core.Position3D, timestamp float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := append(s.points[id], core.PositionSample{
		Position:  pos,
		Timestamp: timestamp,
	})
	if over := len(samples) - s.maxMemory; over > 0 {
		samples = samples[over:]
	}
	s.points[id] = samples
}

// Latest returns up to n of the most recent samples for id, oldest first.
// An unknown id yields nil.
func (s *Store) Latest(id string, n int) []core.PositionSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := s.points[id]
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	out := make([]core.PositionSample, len(samples))
	copy(out, samples)
	return out
}

// Len returns the number of samples held for id.
func (s *Store) Len(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points[id])
}

// MaxMemory returns the per-point sample bound.
func (s *Store) MaxMemory() int {
	return s.maxMemory
}

// Reset drops the history for a single point. Callers use this when layer
// geometry changes invalidate the point's identity.
func (s *Store) Reset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.points, id)
}

// ResetAll drops every history.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = make(map[string][]core.PositionSample)
}

// TrackedPoints returns the number of point histories currently held.
func (s *Store) TrackedPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}
