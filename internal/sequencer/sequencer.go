// Package sequencer schedules note events ahead of their audible time.
// It sits above the crossing detector: the frame loop predicts or detects
// notes, hands them here with a target time, and a playback tick drains
// whatever has come due. It is deliberately not a wrapper over crossing
// detection, so scheduling and detection evolve independently.
package sequencer

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/polygonome/engine/internal/note"
	"github.com/polygonome/engine/pkg/core"
)

// Defaults sized for a 60 fps animation loop driving audio dispatch.
const (
	DefaultLookAhead = 0.5   // seconds
	DefaultPrecision = 0.001 // seconds
	DefaultMaxQueue  = 256
)

var (
	// ErrQueueFull is returned when the scheduler is at its queue bound.
	ErrQueueFull = errors.New("sequencer queue full")
	// ErrBeyondLookAhead is returned for notes scheduled past the window.
	ErrBeyondLookAhead = errors.New("note beyond look-ahead window")
)

// Config holds scheduler tuning.
type Config struct {
	// LookAhead is how far into the future notes may be scheduled, seconds.
	LookAhead float64
	// Precision is the timing window within which a note counts as due.
	Precision float64
	// MaxQueue bounds the number of pending notes.
	MaxQueue int
}

// ScheduledNote pairs a note event with its target playback time.
type ScheduledNote struct {
	Note core.NoteEvent
	At   float64
}

type cacheKey struct {
	layerID string
	index   int
}

type cachedParams struct {
	duration float64
	velocity float64
}

// Scheduler is a bounded, time-ordered look-ahead queue with a
// deterministic parameter cache. Parameters for a given (layer, index)
// never change until the layer config does, so repeat crossings of the
// same point are cache hits.
type Scheduler struct {
	mu      sync.Mutex
	cfg     Config
	pending []ScheduledNote

	cache     map[cacheKey]cachedParams
	hitCount  uint64
	missCount uint64

	// OTel metrics
	scheduled metric.Int64Counter
	due       metric.Int64Counter
	hits      metric.Int64Counter
	misses    metric.Int64Counter
}

// New creates a scheduler with the given configuration; zero fields fall
// back to defaults.
func New(cfg Config) (*Scheduler, error) {
	if cfg.LookAhead <= 0 {
		cfg.LookAhead = DefaultLookAhead
	}
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}
	if cfg.MaxQueue <= 0 {
		cfg.MaxQueue = DefaultMaxQueue
	}

	s := &Scheduler{
		cfg:   cfg,
		cache: make(map[cacheKey]cachedParams),
	}

	m := meter()

	var err error
	if s.scheduled, err = m.Int64Counter("sequencer.notes.scheduled"); err != nil {
		return nil, err
	}
	if s.due, err = m.Int64Counter("sequencer.notes.due"); err != nil {
		return nil, err
	}
	if s.hits, err = m.Int64Counter("sequencer.cache.hits"); err != nil {
		return nil, err
	}
	if s.misses, err = m.Int64Counter("sequencer.cache.misses"); err != nil {
		return nil, err
	}

	return s, nil
}

// Schedule queues a note for playback at the given time. Notes farther
// out than the look-ahead window (relative to now) are rejected, as are
// notes past the queue bound.
func (s *Scheduler) Schedule(n core.NoteEvent, at, now float64) error {
	if at > now+s.cfg.LookAhead {
		return ErrBeyondLookAhead
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) >= s.cfg.MaxQueue {
		return ErrQueueFull
	}

	s.pending = append(s.pending, ScheduledNote{Note: n, At: at})
	sort.SliceStable(s.pending, func(i, j int) bool {
		return s.pending[i].At < s.pending[j].At
	})
	s.scheduled.Add(context.Background(), 1)
	return nil
}

// Due pops every note whose time has arrived within the precision
// window, in time order.
func (s *Scheduler) Due(now float64) []ScheduledNote {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now + s.cfg.Precision
	n := 0
	for n < len(s.pending) && s.pending[n].At <= cutoff {
		n++
	}
	if n == 0 {
		return nil
	}

	ready := make([]ScheduledNote, n)
	copy(ready, s.pending[:n])
	s.pending = s.pending[n:]
	s.due.Add(context.Background(), int64(n))
	return ready
}

// Len returns the number of pending notes.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Clear drops all pending notes.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Params returns the deterministic duration/velocity pair for a point
// index under a layer config, consulting the cache first.
func (s *Scheduler) Params(layer core.LayerConfig, index int) (duration, velocity float64) {
	key := cacheKey{layerID: layer.LayerID, index: index}

	s.mu.Lock()
	if p, ok := s.cache[key]; ok {
		s.hitCount++
		s.mu.Unlock()
		s.hits.Add(context.Background(), 1)
		return p.duration, p.velocity
	}
	s.missCount++
	s.mu.Unlock()
	s.misses.Add(context.Background(), 1)

	duration = note.Value(layer.DurationSpec(), index)
	velocity = note.Value(layer.VelocitySpec(), index)

	s.mu.Lock()
	s.cache[key] = cachedParams{duration: duration, velocity: velocity}
	s.mu.Unlock()
	return duration, velocity
}

// InvalidateLayer drops cached parameters for one layer. Callers invoke
// this when the layer's parameter config changes.
func (s *Scheduler) InvalidateLayer(layerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache {
		if key.layerID == layerID {
			delete(s.cache, key)
		}
	}
}

// CacheHitRate reports the fraction of Params calls served from cache.
func (s *Scheduler) CacheHitRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.hitCount + s.missCount
	if total == 0 {
		return 0
	}
	return float64(s.hitCount) / float64(total)
}
