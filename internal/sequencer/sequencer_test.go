package sequencer

import (
	"errors"
	"testing"

	"github.com/polygonome/engine/pkg/core"
)

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	return s
}

func testLayer() core.LayerConfig {
	return core.LayerConfig{
		LayerID:      "layer1",
		DurationMode: core.ModeModulo, DurationModulo: 4, MinDuration: 0.1, MaxDuration: 1,
		VelocityMode: core.ModeRandom, VelocityModulo: 8, MinVelocity: 0.2, MaxVelocity: 0.9,
	}
}

func TestScheduler_DueInTimeOrder(t *testing.T) {
	s := newTestScheduler(t, Config{LookAhead: 10})

	for _, at := range []float64{3.0, 1.0, 2.0} {
		if err := s.Schedule(core.NoteEvent{Time: at}, at, 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ready := s.Due(5)
	if len(ready) != 3 {
		t.Fatalf("expected 3 due notes, got %d", len(ready))
	}
	for i, want := range []float64{1.0, 2.0, 3.0} {
		if ready[i].At != want {
			t.Errorf("position %d: expected time %v, got %v", i, want, ready[i].At)
		}
	}
}

func TestScheduler_DueRespectsPrecision(t *testing.T) {
	s := newTestScheduler(t, Config{LookAhead: 10, Precision: 0.01})

	s.Schedule(core.NoteEvent{}, 1.005, 1.0)
	s.Schedule(core.NoteEvent{}, 1.5, 1.0)

	ready := s.Due(1.0)
	if len(ready) != 1 {
		t.Fatalf("expected 1 note within precision window, got %d", len(ready))
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 pending note, got %d", s.Len())
	}
}

func TestScheduler_RejectsBeyondLookAhead(t *testing.T) {
	s := newTestScheduler(t, Config{LookAhead: 0.5})

	err := s.Schedule(core.NoteEvent{}, 2.0, 1.0)
	if !errors.Is(err, ErrBeyondLookAhead) {
		t.Errorf("expected ErrBeyondLookAhead, got %v", err)
	}
}

func TestScheduler_QueueBound(t *testing.T) {
	s := newTestScheduler(t, Config{LookAhead: 100, MaxQueue: 3})

	for i := 0; i < 3; i++ {
		if err := s.Schedule(core.NoteEvent{}, float64(i), 0); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}

	err := s.Schedule(core.NoteEvent{}, 4, 0)
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("queue exceeded its bound: %d", s.Len())
	}
}

func TestScheduler_Clear(t *testing.T) {
	s := newTestScheduler(t, Config{LookAhead: 10})
	s.Schedule(core.NoteEvent{}, 1, 0)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty queue, got %d", s.Len())
	}
}

func TestScheduler_ParamsCached(t *testing.T) {
	s := newTestScheduler(t, Config{})
	layer := testLayer()

	d1, v1 := s.Params(layer, 5)
	d2, v2 := s.Params(layer, 5)
	if d1 != d2 || v1 != v2 {
		t.Error("cached parameters must match the computed ones")
	}

	if rate := s.CacheHitRate(); rate != 0.5 {
		t.Errorf("expected hit rate 0.5 after one miss and one hit, got %v", rate)
	}
}

func TestScheduler_ParamsMatchGenerator(t *testing.T) {
	s := newTestScheduler(t, Config{})
	layer := testLayer()

	// Index 0 always yields max in every mode.
	d, v := s.Params(layer, 0)
	if d != layer.MaxDuration || v != layer.MaxVelocity {
		t.Errorf("expected max parameters for index 0, got %v/%v", d, v)
	}
}

func TestScheduler_InvalidateLayer(t *testing.T) {
	s := newTestScheduler(t, Config{})
	layer := testLayer()

	s.Params(layer, 1)
	s.Params(layer, 2)
	s.InvalidateLayer(layer.LayerID)

	s.Params(layer, 1)
	// 3 misses, 0 hits.
	if rate := s.CacheHitRate(); rate != 0 {
		t.Errorf("expected hit rate 0 after invalidation, got %v", rate)
	}
}
