package history

import (
	"fmt"
	"testing"

	"github.com/polygonome/engine/pkg/core"
)

func TestStore_RecordCreatesHistory(t *testing.T) {
	s := NewStore(5)

	s.Record("p1", core.Position3D{X: 1, Y: 2, Z: 3}, 0.5)

	if s.Len("p1") != 1 {
		t.Errorf("expected 1 sample, got %d", s.Len("p1"))
	}
	samples := s.Latest("p1", 2)
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].Position.X != 1 || samples[0].Timestamp != 0.5 {
		t.Errorf("unexpected sample: %+v", samples[0])
	}
}

func TestStore_BoundsToMaxMemory(t *testing.T) {
	s := NewStore(4)

	for i := 0; i < 10; i++ {
		s.Record("p1", core.Position3D{X: float64(i)}, float64(i))
	}

	if s.Len("p1") != 4 {
		t.Fatalf("expected 4 samples, got %d", s.Len("p1"))
	}

	// The survivors must be the most recent by timestamp.
	samples := s.Latest("p1", 4)
	for i, want := range []float64{6, 7, 8, 9} {
		if samples[i].Timestamp != want {
			t.Errorf("sample %d: expected timestamp %v, got %v", i, want, samples[i].Timestamp)
		}
	}
}

func TestStore_MinimumMemoryClamped(t *testing.T) {
	s := NewStore(0)
	if s.MaxMemory() != 2 {
		t.Errorf("expected clamp to 2, got %d", s.MaxMemory())
	}
}

func TestStore_LatestLimitsCount(t *testing.T) {
	s := NewStore(6)
	for i := 0; i < 5; i++ {
		s.Record("p1", core.Position3D{}, float64(i))
	}

	samples := s.Latest("p1", 2)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].Timestamp != 3 || samples[1].Timestamp != 4 {
		t.Errorf("expected the two newest samples, got %+v", samples)
	}
}

func TestStore_LatestUnknownID(t *testing.T) {
	s := NewStore(4)
	if samples := s.Latest("missing", 2); len(samples) != 0 {
		t.Errorf("expected no samples, got %d", len(samples))
	}
}

func TestStore_IndependentPoints(t *testing.T) {
	s := NewStore(3)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("p%d", i%2)
		s.Record(id, core.Position3D{}, float64(i))
	}

	if s.TrackedPoints() != 2 {
		t.Errorf("expected 2 tracked points, got %d", s.TrackedPoints())
	}
	if s.Len("p0") != 3 || s.Len("p1") != 2 {
		t.Errorf("unexpected lengths: p0=%d p1=%d", s.Len("p0"), s.Len("p1"))
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(3)
	s.Record("p1", core.Position3D{}, 1)
	s.Record("p2", core.Position3D{}, 1)

	s.Reset("p1")
	if s.Len("p1") != 0 {
		t.Error("expected p1 history cleared")
	}
	if s.Len("p2") != 1 {
		t.Error("expected p2 history untouched")
	}

	s.ResetAll()
	if s.TrackedPoints() != 0 {
		t.Errorf("expected no tracked points, got %d", s.TrackedPoints())
	}
}
