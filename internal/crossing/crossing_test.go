package crossing

import (
	"math"
	"testing"

	"github.com/polygonome/engine/internal/history"
	"github.com/polygonome/engine/pkg/core"
)

func newTestDetector(maxMemory int) (*Detector, *history.Store) {
	store := history.NewStore(maxMemory)
	return NewDetector(store, Config{Resolution: DefaultResolution}), store
}

func sampleAt(x, y, ts float64) core.PositionSample {
	return core.PositionSample{Position: core.Position3D{X: x, Y: y}, Timestamp: ts}
}

func TestInterpolate_Endpoints(t *testing.T) {
	a := core.Position3D{X: 1.5, Y: -2.25, Z: 3}
	b := core.Position3D{X: -4, Y: 8, Z: 0.5}

	if got := Interpolate(a, b, 0); got != a {
		t.Errorf("t=0: expected %+v, got %+v", a, got)
	}
	if got := Interpolate(a, b, 1); got != b {
		t.Errorf("t=1: expected %+v, got %+v", b, got)
	}
}

func TestInterpolate_Midpoint(t *testing.T) {
	a := core.Position3D{X: 0, Y: 0, Z: 0}
	b := core.Position3D{X: 10, Y: -4, Z: 2}

	got := Interpolate(a, b, 0.5)
	want := core.Position3D{X: 5, Y: -2, Z: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestCheckAxisCrossing_SignChange(t *testing.T) {
	tests := []struct {
		name       string
		a, b       core.PositionSample
		wantCross  bool
		wantFactor float64
	}{
		{"positive to negative", sampleAt(10, 10, 0), sampleAt(-10, 10, 1), true, 0.5},
		{"negative to positive", sampleAt(-2, 5, 0), sampleAt(6, 5, 1), true, 0.25},
		{"no sign change", sampleAt(3, 5, 0), sampleAt(7, 5, 1), false, 0},
		{"both negative", sampleAt(-3, 5, 0), sampleAt(-7, 5, 1), false, 0},
		{"first y below plane", sampleAt(10, -1, 0), sampleAt(-10, 10, 1), false, 0},
		{"second y below plane", sampleAt(10, 10, 0), sampleAt(-10, 0, 1), false, 0},
		{"asymmetric factor", sampleAt(1, 2, 0), sampleAt(-3, 2, 1), true, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crossed, factor := CheckAxisCrossing(tt.a, tt.b)
			if crossed != tt.wantCross {
				t.Fatalf("expected crossed=%v, got %v", tt.wantCross, crossed)
			}
			if crossed && math.Abs(factor-tt.wantFactor) > 1e-12 {
				t.Errorf("expected factor %v, got %v", tt.wantFactor, factor)
			}
			if crossed && (factor < 0 || factor > 1) {
				t.Errorf("factor out of [0,1]: %v", factor)
			}
		})
	}
}

func TestSamplePath_IncludesEndpoints(t *testing.T) {
	d, _ := newTestDetector(4)

	a := sampleAt(10, 10, 1.0)
	b := sampleAt(-10, 10, 1.1)
	path := d.SamplePath(a, b)

	if len(path) < 3 {
		t.Fatalf("expected fine sub-samples, got %d entries", len(path))
	}
	if path[0] != a {
		t.Errorf("first entry is not the start sample: %+v", path[0])
	}
	if path[len(path)-1] != b {
		t.Errorf("last entry is not the end sample: %+v", path[len(path)-1])
	}

	// Timestamps must be strictly increasing at the slice granularity.
	for i := 1; i < len(path); i++ {
		if path[i].Timestamp <= path[i-1].Timestamp {
			t.Fatalf("timestamps not increasing at %d: %v <= %v", i, path[i].Timestamp, path[i-1].Timestamp)
		}
	}
}

func TestSamplePath_ZeroSpan(t *testing.T) {
	d, _ := newTestDetector(4)

	a := sampleAt(1, 1, 2.0)
	b := sampleAt(2, 1, 2.0)
	path := d.SamplePath(a, b)

	if len(path) != 2 {
		t.Fatalf("expected just the endpoints, got %d entries", len(path))
	}
}

func TestDetect_InsufficientHistory(t *testing.T) {
	d, store := newTestDetector(4)

	if r := d.Detect("missing"); r.HasCrossed {
		t.Error("expected no crossing for unknown point")
	}

	store.Record("p1", core.Position3D{X: 5, Y: 5}, 1.0)
	if r := d.Detect("p1"); r.HasCrossed {
		t.Error("expected no crossing with a single sample")
	}
}

func TestDetect_LinearCrossing(t *testing.T) {
	d, store := newTestDetector(4)

	store.Record("p1", core.Position3D{X: 10, Y: 10}, 1.0)
	store.Record("p1", core.Position3D{X: -10, Y: 10}, 1.1)

	r := d.Detect("p1")
	if !r.HasCrossed {
		t.Fatal("expected a crossing")
	}
	if math.Abs(r.ExactTime-1.05) > 0.02 {
		t.Errorf("expected exactTime ~1.05, got %v", r.ExactTime)
	}
	if math.Abs(r.Position.X) > 0.1 {
		t.Errorf("expected position.x ~0, got %v", r.Position.X)
	}
	if math.Abs(r.Position.Y-10) > 0.1 {
		t.Errorf("expected position.y ~10, got %v", r.Position.Y)
	}
}

func TestDetect_RotationalMotion(t *testing.T) {
	d, store := newTestDetector(4)

	// Rotate from 135° down to 45° at radius 100 over t=[1.0, 2.0],
	// sampled at 10 coarse steps. The vertical axis sits at 90°.
	const radius = 100.0
	const steps = 10

	var result core.CrossingResult
	for i := 0; i <= steps; i++ {
		frac := float64(i) / steps
		angle := (135 - 90*frac) * math.Pi / 180
		store.Record("p1", core.Position3D{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}, 1.0+frac)

		if r := d.Detect("p1"); r.HasCrossed {
			result = r
		}
	}

	if !result.HasCrossed {
		t.Fatal("expected a crossing during rotation")
	}
	if math.Abs(result.ExactTime-1.5) > 0.1 {
		t.Errorf("expected exactTime ~1.5, got %v", result.ExactTime)
	}
	if math.Abs(result.Position.X) > 1 {
		t.Errorf("expected crossing near x=0, got %v", result.Position.X)
	}
	if result.Position.Y < 90 {
		t.Errorf("expected crossing near the top of the circle, got y=%v", result.Position.Y)
	}
}

func TestDetect_NoCrossingBelowPlane(t *testing.T) {
	d, store := newTestDetector(4)

	// Sign change at the bottom of the circle must not trigger.
	store.Record("p1", core.Position3D{X: 10, Y: -10}, 1.0)
	store.Record("p1", core.Position3D{X: -10, Y: -10}, 1.1)

	if r := d.Detect("p1"); r.HasCrossed {
		t.Error("expected no crossing below the y=0 plane")
	}
}

func TestDetect_FirstCrossingOnly(t *testing.T) {
	d, store := newTestDetector(4)

	// The coarse pair sweeps across the axis; only one crossing may be
	// reported per call even though fine samples are scanned.
	store.Record("p1", core.Position3D{X: 1, Y: 10}, 1.0)
	store.Record("p1", core.Position3D{X: -1, Y: 10}, 2.0)

	r := d.Detect("p1")
	if !r.HasCrossed {
		t.Fatal("expected a crossing")
	}
	if math.Abs(r.ExactTime-1.5) > 0.01 {
		t.Errorf("expected exactTime ~1.5, got %v", r.ExactTime)
	}
}

func TestNewDetector_DefaultResolution(t *testing.T) {
	store := history.NewStore(4)
	d := NewDetector(store, Config{})

	if d.timeSlice != 1.0/DefaultResolution {
		t.Errorf("expected default time slice, got %v", d.timeSlice)
	}
}
