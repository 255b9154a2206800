package note

import (
	"math"
	"testing"

	"github.com/polygonome/engine/pkg/core"
)

func testLayer(durMode, velMode string) core.LayerConfig {
	return core.LayerConfig{
		LayerID:        "layer1",
		DurationMode:   durMode,
		DurationModulo: 4,
		MinDuration:    0.1,
		MaxDuration:    1.0,
		VelocityMode:   velMode,
		VelocityModulo: 3,
		MinVelocity:    0.2,
		MaxVelocity:    0.9,
		Segments:       6,
		Copies:         2,
	}
}

func TestSeededRandom_Deterministic(t *testing.T) {
	for _, seed := range []int{0, 1, 7, 42, 100000} {
		a := SeededRandom(seed)
		b := SeededRandom(seed)
		if a != b {
			t.Errorf("seed %d: expected identical output, got %v and %v", seed, a, b)
		}
		if a < 0 || a >= 1 {
			t.Errorf("seed %d: output out of [0,1): %v", seed, a)
		}
	}
}

func TestSeededRandom_KnownValues(t *testing.T) {
	// next = (1664525*(seed+1) + 1013904223) mod 2^32
	want0 := float64((uint64(1664525)+1013904223)%(1<<32)) / float64(uint64(1)<<32)
	if got := SeededRandom(0); got != want0 {
		t.Errorf("seed 0: expected %v, got %v", want0, got)
	}

	want5 := float64((uint64(1664525)*6+1013904223)%(1<<32)) / float64(uint64(1)<<32)
	if got := SeededRandom(5); got != want5 {
		t.Errorf("seed 5: expected %v, got %v", want5, got)
	}
}

func TestSeededRandom_DistinctSeeds(t *testing.T) {
	if SeededRandom(1) == SeededRandom(2) {
		t.Error("expected different outputs for different seeds")
	}
}

func TestModuloValue_IndexZeroAlwaysMax(t *testing.T) {
	for _, n := range []int{1, 3, 7, 16} {
		if got := ModuloValue(0, n, 0.1, 0.9, 0); got != 0.9 {
			t.Errorf("modulo %d: expected max 0.9, got %v", n, got)
		}
	}
}

func TestModuloValue_Cycle(t *testing.T) {
	// modulo 4, no phase: indices 4, 8, 12 hit max, the rest hit min.
	for idx := 1; idx <= 12; idx++ {
		got := ModuloValue(idx, 4, 0.1, 0.9, 0)
		want := 0.1
		if idx%4 == 0 {
			want = 0.9
		}
		if got != want {
			t.Errorf("index %d: expected %v, got %v", idx, want, got)
		}
	}
}

func TestModuloValue_PhaseShiftsBoundary(t *testing.T) {
	// phase 0.5 on modulo 4 => offset 2, so indices 2, 6, 10 hit max.
	for _, idx := range []int{2, 6, 10} {
		if got := ModuloValue(idx, 4, 0.1, 0.9, 0.5); got != 0.9 {
			t.Errorf("index %d: expected max with phase offset, got %v", idx, got)
		}
	}
	if got := ModuloValue(4, 4, 0.1, 0.9, 0.5); got != 0.1 {
		t.Errorf("index 4: expected min with phase offset, got %v", got)
	}
}

func TestModuloValue_InvertedRange(t *testing.T) {
	// min > max: the extremes swap roles but index 0 still returns Max.
	if got := ModuloValue(0, 4, 0.9, 0.1, 0); got != 0.1 {
		t.Errorf("expected 0.1 for index 0, got %v", got)
	}
	if got := ModuloValue(1, 4, 0.9, 0.1, 0); got != 0.9 {
		t.Errorf("expected 0.9 for off-boundary index, got %v", got)
	}
}

func TestRandomValue_WithinRange(t *testing.T) {
	for idx := 1; idx < 50; idx++ {
		got := RandomValue(idx, 8, 0.2, 0.8, 0)
		if got < 0.2 || got >= 0.8 {
			t.Errorf("index %d: value %v out of [0.2,0.8)", idx, got)
		}
	}
}

func TestRandomValue_Reproducible(t *testing.T) {
	for idx := 1; idx < 20; idx++ {
		if RandomValue(idx, 8, 0, 1, 0.25) != RandomValue(idx, 8, 0, 1, 0.25) {
			t.Errorf("index %d: expected reproducible value", idx)
		}
	}
}

func TestInterpolationValue_Oscillates(t *testing.T) {
	// Quarter cycle of modulo 4 peaks at index 1 (sin(π/2)=1).
	got := InterpolationValue(1, 4, 0, 1, 0)
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("expected peak 1 at quarter cycle, got %v", got)
	}
	// Half cycle returns to the midpoint.
	got = InterpolationValue(2, 4, 0, 1, 0)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected 0.5 at half cycle, got %v", got)
	}
}

func TestValue_UnknownModeFallsBackToMidRange(t *testing.T) {
	spec := core.ParamSpec{Mode: "wobble", Modulo: 4, Min: 0.2, Max: 0.8}
	if got := Value(spec, 3); got != 0.5 {
		t.Errorf("expected mid-range 0.5, got %v", got)
	}
}

func TestValue_ZeroModuloFallsBackToMidRange(t *testing.T) {
	for _, mode := range []string{core.ModeModulo, core.ModeRandom, core.ModeInterpolation} {
		spec := core.ParamSpec{Mode: mode, Modulo: 0, Min: 0.2, Max: 0.8}
		if got := Value(spec, 3); got != 0.5 {
			t.Errorf("mode %s: expected mid-range 0.5, got %v", mode, got)
		}
	}
}

func TestQuantizeFrequency_SnapsToTemperedPitch(t *testing.T) {
	// 450 Hz is nearest to A4 (440 Hz).
	if got := QuantizeFrequency(450, 440); math.Abs(got-440) > 1e-9 {
		t.Errorf("expected 440, got %v", got)
	}
	// 460 Hz is nearest to A#4 (~466.16 Hz).
	want := 440 * math.Pow(2, 1.0/12)
	if got := QuantizeFrequency(460, 440); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		freq float64
		want string
	}{
		{440, "A4"},
		{261.625565, "C4"},
		{880, "A5"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := NoteName(tt.freq); got != tt.want {
			t.Errorf("freq %v: expected %q, got %q", tt.freq, tt.want, got)
		}
	}
}

func TestPointIDs(t *testing.T) {
	if got := VertexID("layer1", 2, 3); got != "layer1-2-3" {
		t.Errorf("expected layer1-2-3, got %q", got)
	}
	if got := IntersectionID("layer1", 2, 3); got != "layer1-intersection-2-3" {
		t.Errorf("expected layer1-intersection-2-3, got %q", got)
	}
	// Identical inputs always yield identical ids.
	if VertexID("a", 1, 2) != VertexID("a", 1, 2) {
		t.Error("vertex ids must be stable")
	}
}

func TestPointIndexes(t *testing.T) {
	if got := VertexPointIndex(2, 6, 3); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
	if got := IntersectionPointIndex(2, 6, 3); got != 15 {
		t.Errorf("expected 15, got %d", got)
	}
	// Intersections start past every regular vertex of the layer.
	if IntersectionPointIndex(2, 6, 0) != VertexPointIndex(1, 6, 5)+1 {
		t.Error("expected intersections offset past all regular points")
	}
}

func TestCreate_IndexZeroYieldsMaxRegardlessOfMode(t *testing.T) {
	trigger := core.TriggerData{
		PointID:    "layer1-0-0",
		PointIndex: 0,
		Position:   core.Position3D{X: 0, Y: 100},
		Time:       1.5,
	}

	for _, mode := range []string{core.ModeModulo, core.ModeRandom, core.ModeInterpolation} {
		layer := testLayer(mode, mode)
		n := Create(trigger, layer)
		if n.Duration != layer.MaxDuration {
			t.Errorf("mode %s: expected duration %v, got %v", mode, layer.MaxDuration, n.Duration)
		}
		if n.Velocity != layer.MaxVelocity {
			t.Errorf("mode %s: expected velocity %v, got %v", mode, layer.MaxVelocity, n.Velocity)
		}
	}
}

func TestCreate_FrequencyIsDistanceFromOrigin(t *testing.T) {
	trigger := core.TriggerData{
		PointIndex: 1,
		Position:   core.Position3D{X: 3, Y: 4},
		Time:       2.0,
	}
	n := Create(trigger, testLayer(core.ModeModulo, core.ModeModulo))
	if n.Frequency != 5 {
		t.Errorf("expected frequency 5, got %v", n.Frequency)
	}
	if n.NoteName != "" {
		t.Errorf("expected no note name without quantization, got %q", n.NoteName)
	}
}

func TestCreate_EqualTemperament(t *testing.T) {
	layer := testLayer(core.ModeModulo, core.ModeModulo)
	layer.UseEqualTemperament = true
	layer.ReferenceFrequency = 440

	trigger := core.TriggerData{
		PointIndex: 1,
		Position:   core.Position3D{X: 0, Y: 450},
		Time:       1.0,
	}
	n := Create(trigger, layer)
	if math.Abs(n.Frequency-440) > 1e-9 {
		t.Errorf("expected quantized frequency 440, got %v", n.Frequency)
	}
	if n.NoteName != "A4" {
		t.Errorf("expected note name A4, got %q", n.NoteName)
	}
	if !n.ParameterInfo.Quantized {
		t.Error("expected provenance to record quantization")
	}
}

func TestCreate_Pan(t *testing.T) {
	layer := testLayer(core.ModeModulo, core.ModeModulo)

	fixed := Create(core.TriggerData{PointIndex: 1, Position: core.Position3D{Y: 1}}, layer)
	if fixed.Pan != 0 {
		t.Errorf("expected pan 0 without a dynamic angle, got %v", fixed.Pan)
	}

	dynamic := Create(core.TriggerData{
		PointIndex: 1,
		Position:   core.Position3D{Y: 1},
		Angle:      math.Pi / 2,
		HasAngle:   true,
	}, layer)
	if math.Abs(dynamic.Pan-1) > 1e-12 {
		t.Errorf("expected pan 1 at π/2, got %v", dynamic.Pan)
	}
}

func TestCreate_Provenance(t *testing.T) {
	layer := testLayer(core.ModeRandom, core.ModeInterpolation)
	n := Create(core.TriggerData{PointIndex: 7, Position: core.Position3D{Y: 10}, Time: 3}, layer)

	info := n.ParameterInfo
	if info.LayerID != "layer1" || info.PointIndex != 7 {
		t.Errorf("unexpected provenance identity: %+v", info)
	}
	if info.DurationMode != core.ModeRandom || info.VelocityMode != core.ModeInterpolation {
		t.Errorf("unexpected provenance modes: %+v", info)
	}
	if info.DurationModulo != 4 || info.VelocityModulo != 3 {
		t.Errorf("unexpected provenance modulos: %+v", info)
	}
}
