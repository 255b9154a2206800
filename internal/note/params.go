// Package note turns crossings into reproducible musical events. All
// parameter generation is keyed by the triggering point's stable index:
// identical index and config always produce an identical note, across
// runs and across implementations.
package note

import (
	"math"

	"github.com/polygonome/engine/pkg/core"
)

// LCG constants (Numerical Recipes). These must not be replaced with a
// stdlib PRNG: the sequence has to be bit-for-bit reproducible against
// other implementations of the same engine.
const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
	lcgModulus    = 1 << 32
)

// SeededRandom returns a deterministic pseudo-random value in [0,1) for
// the given seed. Pure: the same seed always yields the same output.
func SeededRandom(seed int) float64 {
	next := (lcgMultiplier*(uint64(uint32(seed))+1) + lcgIncrement) % lcgModulus
	return float64(next) / float64(lcgModulus)
}

func phaseOffset(phase float64, modulo int) int {
	return int(math.Floor(phase * float64(modulo)))
}

// ModuloValue returns max when the phase-shifted index lands on a modulo
// boundary, min otherwise. Index 0 always yields max.
func ModuloValue(index, modulo int, min, max, phase float64) float64 {
	if index == 0 {
		return max
	}
	if modulo <= 0 {
		return (min + max) / 2
	}
	if (index+phaseOffset(phase, modulo))%modulo == 0 {
		return max
	}
	return min
}

// RandomValue maps the LCG output for the phase-shifted index linearly
// into [min,max]. Index 0 always yields max.
func RandomValue(index, modulo int, min, max, phase float64) float64 {
	if index == 0 {
		return max
	}
	if modulo <= 0 {
		return (min + max) / 2
	}
	r := SeededRandom(index + phaseOffset(phase, modulo))
	return min + r*(max-min)
}

// InterpolationValue oscillates sinusoidally over the modulo cycle.
// Index 0 always yields max.
func InterpolationValue(index, modulo int, min, max, phase float64) float64 {
	if index == 0 {
		return max
	}
	if modulo <= 0 {
		return (min + max) / 2
	}
	position := (index + phaseOffset(phase, modulo)) % modulo
	normalized := float64(position) / float64(modulo)
	oscillation := (math.Sin(normalized*2*math.Pi) + 1) / 2
	return min + oscillation*(max-min)
}

// Value dispatches on the spec's mode. An unrecognized mode falls back to
// the mid-range value rather than erroring.
func Value(spec core.ParamSpec, index int) float64 {
	switch spec.Mode {
	case core.ModeModulo:
		return ModuloValue(index, spec.Modulo, spec.Min, spec.Max, spec.Phase)
	case core.ModeRandom:
		return RandomValue(index, spec.Modulo, spec.Min, spec.Max, spec.Phase)
	case core.ModeInterpolation:
		return InterpolationValue(index, spec.Modulo, spec.Min, spec.Max, spec.Phase)
	default:
		return (spec.Min + spec.Max) / 2
	}
}
