// Package crossing reconstructs sub-frame-accurate axis crossings from the
// sparse per-frame samples held in the history store. The trigger line is
// the vertical x=0 axis restricted to the y>0 half-plane, a clock-style
// "12 o'clock" line for circular motion.
package crossing

import (
	"github.com/polygonome/engine/internal/history"
	"github.com/polygonome/engine/pkg/core"
)

// DefaultResolution is the sub-sampling rate in Hz (1 ms slices).
const DefaultResolution = 1000.0

// Config holds detector tuning.
type Config struct {
	// Resolution is the sub-sampling rate in Hz. The interval between two
	// frame samples is cut into slices of 1/Resolution seconds.
	Resolution float64
}

// Detector scans a point's recent motion for trigger-line crossings.
type Detector struct {
	store     *history.Store
	timeSlice float64
}

// NewDetector creates a detector reading from the given history store.
func NewDetector(store *history.Store, cfg Config) *Detector {
	res := cfg.Resolution
	if res <= 0 {
		res = DefaultResolution
	}
	return &Detector{
		store:     store,
		timeSlice: 1.0 / res,
	}
}

// Interpolate linearly interpolates each axis independently. t is not
// clamped; callers supply valid fractions.
func Interpolate(a, b core.Position3D, t float64) core.Position3D {
	return core.Position3D{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// CheckAxisCrossing reports whether the segment a→b crosses the trigger
// line, and at which fraction of the segment x interpolates to zero.
// Motion on or below the y=0 plane never triggers.
func CheckAxisCrossing(a, b core.PositionSample) (bool, float64) {
	if a.Position.Y <= 0 || b.Position.Y <= 0 {
		return false, 0
	}
	if sign(a.Position.X) == sign(b.Position.X) {
		return false, 0
	}
	factor := a.Position.X / (a.Position.X - b.Position.X)
	return true, factor
}

// SamplePath subdivides the interval between two frame samples into fixed
// 1/resolution slices of linearly-interpolated intermediate samples. The
// original endpoints are always the first and last entries. Fine
// sub-samples turn a large per-frame angular step into many near-linear
// steps, so the crossing time stays accurate under fast rotation.
func (d *Detector) SamplePath(a, b core.PositionSample) []core.PositionSample {
	span := b.Timestamp - a.Timestamp
	if span <= 0 {
		return []core.PositionSample{a, b}
	}

	steps := int(span / d.timeSlice)
	samples := make([]core.PositionSample, 0, steps+2)
	samples = append(samples, a)
	for i := 1; i <= steps; i++ {
		t := float64(i) * d.timeSlice / span
		if t >= 1 {
			break
		}
		samples = append(samples, core.PositionSample{
			Position:  Interpolate(a.Position, b.Position, t),
			Timestamp: a.Timestamp + float64(i)*d.timeSlice,
		})
	}
	samples = append(samples, b)
	return samples
}

// Detect answers whether the most recent motion of id crossed the trigger
// line. Fewer than two recorded samples degrades to the empty result; the
// detector never returns an error. Only the first crossing within the
// interval is reported per call.
func (d *Detector) Detect(id string) core.CrossingResult {
	recent := d.store.Latest(id, 2)
	if len(recent) < 2 {
		return core.EmptyCrossing()
	}

	path := d.SamplePath(recent[0], recent[1])
	for i := 0; i < len(path)-1; i++ {
		subA, subB := path[i], path[i+1]
		crossed, factor := CheckAxisCrossing(subA, subB)
		if !crossed {
			continue
		}
		return core.CrossingResult{
			HasCrossed:     true,
			CrossingFactor: factor,
			ExactTime:      subA.Timestamp + (subB.Timestamp-subA.Timestamp)*factor,
			Position:       Interpolate(subA.Position, subB.Position, factor),
		}
	}
	return core.EmptyCrossing()
}
