package geometry

import (
	"math"

	"github.com/polygonome/engine/pkg/core"
)

// parallelEpsilon bounds the determinant below which two segments are
// treated as parallel.
const parallelEpsilon = 1e-10

// SegmentIntersection returns the intersection of segments p1→p2 and
// p3→p4, or false when the segments are parallel or the intersection
// falls outside either segment.
func SegmentIntersection(p1, p2, p3, p4 core.Position3D) (core.Position3D, bool) {
	denominator := (p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y)
	if math.Abs(denominator) < parallelEpsilon {
		return core.Position3D{}, false
	}

	ua := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) / denominator
	ub := ((p2.X-p1.X)*(p1.Y-p3.Y) - (p2.Y-p1.Y)*(p1.X-p3.X)) / denominator

	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return core.Position3D{}, false
	}

	return core.Position3D{
		X: p1.X + ua*(p2.X-p1.X),
		Y: p1.Y + ua*(p2.Y-p1.Y),
	}, true
}

// Intersections returns every intersection between the segments of two
// closed loops, in deterministic scan order (loopA segment-major). The
// order is the contract for intersection point indices.
func Intersections(loopA, loopB []core.Position3D) []core.Position3D {
	if len(loopA) < 2 || len(loopB) < 2 {
		return nil
	}

	var out []core.Position3D
	for i := range loopA {
		a1 := loopA[i]
		a2 := loopA[(i+1)%len(loopA)]
		for j := range loopB {
			b1 := loopB[j]
			b2 := loopB[(j+1)%len(loopB)]
			if pt, ok := SegmentIntersection(a1, a2, b1, b2); ok {
				out = append(out, pt)
			}
		}
	}
	return out
}

// LayerIntersections returns the intersections between every pair of
// copy outlines in a layer, in copy-pair order.
func (p Params) LayerIntersections(rotation float64) []core.Position3D {
	var out []core.Position3D
	for a := 0; a < p.Copies; a++ {
		loopA := p.CopyOutline(a, rotation)
		for b := a + 1; b < p.Copies; b++ {
			out = append(out, Intersections(loopA, p.CopyOutline(b, rotation))...)
		}
	}
	return out
}
