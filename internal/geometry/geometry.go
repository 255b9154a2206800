// Package geometry generates the rotating polygon layers the engine
// tracks: regular-polygon vertex rings, scaled/rotated copies, and the
// intersection points between copy outlines. Generation order is the
// contract: it defines each point's stable index within its layer.
package geometry

import (
	"math"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/polygonome/engine/pkg/core"
)

// Params describes one polygon layer's shape.
type Params struct {
	// Segments is the number of polygon vertices per copy.
	Segments int
	// Copies is the number of concentric copies.
	Copies int
	// Radius of the outermost copy.
	Radius float64
	// CopyScale is the radius ratio between successive copies (1 keeps
	// every copy at the same radius).
	CopyScale float64
	// CopyRotation is the extra rotation applied per copy, in radians.
	CopyRotation float64
}

// copyRadius returns the radius of the given copy.
func (p Params) copyRadius(copyIndex int) float64 {
	scale := p.CopyScale
	if scale <= 0 {
		scale = 1
	}
	return p.Radius * math.Pow(scale, float64(copyIndex))
}

// VertexPosition returns one vertex of one copy under the given global
// rotation. Vertices are laid out counter-clockwise starting at angle 0.
func (p Params) VertexPosition(copyIndex, vertexIndex int, rotation float64) core.Position3D {
	angle := rotation +
		float64(copyIndex)*p.CopyRotation +
		2*math.Pi*float64(vertexIndex)/float64(p.Segments)
	r := p.copyRadius(copyIndex)
	return core.Position3D{
		X: r * math.Cos(angle),
		Y: r * math.Sin(angle),
	}
}

// Vertices returns all copy vertices in generation order: copy-major,
// vertex-minor, matching note.VertexPointIndex.
func (p Params) Vertices(rotation float64) []core.Position3D {
	out := make([]core.Position3D, 0, p.Copies*p.Segments)
	for c := 0; c < p.Copies; c++ {
		for v := 0; v < p.Segments; v++ {
			out = append(out, p.VertexPosition(c, v, rotation))
		}
	}
	return out
}

// CopyOutline returns one copy's closed vertex loop.
func (p Params) CopyOutline(copyIndex int, rotation float64) []core.Position3D {
	out := make([]core.Position3D, 0, p.Segments)
	for v := 0; v < p.Segments; v++ {
		out = append(out, p.VertexPosition(copyIndex, v, rotation))
	}
	return out
}

// OutlineLineString builds the closed outline of one copy as a
// simplefeatures LineString (first vertex repeated at the end), suitable
// for WKT export to storage.
func (p Params) OutlineLineString(copyIndex int, rotation float64) geom.LineString {
	loop := p.CopyOutline(copyIndex, rotation)
	if len(loop) == 0 {
		return geom.LineString{}
	}
	coords := make([]float64, 0, (len(loop)+1)*2)
	for _, pt := range loop {
		coords = append(coords, pt.X, pt.Y)
	}
	coords = append(coords, loop[0].X, loop[0].Y)
	seq := geom.NewSequence(coords, geom.DimXY)
	return geom.NewLineString(seq)
}

// OutlineWKT returns the WKT text of one copy's closed outline.
func (p Params) OutlineWKT(copyIndex int, rotation float64) string {
	return p.OutlineLineString(copyIndex, rotation).AsText()
}

// LayerOutlineWKT returns the WKT text of the whole layer: every copy's
// closed outline collected into a MultiLineString.
func (p Params) LayerOutlineWKT(rotation float64) string {
	lines := make([]geom.LineString, 0, p.Copies)
	for c := 0; c < p.Copies; c++ {
		lines = append(lines, p.OutlineLineString(c, rotation))
	}
	return geom.NewMultiLineString(lines).AsText()
}
