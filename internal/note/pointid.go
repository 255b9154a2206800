package note

import "fmt"

// Point identities are derived purely from layer geometry coordinates,
// with no counters or randomness, so the same (layer, copy, vertex) triple
// names the same point across calls and across processes. The
// "intersection" tag keeps vertex and intersection ids from colliding.

// VertexID returns the stable history key for a regular polygon vertex.
func VertexID(layerID string, copyIndex, vertexIndex int) string {
	return fmt.Sprintf("%s-%d-%d", layerID, copyIndex, vertexIndex)
}

// IntersectionID returns the stable history key for an intersection point.
func IntersectionID(layerID string, copyIndex, vertexIndex int) string {
	return fmt.Sprintf("%s-intersection-%d-%d", layerID, copyIndex, vertexIndex)
}

// VertexPointIndex is the sequential identity of a regular vertex within
// its layer, following geometry generation order.
func VertexPointIndex(copyIndex, segments, vertexIndex int) int {
	return copyIndex*segments + vertexIndex
}

// IntersectionPointIndex offsets intersection points past all regular
// vertices of the layer.
func IntersectionPointIndex(copies, segments, intersectionIndex int) int {
	return copies*segments + intersectionIndex
}
