// pkg/core/types.go
package core

// Position3D represents a 3D coordinate in layer space
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PositionSample pairs a position with the animation timestamp (in seconds)
// at which it was observed. Samples are immutable once recorded.
type PositionSample struct {
	Position  Position3D `json:"position"`
	Timestamp float64    `json:"timestamp"`
}

// CrossingResult describes whether and where a point crossed the trigger
// axis between its two most recent samples. A fresh result is built on
// every detection call and never mutated afterwards.
type CrossingResult struct {
	HasCrossed     bool       `json:"hasCrossed"`
	CrossingFactor float64    `json:"crossingFactor"`
	ExactTime      float64    `json:"exactTime"`
	Position       Position3D `json:"position"`
}

// EmptyCrossing returns the neutral "no crossing" result.
func EmptyCrossing() CrossingResult {
	return CrossingResult{}
}
