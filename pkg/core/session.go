// pkg/core/session.go
package core

import "time"

// SessionInfo describes one recording session of the trigger engine.
type SessionInfo struct {
	Name       string    `json:"name"`
	StartTime  time.Time `json:"startTime"`
	Resolution float64   `json:"resolution"`
	MaxMemory  int       `json:"maxMemory"`
}

// LayerInfo pairs a layer's parameter config with its generated outline,
// as WKT, for storage.
type LayerInfo struct {
	Config     LayerConfig `json:"config"`
	OutlineWKT string      `json:"outlineWkt"`
}

// CrossingEvent pairs a detected crossing with the point that caused it.
type CrossingEvent struct {
	PointID string         `json:"pointId"`
	Result  CrossingResult `json:"result"`
}

// FramePerf is one frame's performance snapshot.
type FramePerf struct {
	Time          time.Time `json:"time"`
	FrameTimeMs   float32   `json:"frameTimeMs"`
	TrackedPoints int       `json:"trackedPoints"`
	QueueLength   int       `json:"queueLength"`
	CacheHitRate  float32   `json:"cacheHitRate"`
}
