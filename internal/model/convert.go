package model

import (
	"encoding/json"
	"time"

	"github.com/polygonome/engine/pkg/core"
)

// SessionFromCore builds a Session row from the engine's session info.
func SessionFromCore(info *core.SessionInfo) Session {
	return Session{
		Name:       info.Name,
		StartTime:  info.StartTime,
		Resolution: info.Resolution,
		MaxMemory:  info.MaxMemory,
	}
}

// LayerFromCore builds a Layer row. The full parameter config is kept as
// JSON so schema changes in the config never require a migration.
func LayerFromCore(sessionID uint, info *core.LayerInfo) (Layer, error) {
	cfg, err := json.Marshal(info.Config)
	if err != nil {
		return Layer{}, err
	}
	return Layer{
		SessionID:  sessionID,
		LayerID:    info.Config.LayerID,
		Segments:   info.Config.Segments,
		Copies:     info.Config.Copies,
		OutlineWKT: info.OutlineWKT,
		Config:     cfg,
	}, nil
}

// NoteEventFromCore builds a NoteEvent row from a dispatched note.
func NoteEventFromCore(sessionID uint, n *core.NoteEvent) (NoteEvent, error) {
	params, err := json.Marshal(n.ParameterInfo)
	if err != nil {
		return NoteEvent{}, err
	}
	return NoteEvent{
		SessionID:     sessionID,
		LayerID:       n.ParameterInfo.LayerID,
		Time:          n.Time,
		Frequency:     n.Frequency,
		Duration:      n.Duration,
		Velocity:      n.Velocity,
		Pan:           n.Pan,
		PointIndex:    n.PointIndex,
		NoteName:      n.NoteName,
		PosX:          n.Coordinates.X,
		PosY:          n.Coordinates.Y,
		PosZ:          n.Coordinates.Z,
		ParameterInfo: params,
	}, nil
}

// CrossingFromCore builds a Crossing row from a detection event.
func CrossingFromCore(sessionID uint, e *core.CrossingEvent) Crossing {
	return Crossing{
		SessionID:      sessionID,
		PointID:        e.PointID,
		ExactTime:      e.Result.ExactTime,
		CrossingFactor: e.Result.CrossingFactor,
		PosX:           e.Result.Position.X,
		PosY:           e.Result.Position.Y,
		PosZ:           e.Result.Position.Z,
	}
}

// FramePerfFromCore builds a FramePerf row from a frame snapshot.
func FramePerfFromCore(sessionID uint, p *core.FramePerf) FramePerf {
	t := p.Time
	if t.IsZero() {
		t = time.Now()
	}
	return FramePerf{
		SessionID:     sessionID,
		Time:          t,
		FrameTimeMs:   p.FrameTimeMs,
		TrackedPoints: p.TrackedPoints,
		QueueLength:   p.QueueLength,
		CacheHitRate:  p.CacheHitRate,
	}
}
