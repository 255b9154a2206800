// Package engine ties the history store, crossing detector and note
// generator into one constructible unit. There is no package-level
// singleton: every caller builds its own engine with injected
// configuration, so independent engines (per layer, per test) coexist.
package engine

import (
	"github.com/polygonome/engine/internal/crossing"
	"github.com/polygonome/engine/internal/history"
	"github.com/polygonome/engine/internal/note"
	"github.com/polygonome/engine/pkg/core"
)

// Config holds engine tuning.
type Config struct {
	// Resolution is the crossing detector's sub-sampling rate in Hz.
	Resolution float64
	// MaxMemory bounds each point's history, in samples.
	MaxMemory int
}

// DefaultConfig returns the standard tuning: 1 ms sub-sampling and a few
// frames of lookback.
func DefaultConfig() Config {
	return Config{
		Resolution: crossing.DefaultResolution,
		MaxMemory:  history.DefaultMaxMemory,
	}
}

// Engine is the frame-driven trigger core. The animation loop calls
// RecordPosition then DetectCrossing once per point per frame; on a
// crossing it calls CreateNote and hands the event to dispatch.
type Engine struct {
	store    *history.Store
	detector *crossing.Detector
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	if cfg.MaxMemory == 0 {
		cfg.MaxMemory = history.DefaultMaxMemory
	}
	store := history.NewStore(cfg.MaxMemory)
	return &Engine{
		store:    store,
		detector: crossing.NewDetector(store, crossing.Config{Resolution: cfg.Resolution}),
	}
}

// RecordPosition appends a frame sample for the point. Never fails.
func (e *Engine) RecordPosition(id string, pos core.Position3D, timestamp float64) {
	e.store.Record(id, pos, timestamp)
}

// DetectCrossing polls the point's recent motion for a trigger-line
// crossing. Insufficient history degrades to the empty result.
func (e *Engine) DetectCrossing(id string) core.CrossingResult {
	return e.detector.Detect(id)
}

// CreateNote deterministically derives the musical event for a crossing.
func (e *Engine) CreateNote(trigger core.TriggerData, layer core.LayerConfig) core.NoteEvent {
	return note.Create(trigger, layer)
}

// Reset drops one point's history. The caller invokes this when a layer
// parameter change invalidates the point's geometry; the engine never
// expires histories on its own.
func (e *Engine) Reset(id string) {
	e.store.Reset(id)
}

// ResetAll drops every point history.
func (e *Engine) ResetAll() {
	e.store.ResetAll()
}

// TrackedPoints reports how many point histories are currently held.
func (e *Engine) TrackedPoints() int {
	return e.store.TrackedPoints()
}
