// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/polygonome/engine/internal/config"
	"github.com/polygonome/engine/pkg/core"
)

// LayerRecord groups a layer with the note events it produced
type LayerRecord struct {
	Layer core.LayerInfo
	Notes []core.NoteEvent
}

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *core.SessionInfo

	layers map[string]*LayerRecord // keyed by LayerID

	// notes for points without a registered layer, so nothing is lost
	orphanNotes []core.NoteEvent

	crossings  []core.CrossingEvent
	framePerfs []core.FramePerf

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:    cfg,
		layers: make(map[string]*LayerRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session
func (b *Backend) StartSession(session *core.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = session

	// Reset all collections
	b.layers = make(map[string]*LayerRecord)
	b.orphanNotes = nil
	b.crossings = nil
	b.framePerfs = nil

	return nil
}

// EndSession finalizes and exports the session data
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.exportJSON()
}

// AddLayer registers a new layer
func (b *Backend) AddLayer(layer *core.LayerInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.layers[layer.Config.LayerID] = &LayerRecord{
		Layer: *layer,
		Notes: make([]core.NoteEvent, 0),
	}
	return nil
}

// GetLayerByID looks up a layer by its ID
func (b *Backend) GetLayerByID(id string) (*core.LayerInfo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if record, ok := b.layers[id]; ok {
		return &record.Layer, true
	}
	return nil, false
}

// RecordNoteEvent records a dispatched note under its layer
func (b *Backend) RecordNoteEvent(n *core.NoteEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.layers[n.ParameterInfo.LayerID]; ok {
		record.Notes = append(record.Notes, *n)
		return nil
	}
	b.orphanNotes = append(b.orphanNotes, *n)
	return nil
}

// RecordCrossing records a raw crossing detection
func (b *Backend) RecordCrossing(e *core.CrossingEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.crossings = append(b.crossings, *e)
	return nil
}

// RecordFramePerf records a frame performance snapshot
func (b *Backend) RecordFramePerf(p *core.FramePerf) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framePerfs = append(b.framePerfs, *p)
	return nil
}

// GetExportedFilePath returns the path of the last JSON export
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
