// internal/storage/storage.go
package storage

import "github.com/polygonome/engine/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(session *core.SessionInfo) error
	EndSession() error

	// Layer registration
	AddLayer(layer *core.LayerInfo) error

	// Event recording
	RecordNoteEvent(n *core.NoteEvent) error
	RecordCrossing(e *core.CrossingEvent) error
	RecordFramePerf(p *core.FramePerf) error
}

// Exportable is an optional interface for storage backends that produce
// a session file on disk when the session ends.
type Exportable interface {
	GetExportedFilePath() string
}
