// Package gormstorage implements the storage.Backend interface on top of a
// GORM connection with internal queues and a background DB writer goroutine.
// It is database-agnostic; the sqlite and postgres packages wrap it with
// connection-specific behavior.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/polygonome/engine/internal/logging"
	"github.com/polygonome/engine/internal/model"
	"github.com/polygonome/engine/internal/queue"
	"github.com/polygonome/engine/pkg/core"

	"gorm.io/gorm"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB  *gorm.DB
	Log *logging.Manager
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	NoteEvents *queue.Queue[model.NoteEvent]
	Crossings  *queue.Queue[model.Crossing]
	FramePerfs *queue.Queue[model.FramePerf]
}

func newQueues() *queues {
	return &queues{
		NoteEvents: queue.New[model.NoteEvent](),
		Crossings:  queue.New[model.Crossing](),
		FramePerfs: queue.New[model.FramePerf](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps      Dependencies
	queues    *queues
	sessionID atomic.Uint64
	stopChan  chan struct{}
	dbReady   bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB writer goroutine.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		return fmt.Errorf("no database connection provided")
	}

	b.deps.Log.Info("Migrating schema")
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.dbReady = true

	b.startDBWriter()
	return nil
}

// Close stops the DB writer goroutine after a final flush.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	b.flush()
	return nil
}

// StartSession creates the session row in the DB and keeps its ID for
// stamping subsequent writes.
func (b *Backend) StartSession(session *core.SessionInfo) error {
	if b.deps.DB == nil {
		return nil
	}

	row := model.SessionFromCore(session)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}

	b.sessionID.Store(uint64(row.ID))
	return nil
}

// EndSession flushes pending writes and stamps the session end time.
func (b *Backend) EndSession() error {
	b.flush()

	id := uint(b.sessionID.Load())
	if id == 0 {
		return nil
	}
	return b.deps.DB.Model(&model.Session{}).Where("id = ?", id).
		Update("end_time", time.Now()).Error
}

// AddLayer inserts a layer synchronously (not queued) because layers are
// low-volume and registered once at session start.
func (b *Backend) AddLayer(layer *core.LayerInfo) error {
	row, err := model.LayerFromCore(uint(b.sessionID.Load()), layer)
	if err != nil {
		return fmt.Errorf("failed to encode layer config: %w", err)
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert layer: %w", err)
	}
	return nil
}

// RecordNoteEvent converts a note event to its GORM model and pushes it to the write queue.
func (b *Backend) RecordNoteEvent(n *core.NoteEvent) error {
	row, err := model.NoteEventFromCore(0, n)
	if err != nil {
		return fmt.Errorf("failed to encode note parameters: %w", err)
	}
	b.queues.NoteEvents.Push(row)
	return nil
}

// RecordCrossing converts and queues a crossing detection.
func (b *Backend) RecordCrossing(e *core.CrossingEvent) error {
	b.queues.Crossings.Push(model.CrossingFromCore(0, e))
	return nil
}

// RecordFramePerf converts and queues a frame performance snapshot.
func (b *Backend) RecordFramePerf(p *core.FramePerf) error {
	b.queues.FramePerfs.Push(model.FramePerfFromCore(0, p))
	return nil
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log *logging.Manager, prepare func([]T)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.DrainAll()
	if prepare != nil {
		prepare(items)
	}
	if err := tx.Create(&items).Error; err != nil {
		log.Error("DB writer failed to create rows", "queue", name, "error", err)
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// flush drains all queues into the DB once.
func (b *Backend) flush() {
	if !b.dbReady {
		return
	}

	sessionID := uint(b.sessionID.Load())

	stampNoteEvents := func(items []model.NoteEvent) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampCrossings := func(items []model.Crossing) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}
	stampFramePerfs := func(items []model.FramePerf) {
		for i := range items {
			items[i].SessionID = sessionID
		}
	}

	writeQueue(b.deps.DB, b.queues.NoteEvents, "note events", b.deps.Log, stampNoteEvents)
	writeQueue(b.deps.DB, b.queues.Crossings, "crossings", b.deps.Log, stampCrossings)
	writeQueue(b.deps.DB, b.queues.FramePerfs, "frame perfs", b.deps.Log, stampFramePerfs)
}

// startDBWriter starts the background goroutine that periodically drains queues into the DB.
func (b *Backend) startDBWriter() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flush()
			time.Sleep(2 * time.Second)
		}
	}()
}
