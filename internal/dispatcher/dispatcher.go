// Package dispatcher fans detected note events out to registered
// consumers (audio, MIDI, visual, storage). Handlers form an explicit
// ordered registry of (name, priority, enabled, handler) entries,
// dispatched in ascending priority order.
package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/polygonome/engine/pkg/core"
)

// HandlerFunc consumes one note event.
type HandlerFunc func(core.NoteEvent) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

type entry struct {
	name     string
	priority int
	enabled  bool
	handler  HandlerFunc
}

// Dispatcher routes note events to registered handlers in priority order.
type Dispatcher struct {
	mu      sync.RWMutex
	entries []entry
	logger  Logger

	// OTel metrics
	queueSize  metric.Int64ObservableGauge
	dispatched metric.Int64Counter
	dropped    metric.Int64Counter
	buffers    map[string]chan core.NoteEvent
}

// New creates a Dispatcher with the given logger. Metrics come from the
// global OTel meter (no-op if not configured).
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		buffers: make(map[string]chan core.NoteEvent),
		logger:  logger,
	}

	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"trigger.queue.size",
		metric.WithDescription("Current number of note events queued per handler"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for name, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(len(buf)),
					metric.WithAttributes(attribute.String("handler", name)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.dispatched, err = m.Int64Counter(
		"trigger.notes.dispatched",
		metric.WithDescription("Total note events handed to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dispatched counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"trigger.notes.dropped",
		metric.WithDescription("Total note events dropped due to full queues"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a named handler at the given priority. Lower priorities
// run first; registration order breaks ties. Handlers start enabled.
func (d *Dispatcher) Register(name string, priority int, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(name, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(name, handler)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, entry{
		name:     name,
		priority: priority,
		enabled:  true,
		handler:  handler,
	})
	sort.SliceStable(d.entries, func(i, j int) bool {
		return d.entries[i].priority < d.entries[j].priority
	})
}

// SetEnabled toggles a handler by name. Unknown names report false.
func (d *Dispatcher) SetEnabled(name string, enabled bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.entries {
		if d.entries[i].name == name {
			d.entries[i].enabled = enabled
			return true
		}
	}
	return false
}

// HasHandler returns true if a handler is registered under the name.
func (d *Dispatcher) HasHandler(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for i := range d.entries {
		if d.entries[i].name == name {
			return true
		}
	}
	return false
}

// Dispatch hands the event to every enabled handler in priority order.
// The first handler error is returned after all handlers have run.
func (d *Dispatcher) Dispatch(e core.NoteEvent) error {
	d.mu.RLock()
	entries := make([]entry, len(d.entries))
	copy(entries, d.entries)
	d.mu.RUnlock()

	var firstErr error
	for _, ent := range entries {
		if !ent.enabled {
			continue
		}
		d.dispatched.Add(context.Background(), 1,
			metric.WithAttributes(attribute.String("handler", ent.name)))
		if err := ent.handler(e); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("handler %s: %w", ent.name, err)
		}
	}
	return firstErr
}

func (d *Dispatcher) withBuffer(name string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := make(chan core.NoteEvent, size)

	d.mu.Lock()
	d.buffers[name] = buffer
	d.mu.Unlock()

	nameAttr := attribute.String("handler", name)

	go func() {
		for e := range buffer {
			if err := h(e); err != nil && d.logger != nil {
				d.logger.Error("buffered handler failed", "handler", name, "error", err)
			}
		}
	}()

	if blocking {
		return func(e core.NoteEvent) error {
			buffer <- e
			return nil
		}
	}

	return func(e core.NoteEvent) error {
		select {
		case buffer <- e:
			return nil
		default:
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(nameAttr))
			return fmt.Errorf("queue full: %s", name)
		}
	}
}

func (d *Dispatcher) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(e core.NoteEvent) error {
		start := time.Now()
		d.logger.Debug("handling note", "handler", name, "pointIndex", e.PointIndex)

		err := h(e)

		if err != nil {
			d.logger.Error("note handler failed", "handler", name, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("note handled", "handler", name, "duration", time.Since(start))
		}

		return err
	}
}
