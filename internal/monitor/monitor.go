// Package monitor runs a periodic status service that snapshots engine
// health (tracked points, scheduler queue, cache hit rate) and ships the
// snapshots to storage and InfluxDB.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/polygonome/engine/internal/engine"
	"github.com/polygonome/engine/internal/influx"
	"github.com/polygonome/engine/internal/logging"
	"github.com/polygonome/engine/internal/sequencer"
	"github.com/polygonome/engine/internal/storage"
	"github.com/polygonome/engine/pkg/core"
)

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	LogManager  *logging.Manager
	Engine      *engine.Engine
	Sequencer   *sequencer.Scheduler
	Storage     storage.Backend
	Influx      *influx.Manager
	SessionName string
	StatusDir   string
	Interval    time.Duration
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	lastFrame time.Duration
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RecordFrameTime stores the duration of the most recent frame so the next
// snapshot can report it. Called by the frame loop.
func (s *Service) RecordFrameTime(d time.Duration) {
	s.mu.Lock()
	s.lastFrame = d
	s.mu.Unlock()
}

// Snapshot builds the current status snapshot
func (s *Service) Snapshot() core.FramePerf {
	s.mu.RLock()
	frame := s.lastFrame
	s.mu.RUnlock()

	perf := core.FramePerf{
		Time:        time.Now(),
		FrameTimeMs: float32(frame.Seconds() * 1000),
	}
	if s.deps.Engine != nil {
		perf.TrackedPoints = s.deps.Engine.TrackedPoints()
	}
	if s.deps.Sequencer != nil {
		perf.QueueLength = s.deps.Sequencer.Len()
		perf.CacheHitRate = float32(s.deps.Sequencer.CacheHitRate())
	}
	return perf
}

// publish records one snapshot to storage and InfluxDB.
func (s *Service) publish(perf *core.FramePerf) {
	logger := s.deps.LogManager.Logger()

	if s.deps.Storage != nil {
		if err := s.deps.Storage.RecordFramePerf(perf); err != nil {
			logger.Error("Error writing perf snapshot to storage", "error", err)
		}
	}
	if s.deps.Influx != nil {
		point := influx.FramePerfPoint(s.deps.SessionName, perf)
		if err := s.deps.Influx.WritePoint(context.Background(), influx.BucketPerformance, point); err != nil {
			logger.Error("Error writing perf snapshot to InfluxDB", "error", err)
		}
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		var statusFile *os.File
		if s.deps.StatusDir != "" {
			var err error
			statusFile, err = os.Create(filepath.Join(s.deps.StatusDir, "status.txt"))
			if err != nil {
				logger.Error("Error creating status file", "error", err)
			} else {
				defer statusFile.Close()
			}
		}

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				perf := s.Snapshot()
				s.publish(&perf)

				if statusFile != nil {
					statusStr, err := json.MarshalIndent(perf, "", "  ")
					if err != nil {
						statusStr = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(append(statusStr, '\n'))
				}
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
