package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/polygonome/engine/internal/config"
	"github.com/polygonome/engine/internal/dispatcher"
	"github.com/polygonome/engine/internal/engine"
	"github.com/polygonome/engine/internal/geometry"
	"github.com/polygonome/engine/internal/influx"
	"github.com/polygonome/engine/internal/monitor"
	"github.com/polygonome/engine/internal/note"
	"github.com/polygonome/engine/internal/sequencer"
	"github.com/polygonome/engine/internal/storage"
	"github.com/polygonome/engine/pkg/core"

	"github.com/spf13/viper"
)

const framesPerSecond = 60

// layerFromConfig builds the layer parameter config from viper keys.
func layerFromConfig() core.LayerConfig {
	return core.LayerConfig{
		LayerID:             "layer1",
		DurationMode:        viper.GetString("layer.durationMode"),
		DurationModulo:      viper.GetInt("layer.durationModulo"),
		MinDuration:         viper.GetFloat64("layer.minDuration"),
		MaxDuration:         viper.GetFloat64("layer.maxDuration"),
		VelocityMode:        viper.GetString("layer.velocityMode"),
		VelocityModulo:      viper.GetInt("layer.velocityModulo"),
		MinVelocity:         viper.GetFloat64("layer.minVelocity"),
		MaxVelocity:         viper.GetFloat64("layer.maxVelocity"),
		UseEqualTemperament: viper.GetBool("layer.useEqualTemperament"),
		ReferenceFrequency:  viper.GetFloat64("layer.referenceFrequency"),
		Segments:            viper.GetInt("layer.segments"),
		Copies:              viper.GetInt("layer.copies"),
	}
}

// play runs a rotating layer against the trigger engine for the given
// number of simulated seconds, dispatching every generated note.
func play(seconds int) error {
	logger := LogManager.Logger()

	// Build storage backend
	backend, err := storage.NewBackend(config.Storage(), LogManager)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to init storage backend: %w", err)
	}
	defer backend.Close()

	session := &core.SessionInfo{
		Name:       fmt.Sprintf("play_%s", SessionStartTime.Format("20060102_150405")),
		StartTime:  SessionStartTime,
		Resolution: viper.GetFloat64("engine.resolution"),
		MaxMemory:  viper.GetInt("engine.maxMemory"),
	}
	if err := backend.StartSession(session); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	// Build layer
	layer := layerFromConfig()
	params := geometry.Params{
		Segments:     layer.Segments,
		Copies:       layer.Copies,
		Radius:       viper.GetFloat64("layer.radius"),
		CopyScale:    0.75,
		CopyRotation: math.Pi / float64(layer.Copies*2),
	}
	if err := backend.AddLayer(&core.LayerInfo{
		Config:     layer,
		OutlineWKT: params.LayerOutlineWKT(0),
	}); err != nil {
		return fmt.Errorf("failed to register layer: %w", err)
	}

	// Build engine, sequencer, dispatcher
	eng := engine.New(engine.Config{
		Resolution: viper.GetFloat64("engine.resolution"),
		MaxMemory:  viper.GetInt("engine.maxMemory"),
	})
	seq, err := sequencer.New(sequencer.Config{
		LookAhead: viper.GetFloat64("sequencer.lookAhead"),
		Precision: viper.GetFloat64("sequencer.precision"),
		MaxQueue:  viper.GetInt("sequencer.maxQueue"),
	})
	if err != nil {
		return fmt.Errorf("failed to create sequencer: %w", err)
	}
	disp, err := buildDispatcher(backend, session.Name)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	// Start monitor
	mon := monitor.NewService(monitor.Dependencies{
		LogManager:  LogManager,
		Engine:      eng,
		Sequencer:   seq,
		Storage:     backend,
		Influx:      InfluxManager,
		SessionName: session.Name,
		StatusDir:   viper.GetString("monitor.statusDir"),
		Interval:    time.Second,
	})
	mon.Start()
	defer mon.Stop()

	logger.Info("Playing",
		"seconds", seconds,
		"segments", layer.Segments,
		"copies", layer.Copies,
	)

	// quarter turn per second
	const angularVelocity = math.Pi / 2

	totalFrames := seconds * framesPerSecond
	notesPlayed := 0

	for frame := 0; frame <= totalFrames; frame++ {
		frameStart := time.Now()
		t := float64(frame) / framesPerSecond
		rotation := angularVelocity * t

		// Regular vertices
		for c := 0; c < layer.Copies; c++ {
			for v := 0; v < layer.Segments; v++ {
				id := note.VertexID(layer.LayerID, c, v)
				index := note.VertexPointIndex(c, layer.Segments, v)
				pos := params.VertexPosition(c, v, rotation)
				notesPlayed += step(eng, seq, disp, backend, layer, id, index, pos, t, rotation)
			}
		}

		// Copy intersections
		for n, pos := range params.LayerIntersections(rotation) {
			id := note.IntersectionID(layer.LayerID, 0, n)
			index := note.IntersectionPointIndex(layer.Copies, layer.Segments, n)
			notesPlayed += step(eng, seq, disp, backend, layer, id, index, pos, t, rotation)
		}

		// Drain due notes
		for _, sn := range seq.Due(t) {
			if err := disp.Dispatch(sn.Note); err != nil {
				logger.Error("Dispatch failed", "error", err)
			}
			notesPlayed++
		}

		mon.RecordFrameTime(time.Since(frameStart))
	}

	if err := backend.EndSession(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	if exp, ok := backend.(storage.Exportable); ok && exp.GetExportedFilePath() != "" {
		logger.Info("Session exported", "path", exp.GetExportedFilePath())
	}
	logger.Info("Play finished", "notes", notesPlayed, "trackedPoints", eng.TrackedPoints())
	return nil
}

// step advances one point by one frame: record, detect, and on a crossing
// store the detection and schedule the note. Returns the number of notes
// dispatched immediately (past the look-ahead path).
func step(
	eng *engine.Engine,
	seq *sequencer.Scheduler,
	disp *dispatcher.Dispatcher,
	backend storage.Backend,
	layer core.LayerConfig,
	id string,
	index int,
	pos core.Position3D,
	t, rotation float64,
) int {
	logger := LogManager.Logger()

	eng.RecordPosition(id, pos, t)
	result := eng.DetectCrossing(id)
	if !result.HasCrossed {
		return 0
	}

	crossing := &core.CrossingEvent{PointID: id, Result: result}
	if err := backend.RecordCrossing(crossing); err != nil {
		logger.Error("Failed to record crossing", "pointId", id, "error", err)
	}
	if InfluxManager != nil {
		point := influx.CrossingPoint("play", crossing)
		InfluxManager.WritePoint(context.Background(), influx.BucketCrossings, point)
	}

	// Warm the parameter cache before note creation
	seq.Params(layer, index)

	noteEvent := eng.CreateNote(core.TriggerData{
		PointID:    id,
		PointIndex: index,
		Position:   result.Position,
		Time:       result.ExactTime,
		Angle:      rotation,
		HasAngle:   true,
	}, layer)

	err := seq.Schedule(noteEvent, result.ExactTime, t)
	if err == nil {
		return 0
	}

	// Queue full or outside the window: play immediately rather than drop
	if dispErr := disp.Dispatch(noteEvent); dispErr != nil {
		logger.Error("Dispatch failed", "pointId", id, "error", dispErr)
	}
	return 1
}
