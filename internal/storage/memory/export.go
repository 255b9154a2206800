// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/polygonome/engine/pkg/core"
)

// SessionExport is the root JSON structure
type SessionExport struct {
	SessionName string           `json:"sessionName"`
	StartTime   string           `json:"startTime"`
	Resolution  float64          `json:"resolution"`
	MaxMemory   int              `json:"maxMemory"`
	Layers      []LayerJSON      `json:"layers"`
	Crossings   []CrossingJSON   `json:"crossings"`
	FramePerfs  []core.FramePerf `json:"framePerfs"`
	OrphanNotes []core.NoteEvent `json:"orphanNotes,omitempty"`
}

// LayerJSON represents a polygon layer with its note events
type LayerJSON struct {
	LayerID    string           `json:"layerId"`
	Segments   int              `json:"segments"`
	Copies     int              `json:"copies"`
	OutlineWKT string           `json:"outlineWkt"`
	Config     core.LayerConfig `json:"config"`
	Notes      []core.NoteEvent `json:"notes"`
}

// CrossingJSON flattens a crossing event for export
type CrossingJSON struct {
	PointID        string  `json:"pointId"`
	ExactTime      float64 `json:"exactTime"`
	CrossingFactor float64 `json:"crossingFactor"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Z              float64 `json:"z"`
}

// exportJSON writes the session data to a JSON file, gzipped if configured
func (b *Backend) exportJSON() error {
	if b.session == nil {
		return nil
	}

	export := b.buildExport()

	// Build filename
	sessionName := strings.ReplaceAll(b.session.Name, " ", "_")
	sessionName = strings.ReplaceAll(sessionName, ":", "_")
	timestamp := b.session.StartTime.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", sessionName, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", sessionName, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) buildExport() SessionExport {
	export := SessionExport{
		SessionName: b.session.Name,
		StartTime:   b.session.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		Resolution:  b.session.Resolution,
		MaxMemory:   b.session.MaxMemory,
		Layers:      make([]LayerJSON, 0, len(b.layers)),
		Crossings:   make([]CrossingJSON, 0, len(b.crossings)),
		FramePerfs:  b.framePerfs,
		OrphanNotes: b.orphanNotes,
	}

	// Convert layers, sorted by ID so exports are deterministic
	ids := make([]string, 0, len(b.layers))
	for id := range b.layers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		record := b.layers[id]
		layer := LayerJSON{
			LayerID:    record.Layer.Config.LayerID,
			Segments:   record.Layer.Config.Segments,
			Copies:     record.Layer.Config.Copies,
			OutlineWKT: record.Layer.OutlineWKT,
			Config:     record.Layer.Config,
			Notes:      record.Notes,
		}
		if layer.Notes == nil {
			layer.Notes = make([]core.NoteEvent, 0)
		}
		export.Layers = append(export.Layers, layer)
	}

	// Convert crossings
	for _, evt := range b.crossings {
		export.Crossings = append(export.Crossings, CrossingJSON{
			PointID:        evt.PointID,
			ExactTime:      evt.Result.ExactTime,
			CrossingFactor: evt.Result.CrossingFactor,
			X:              evt.Result.Position.X,
			Y:              evt.Result.Position.Y,
			Z:              evt.Result.Position.Z,
		})
	}

	return export
}

func (b *Backend) writeJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func (b *Backend) writeGzipJSON(path string, data SessionExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}
