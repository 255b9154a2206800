package note

import (
	"math"

	"github.com/polygonome/engine/pkg/core"
)

// Create builds the musical event for one crossing. Frequency is the
// crossing position's distance from the origin; duration and velocity come
// from the layer's deterministic parameter modes seeded solely by the
// point index.
func Create(trigger core.TriggerData, layer core.LayerConfig) core.NoteEvent {
	frequency := math.Hypot(trigger.Position.X, trigger.Position.Y)

	var name string
	if layer.UseEqualTemperament {
		frequency = QuantizeFrequency(frequency, layer.ReferenceFrequency)
		name = NoteName(frequency)
	}

	pan := 0.0
	if trigger.HasAngle {
		pan = math.Sin(math.Mod(trigger.Angle, 2*math.Pi))
	}

	return core.NoteEvent{
		Frequency:   frequency,
		Duration:    Value(layer.DurationSpec(), trigger.PointIndex),
		Velocity:    Value(layer.VelocitySpec(), trigger.PointIndex),
		Pan:         pan,
		PointIndex:  trigger.PointIndex,
		Coordinates: trigger.Position,
		Time:        trigger.Time,
		NoteName:    name,
		ParameterInfo: core.ParameterInfo{
			LayerID:        layer.LayerID,
			PointIndex:     trigger.PointIndex,
			DurationMode:   layer.DurationMode,
			DurationModulo: layer.DurationModulo,
			VelocityMode:   layer.VelocityMode,
			VelocityModulo: layer.VelocityModulo,
			Quantized:      layer.UseEqualTemperament,
		},
	}
}
