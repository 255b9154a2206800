// pkg/core/note.go
package core

// Parameter mode names for duration and velocity generation.
const (
	ModeModulo        = "modulo"
	ModeRandom        = "random"
	ModeInterpolation = "interpolation"
)

// ParamSpec is one parameter-generation quintuple. Duration and velocity
// each carry their own independent spec.
type ParamSpec struct {
	Mode   string  `json:"mode"`
	Modulo int     `json:"modulo"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Phase  float64 `json:"phase"`
}

// LayerConfig is the read-only slice of layer/global state the core needs
// to turn a crossing into a note. It is supplied by the caller and never
// mutated here.
type LayerConfig struct {
	LayerID string `json:"layerId"`

	DurationMode   string  `json:"durationMode"`
	DurationModulo int     `json:"durationModulo"`
	MinDuration    float64 `json:"minDuration"`
	MaxDuration    float64 `json:"maxDuration"`
	DurationPhase  float64 `json:"durationPhase"`

	VelocityMode   string  `json:"velocityMode"`
	VelocityModulo int     `json:"velocityModulo"`
	MinVelocity    float64 `json:"minVelocity"`
	MaxVelocity    float64 `json:"maxVelocity"`
	VelocityPhase  float64 `json:"velocityPhase"`

	UseEqualTemperament bool    `json:"useEqualTemperament"`
	ReferenceFrequency  float64 `json:"referenceFrequency"`

	Segments int `json:"segments"`
	Copies   int `json:"copies"`
}

// DurationSpec returns the duration quintuple.
func (c LayerConfig) DurationSpec() ParamSpec {
	return ParamSpec{
		Mode:   c.DurationMode,
		Modulo: c.DurationModulo,
		Min:    c.MinDuration,
		Max:    c.MaxDuration,
		Phase:  c.DurationPhase,
	}
}

// VelocitySpec returns the velocity quintuple.
func (c LayerConfig) VelocitySpec() ParamSpec {
	return ParamSpec{
		Mode:   c.VelocityMode,
		Modulo: c.VelocityModulo,
		Min:    c.MinVelocity,
		Max:    c.MaxVelocity,
		Phase:  c.VelocityPhase,
	}
}

// TriggerData carries a detected crossing into note creation.
// Angle is optional; HasAngle gates dynamic panning.
type TriggerData struct {
	PointID    string     `json:"pointId"`
	PointIndex int        `json:"pointIndex"`
	Position   Position3D `json:"position"`
	Time       float64    `json:"time"`
	Angle      float64    `json:"angle"`
	HasAngle   bool       `json:"hasAngle"`
}

// ParameterInfo records how a note's parameters were derived so downstream
// consumers can display or debug without recomputing.
type ParameterInfo struct {
	LayerID        string `json:"layerId"`
	PointIndex     int    `json:"pointIndex"`
	DurationMode   string `json:"durationMode"`
	DurationModulo int    `json:"durationModulo"`
	VelocityMode   string `json:"velocityMode"`
	VelocityModulo int    `json:"velocityModulo"`
	Quantized      bool   `json:"quantized"`
}

// NoteEvent is the immutable musical event produced for one crossing.
// It is handed to dispatch and not retained by the core.
type NoteEvent struct {
	Frequency     float64       `json:"frequency"`
	Duration      float64       `json:"duration"`
	Velocity      float64       `json:"velocity"`
	Pan           float64       `json:"pan"`
	PointIndex    int           `json:"pointIndex"`
	Coordinates   Position3D    `json:"coordinates"`
	Time          float64       `json:"time"`
	NoteName      string        `json:"noteName,omitempty"`
	ParameterInfo ParameterInfo `json:"parameterInfo"`
}
