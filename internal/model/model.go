package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&Layer{},
	&NoteEvent{},
	&Crossing{},
	&FramePerf{},
}

// Session is one engine recording session.
type Session struct {
	gorm.Model
	Name       string    `json:"name" gorm:"size:127"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Resolution float64   `json:"resolution"`
	MaxMemory  int       `json:"maxMemory"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Layer is one polygon layer's configuration snapshot, with its generated
// outline stored as WKT text (SQLite has no spatial awareness, so text
// keeps the geometry portable across both backends).
type Layer struct {
	gorm.Model
	SessionID  uint           `json:"sessionId" gorm:"index:idx_layer_session_id"`
	Session    Session        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	LayerID    string         `json:"layerId" gorm:"size:127;index:idx_layer_layer_id"`
	Segments   int            `json:"segments"`
	Copies     int            `json:"copies"`
	OutlineWKT string         `json:"outlineWkt"`
	Config     datatypes.JSON `json:"config"`
}

func (*Layer) TableName() string {
	return "layers"
}

// NoteEvent is one dispatched musical event.
type NoteEvent struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	SessionID     uint           `json:"sessionId" gorm:"index:idx_noteevent_session_id"`
	Session       Session        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	LayerID       string         `json:"layerId" gorm:"size:127"`
	Time          float64        `json:"time" gorm:"index:idx_noteevent_time"`
	Frequency     float64        `json:"frequency"`
	Duration      float64        `json:"duration"`
	Velocity      float64        `json:"velocity"`
	Pan           float64        `json:"pan"`
	PointIndex    int            `json:"pointIndex"`
	NoteName      string         `json:"noteName" gorm:"size:15"`
	PosX          float64        `json:"posX"`
	PosY          float64        `json:"posY"`
	PosZ          float64        `json:"posZ"`
	ParameterInfo datatypes.JSON `json:"parameterInfo"`
}

func (*NoteEvent) TableName() string {
	return "note_events"
}

// Crossing is one raw axis-crossing detection, kept separately from notes
// so detection accuracy can be audited without the musical mapping.
type Crossing struct {
	ID             uint    `json:"id" gorm:"primarykey"`
	SessionID      uint    `json:"sessionId" gorm:"index:idx_crossing_session_id"`
	Session        Session `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	PointID        string  `json:"pointId" gorm:"size:127;index:idx_crossing_point_id"`
	ExactTime      float64 `json:"exactTime" gorm:"index:idx_crossing_exact_time"`
	CrossingFactor float64 `json:"crossingFactor"`
	PosX           float64 `json:"posX"`
	PosY           float64 `json:"posY"`
	PosZ           float64 `json:"posZ"`
}

func (*Crossing) TableName() string {
	return "crossings"
}

// FramePerf is the model for engine performance metrics
type FramePerf struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	SessionID     uint      `json:"sessionId" gorm:"index:idx_frameperf_session_id"`
	Session       Session   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Time          time.Time `json:"time" gorm:"index:idx_frameperf_time"`
	FrameTimeMs   float32   `json:"frameTimeMs"`
	TrackedPoints int       `json:"trackedPoints"`
	QueueLength   int       `json:"queueLength"`
	CacheHitRate  float32   `json:"cacheHitRate"`
}

func (*FramePerf) TableName() string {
	return "frame_perfs"
}
