package core

import (
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// DefaultFrameCount is the number of threshold crossings frame-spaced
// accumulates before it actually fires a capture, when none is supplied.
const DefaultFrameCount = 4

// FrameSpacedSpacing batches threshold crossings: the lead satellite's
// distance is tracked every step, but the constellation only senses once
// every FrameCount crossings, resetting the counter on the capture step.
type FrameSpacedSpacing struct {
	FrameCount int

	frames int
}

// NewFrameSpacedSpacing constructs a frame-spaced strategy that fires
// every frameCount crossings. frameCount <= 0 falls back to
// DefaultFrameCount.
func NewFrameSpacedSpacing(frameCount int) *FrameSpacedSpacing {
	if frameCount <= 0 {
		frameCount = DefaultFrameCount
	}
	return &FrameSpacedSpacing{FrameCount: frameCount}
}

func (s *FrameSpacedSpacing) Name() string { return "frame-spaced" }

func (s *FrameSpacedSpacing) ShouldTrigger(
	currPosn, prevSensePosn Vec3,
	prevSenseTime, now time.Time,
	distanceKm, thresholdKm float64,
	leadSatID uint32,
	satellites []*model.Satellite,
) bool {
	return distanceKm >= thresholdKm
}

// Execute increments the frame counter on every crossing, but only fires
// the whole constellation and resets the counter once it reaches
// FrameCount.
func (s *FrameSpacedSpacing) Execute(
	satellites []*model.Satellite,
	sensors map[uint32]*Sensor,
	thresholdKm map[uint32]float64,
	threshCoeff float64,
	now time.Time,
	log Log,
) {
	s.frames++
	if s.frames < s.FrameCount {
		return
	}
	s.frames = 0
	triggerAll(satellites, sensors, thresholdKm, threshCoeff, now, log)
}

// UpdateFrameState moves the given satellite's capture reference point to
// its current position. The engine calls it for a satellite whose
// ShouldTrigger returned false; a crossing that Execute counts without
// firing leaves the reference point where it was.
func (s *FrameSpacedSpacing) UpdateFrameState(leadSatID uint32, currPosn Vec3, now time.Time, sensors map[uint32]*Sensor) {
	if sensor, ok := sensors[leadSatID]; ok {
		sensor.SetPrevSensePosnDateTime(currPosn, now)
	}
}
