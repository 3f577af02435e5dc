package core

import (
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// OrbitSpacedSpacing rotates sensing duty through the constellation: a
// crossing only triggers when it belongs to the satellite currently up in
// the rotation, and only that one satellite fires. The rotation index
// advances by one on every trigger, wrapping across the constellation.
type OrbitSpacedSpacing struct {
	rotationIndex int
}

// NewOrbitSpacedSpacing constructs an orbit-spaced strategy starting at
// rotation index 0.
func NewOrbitSpacedSpacing() *OrbitSpacedSpacing { return &OrbitSpacedSpacing{} }

func (s *OrbitSpacedSpacing) Name() string { return "orbit-spaced" }

// ShouldTrigger requires both a threshold crossing and that the crossing
// belongs to the satellite currently up in the rotation.
func (s *OrbitSpacedSpacing) ShouldTrigger(
	currPosn, prevSensePosn Vec3,
	prevSenseTime, now time.Time,
	distanceKm, thresholdKm float64,
	leadSatID uint32,
	satellites []*model.Satellite,
) bool {
	if distanceKm < thresholdKm || len(satellites) == 0 {
		return false
	}
	dutySat := satellites[s.rotationIndex%len(satellites)]
	return dutySat.ID == leadSatID
}

// Execute fires only the satellite currently up in the rotation, then
// advances the rotation index.
func (s *OrbitSpacedSpacing) Execute(
	satellites []*model.Satellite,
	sensors map[uint32]*Sensor,
	thresholdKm map[uint32]float64,
	threshCoeff float64,
	now time.Time,
	log Log,
) {
	if len(satellites) == 0 {
		return
	}
	dutySat := satellites[s.rotationIndex%len(satellites)]
	triggerOne(dutySat, sensors, thresholdKm, threshCoeff, now, log)
	s.rotationIndex++
}

// UpdateFrameState moves the given satellite's capture reference point to
// its current position. The engine calls it whenever ShouldTrigger
// rejected that satellite, whether it had not crossed its threshold or
// was not up in the rotation.
func (s *OrbitSpacedSpacing) UpdateFrameState(leadSatID uint32, currPosn Vec3, now time.Time, sensors map[uint32]*Sensor) {
	if sensor, ok := sensors[leadSatID]; ok {
		sensor.SetPrevSensePosnDateTime(currPosn, now)
	}
}
