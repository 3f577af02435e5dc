package core

import (
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// BentPipeSpacing is the default, "close-spaced" strategy: whenever a
// satellite has moved thresholdKm from its last capture, the whole
// constellation senses at once. There is no cadence — each crossing is
// its own trigger.
type BentPipeSpacing struct{}

// NewBentPipeSpacing constructs the default spacing strategy.
func NewBentPipeSpacing() *BentPipeSpacing { return &BentPipeSpacing{} }

func (s *BentPipeSpacing) Name() string { return "bent-pipe" }

func (s *BentPipeSpacing) ShouldTrigger(
	currPosn, prevSensePosn Vec3,
	prevSenseTime, now time.Time,
	distanceKm, thresholdKm float64,
	leadSatID uint32,
	satellites []*model.Satellite,
) bool {
	return distanceKm >= thresholdKm
}

// Execute fires every satellite's sensor and refreshes every threshold,
// regardless of which satellite's crossing triggered the call: the
// reference behavior is that a single crossing opens a capture window for
// the whole constellation.
func (s *BentPipeSpacing) Execute(
	satellites []*model.Satellite,
	sensors map[uint32]*Sensor,
	thresholdKm map[uint32]float64,
	threshCoeff float64,
	now time.Time,
	log Log,
) {
	triggerAll(satellites, sensors, thresholdKm, threshCoeff, now, log)
}

// UpdateFrameState is a no-op: bent-pipe has no frame cadence or lead
// satellite to advance between triggers.
func (s *BentPipeSpacing) UpdateFrameState(leadSatID uint32, currPosn Vec3, now time.Time, sensors map[uint32]*Sensor) {
}
