package core

import (
	"testing"
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// driftMotion advances a satellite's X coordinate by a fixed amount every
// call, enough to cross any reasonable threshold after a few steps.
type driftMotion struct {
	perStepKm float64
}

func (m driftMotion) UpdatePosition(simTime time.Time, s *model.Satellite) {
	s.ECIPosn[0] += m.perStepKm
}

// allVisibleOracle reports every satellite visible to every ground
// station, in ascending ID order.
type allVisibleOracle struct{}

func (allVisibleOracle) VisibleSatellites(_ *model.GroundStation, satellites []*model.Satellite, _ time.Time) []uint32 {
	ids := make([]uint32, len(satellites))
	for i, sat := range satellites {
		ids[i] = sat.ID
	}
	return ids
}

func newTestEngine(t *testing.T, spacing SpacingStrategy, policy LinkPolicy) (*Engine, []*model.Satellite, []*model.GroundStation) {
	t.Helper()
	sats := []*model.Satellite{{ID: 1}, {ID: 2}, {ID: 3}}
	gnds := []*model.GroundStation{{ID: 100}}

	sensors := make(map[uint32]*Sensor, len(sats))
	motions := make(map[uint32]MotionModel, len(sats))
	for _, sat := range sats {
		sensors[sat.ID] = NewSensor(sat.ID, mb, 0, Vec3{}, time.Unix(0, 0))
		motions[sat.ID] = driftMotion{perStepKm: 1000}
	}

	// A zero link rate keeps the downlink from draining the connected
	// satellite, so the tests can read captures straight off BitsBuffered.
	cfg := EngineConfig{ThreshCoeff: 0, LinkRateBitsPerSec: 0, StepDuration: time.Second}
	eng, err := NewEngine(cfg, sats, gnds, motions, sensors, spacing, policy, allVisibleOracle{}, NopLog{}, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng, sats, gnds
}

// TestEngine_BentPipeTriggersEveryStep uses a zero threshold coefficient
// (threshold always 0) so every step's nonzero drift counts as a
// crossing, and checks that bent-pipe buffers grow every step.
func TestEngine_BentPipeTriggersEveryStep(t *testing.T) {
	eng, sats, _ := newTestEngine(t, NewBentPipeSpacing(), NewStickyLinkPolicy())

	now := time.Unix(0, 0)
	for i := 0; i < 3; i++ {
		now = now.Add(time.Second)
		eng.Step(now)
	}

	for _, sat := range sats {
		if eng.sensors[sat.ID].BitsBuffered() == 0 {
			t.Fatalf("satellite %d buffered nothing after 3 triggering steps", sat.ID)
		}
	}
}

// TestEngine_ConnectsGroundStationToVisibleSatellite exercises the full
// per-step pipeline end to end: a ground station with every satellite
// visible must end up connected to exactly one of them.
func TestEngine_ConnectsGroundStationToVisibleSatellite(t *testing.T) {
	eng, _, gnds := newTestEngine(t, NewBentPipeSpacing(), NewStickyLinkPolicy())

	eng.Step(time.Unix(1, 0))

	if gnds[0].CurrentSatID == nil {
		t.Fatalf("expected ground station to connect to a visible satellite")
	}
}

// TestEngine_AtMostOneStationPerSatellite is P4 exercised through the
// engine: two ground stations, both seeing every satellite, must never
// both land on the same one in a single step.
func TestEngine_AtMostOneStationPerSatellite(t *testing.T) {
	eng, _, _ := newTestEngine(t, NewBentPipeSpacing(), NewStickyLinkPolicy())
	eng.groundStations = append(eng.groundStations, &model.GroundStation{ID: 200})

	eng.Step(time.Unix(1, 0))

	seen := map[uint32]bool{}
	for _, gnd := range eng.groundStations {
		if gnd.CurrentSatID == nil {
			continue
		}
		if seen[*gnd.CurrentSatID] {
			t.Fatalf("satellite %d claimed by two ground stations in the same step", *gnd.CurrentSatID)
		}
		seen[*gnd.CurrentSatID] = true
	}
}

// TestEngine_FrameSpacedCadenceMatchesConstellationSize checks that
// NewEngine fixes a frame-spaced strategy's frame count to the
// constellation size, per spec §4.2's "N = constellation size".
func TestEngine_FrameSpacedCadenceMatchesConstellationSize(t *testing.T) {
	frame := NewFrameSpacedSpacing(1) // deliberately wrong; engine must fix it
	eng, sats, _ := newTestEngine(t, frame, NewStickyLinkPolicy())

	if frame.FrameCount != len(sats) {
		t.Fatalf("FrameCount = %d, want %d (constellation size)", frame.FrameCount, len(sats))
	}

	now := time.Unix(0, 0)
	for i := 0; i < len(sats)-1; i++ {
		now = now.Add(time.Second)
		eng.Step(now)
		for _, sat := range sats {
			if eng.sensors[sat.ID].BitsBuffered() != 0 {
				t.Fatalf("step %d: satellite %d should not have captured before the full frame count", i, sat.ID)
			}
		}
	}

	now = now.Add(time.Second)
	eng.Step(now)
	for _, sat := range sats {
		if eng.sensors[sat.ID].BitsBuffered() == 0 {
			t.Fatalf("satellite %d should have captured once the frame count was reached", sat.ID)
		}
	}
}
