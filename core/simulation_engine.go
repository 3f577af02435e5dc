package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// MetricsSink is the subset of internal/observability.SimCollector the
// engine drives. Kept as a small interface here so core never imports
// the observability package; cmd/bent_pipe supplies the concrete
// collector, and tests can supply nothing at all.
type MetricsSink interface {
	ObserveSensor(satID uint32, bitsBuffered, totalBitsLost uint64)
	RecordTrigger()
	RecordConnectionSwitch(gndID uint32)
	RecordStep()
}

// EngineConfig bundles the knobs a simulation run needs beyond the
// satellite/ground-station/sensor population itself.
type EngineConfig struct {
	ThreshCoeff        float64
	LinkRateBitsPerSec float64
	StepDuration       time.Duration
}

// Engine is the per-step driver described in spec §5: it owns every
// satellite, ground station, and sensor, and advances them in the fixed
// dependency order propagate -> spacing -> sensor update -> visibility ->
// per-ground-station policy -> downlink drain -> log emit. It is the
// concrete home for SpacingStrategy and LinkPolicy: the two pluggable
// decision layers the rest of this package exists to support.
type Engine struct {
	cfg EngineConfig

	satellites     []*model.Satellite
	groundStations []*model.GroundStation

	motionModels map[uint32]MotionModel
	sensors      map[uint32]*Sensor
	thresholdKm  map[uint32]float64

	spacing    SpacingStrategy
	linkPolicy LinkPolicy
	oracle     VisibilityOracle

	log     Log
	metrics MetricsSink

	step int
}

// NewEngine wires together one simulation run. motionModels must have one
// entry per satellite ID; sensors must likewise cover every satellite.
// Every satellite is evaluated as a candidate lead, in constellation
// order (see runSpacing).
func NewEngine(
	cfg EngineConfig,
	satellites []*model.Satellite,
	groundStations []*model.GroundStation,
	motionModels map[uint32]MotionModel,
	sensors map[uint32]*Sensor,
	spacing SpacingStrategy,
	linkPolicy LinkPolicy,
	oracle VisibilityOracle,
	log Log,
	metrics MetricsSink,
) (*Engine, error) {
	if len(satellites) == 0 {
		return nil, fmt.Errorf("simulation_engine: at least one satellite is required")
	}
	if log == nil {
		log = NopLog{}
	}

	thresholdKm := make(map[uint32]float64, len(satellites))
	for _, sat := range satellites {
		if _, ok := sensors[sat.ID]; !ok {
			return nil, fmt.Errorf("simulation_engine: no sensor registered for satellite %d", sat.ID)
		}
		thresholdKm[sat.ID] = cfg.ThreshCoeff * AltitudeKm(FromArray(sat.ECIPosn))
	}

	e := &Engine{
		cfg:            cfg,
		satellites:     satellites,
		groundStations: groundStations,
		motionModels:   motionModels,
		sensors:        sensors,
		thresholdKm:    thresholdKm,
		spacing:        spacing,
		linkPolicy:     linkPolicy,
		oracle:         oracle,
		log:            log,
		metrics:        metrics,
	}

	// frame-spaced's cadence is "N = constellation size" per spec §4.2;
	// the factory builds it without knowing N, so the engine that does
	// know it fixes the count up before step 0.
	if frame, ok := spacing.(*FrameSpacedSpacing); ok {
		frame.FrameCount = len(satellites)
	}
	// close-orbit-spaced's cluster rephasing is a one-shot mutation of
	// satellite clocks that must happen before the first step, per the
	// Design Notes' explicit Initialize call.
	if closeOrbit, ok := spacing.(*CloseOrbitSpacedSpacing); ok {
		closeOrbit.Initialize(satellites)
	}

	return e, nil
}

// Step advances the simulation by exactly one tick, ending at now. The
// caller (the run loop in cmd/bent_pipe) owns the clock; what Step does
// depends only on the engine's current state plus now.
func (e *Engine) Step(now time.Time) {
	e.step++

	e.propagate(now)
	e.runSpacing(now)
	e.updateSensors(now)

	visible := e.computeVisibility(now)
	connections := e.runLinkPolicies(visible, now)
	e.drainDownlinks(connections, now)

	if e.metrics != nil {
		e.metrics.RecordStep()
		for _, sat := range e.satellites {
			sensor := e.sensors[sat.ID]
			e.metrics.ObserveSensor(sat.ID, sensor.BitsBuffered(), sensor.TotalBitsLost())
		}
	}
}

// propagate refreshes every satellite's ECI position for this step's
// local time, honoring the per-satellite clock offset close-orbit-spaced
// bakes in at initialization.
func (e *Engine) propagate(now time.Time) {
	for _, sat := range e.satellites {
		motionModel := e.motionModels[sat.ID]
		if motionModel == nil {
			continue
		}
		motionModel.UpdatePosition(sat.LocalTime(now), sat)
	}
}

// runSpacing evaluates every satellite's own threshold crossing in
// constellation order and executes the first one the strategy accepts.
// Spacing strategies other than orbit-spaced ignore the candidate
// satellite's identity and simply check distance-vs-threshold, so in
// practice any satellite's crossing opens the capture window; orbit-
// spaced additionally requires the crossing to belong to the satellite
// currently up for duty. Once one satellite's crossing fires the step's
// capture decision, there is nothing left to evaluate this step.
func (e *Engine) runSpacing(now time.Time) {
	for _, sat := range e.satellites {
		sensor := e.sensors[sat.ID]
		currPosn := FromArray(sat.ECIPosn)
		prevPosn := sensor.PrevSensePosn()
		distanceKm := currPosn.DistanceTo(prevPosn)
		thresholdKm := e.thresholdKm[sat.ID]

		if e.spacing.ShouldTrigger(currPosn, prevPosn, sensor.PrevSenseDateTime(), now, distanceKm, thresholdKm, sat.ID, e.satellites) {
			e.spacing.Execute(e.satellites, e.sensors, e.thresholdKm, e.cfg.ThreshCoeff, now, e.log)
			fired := true
			if frame, ok := e.spacing.(*FrameSpacedSpacing); ok && frame.frames != 0 {
				// frame-spaced counted this crossing without firing a capture.
				fired = false
			}
			if fired && e.metrics != nil {
				e.metrics.RecordTrigger()
			}
			return
		}
		e.spacing.UpdateFrameState(sat.ID, currPosn, now, e.sensors)
	}
}

func (e *Engine) updateSensors(now time.Time) {
	for _, sat := range e.satellites {
		e.sensors[sat.ID].Update(now, FromArray(sat.ECIPosn), e.log)
	}
}

func (e *Engine) computeVisibility(now time.Time) map[uint32][]uint32 {
	visible := make(map[uint32][]uint32, len(e.groundStations))
	for _, gnd := range e.groundStations {
		visible[gnd.ID] = e.oracle.VisibleSatellites(gnd, e.satellites, now)
	}
	return visible
}

// runLinkPolicies lets each ground station's policy pick a satellite in
// a stable order, updating the shared "occupied" view between calls so
// no satellite can be claimed by two stations in the same step (P4).
func (e *Engine) runLinkPolicies(visible map[uint32][]uint32, now time.Time) map[uint32]uint32 {
	occupied := make(map[uint32]bool, len(e.groundStations))
	connections := make(map[uint32]uint32, len(e.groundStations))

	for _, gnd := range e.groundStations {
		decision := e.linkPolicy.Decide(LinkDecision{
			VisibleSatIDs: visible[gnd.ID],
			Sensors:       e.sensors,
			Occupied:      occupied,
			Now:           now,
			GndID:         gnd.ID,
			CurrentSatID:  gnd.CurrentSatID,
			Step:          e.step,
		})

		switched := !sameSatID(decision, gnd.CurrentSatID)
		gnd.CurrentSatID = decision
		if decision != nil {
			occupied[*decision] = true
			connections[gnd.ID] = *decision
		}
		if switched && e.metrics != nil {
			e.metrics.RecordConnectionSwitch(gnd.ID)
		}
	}
	return connections
}

func (e *Engine) drainDownlinks(connections map[uint32]uint32, now time.Time) {
	gndIDs := make([]uint32, 0, len(e.groundStations))
	for _, gnd := range e.groundStations {
		gndIDs = append(gndIDs, gnd.ID)
	}
	sort.Slice(gndIDs, func(i, j int) bool { return gndIDs[i] < gndIDs[j] })

	DrainConnections(connections, gndIDs, e.sensors, e.cfg.LinkRateBitsPerSec, e.cfg.StepDuration, now, e.log)

	for _, sat := range e.satellites {
		sensor := e.sensors[sat.ID]
		e.log.Meas(now, fmt.Sprintf("bits-buffered-sat-%d", sat.ID), float64(sensor.BitsBuffered()))
		e.log.Meas(now, fmt.Sprintf("bits-lost-sat-%d", sat.ID), float64(sensor.TotalBitsLost()))
	}
}

func sameSatID(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
