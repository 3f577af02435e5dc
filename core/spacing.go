package core

import (
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// SpacingStrategy governs when the constellation captures imagery and
// which satellites sense on a given trigger. On every step the driver
// calls ShouldTrigger for each satellite in constellation order until one
// is accepted; for the accepted one, Execute fires the chosen sensors and
// refreshes their distance thresholds, and for each rejected one
// UpdateFrameState lets the strategy refresh whatever reference point it
// tracks between triggers.
type SpacingStrategy interface {
	Name() string

	ShouldTrigger(
		currPosn, prevSensePosn Vec3,
		prevSenseTime, now time.Time,
		distanceKm, thresholdKm float64,
		leadSatID uint32,
		satellites []*model.Satellite,
	) bool

	Execute(
		satellites []*model.Satellite,
		sensors map[uint32]*Sensor,
		thresholdKm map[uint32]float64,
		threshCoeff float64,
		now time.Time,
		log Log,
	)

	UpdateFrameState(
		leadSatID uint32,
		currPosn Vec3,
		now time.Time,
		sensors map[uint32]*Sensor,
	)
}

// triggerAll fires every satellite's sensor and refreshes its threshold —
// the shared "everyone senses at once" behavior of bent-pipe, frame-spaced
// (on cadence), and close-orbit-spaced.
func triggerAll(satellites []*model.Satellite, sensors map[uint32]*Sensor, thresholdKm map[uint32]float64, threshCoeff float64, now time.Time, log Log) {
	if log != nil {
		log.Evnt(now, "trigger-time")
	}
	for _, sat := range satellites {
		sensor, ok := sensors[sat.ID]
		if !ok {
			panic(fmt.Sprintf("spacing: no sensor registered for satellite %d", sat.ID))
		}
		sensor.TriggerSense()
		thresholdKm[sat.ID] = threshCoeff * AltitudeKm(FromArray(sat.ECIPosn))
	}
}

// triggerOne fires a single satellite's sensor and refreshes only its
// threshold — used by orbit-spaced's round-robin trigger.
func triggerOne(sat *model.Satellite, sensors map[uint32]*Sensor, thresholdKm map[uint32]float64, threshCoeff float64, now time.Time, log Log) {
	sensor, ok := sensors[sat.ID]
	if !ok {
		panic(fmt.Sprintf("spacing: no sensor registered for satellite %d", sat.ID))
	}
	if log != nil {
		log.Evnt(now, "trigger-time")
	}
	sensor.TriggerSense()
	thresholdKm[sat.ID] = threshCoeff * AltitudeKm(FromArray(sat.ECIPosn))
}

// advanceBySeconds splits a fractional-second duration into whole seconds
// and nanoseconds and adds it to t, matching the reference's split of
// floor(dt) seconds plus round((dt-floor(dt))*1e9) nanoseconds.
func advanceBySeconds(t time.Time, dtSeconds float64) time.Time {
	wholeSeconds := math.Floor(dtSeconds)
	nanos := math.Round((dtSeconds - wholeSeconds) * 1e9)
	return t.Add(time.Duration(wholeSeconds)*time.Second + time.Duration(nanos)*time.Nanosecond)
}
