package model

import "time"

// Satellite is a constellation member: a stable identity, a current
// position, and a local clock offset used only by the close-orbit-spaced
// strategy to rephase observation timing across clusters.
type Satellite struct {
	ID uint32

	// ECIPosn is the satellite's current Earth-Centered-Inertial position
	// in kilometres, refreshed once per step by the motion model.
	ECIPosn [3]float64

	// ClockOffset is added to the simulation clock to obtain this
	// satellite's local time. It starts at zero and is mutated exactly
	// once, by the close-orbit-spaced strategy's Initialize step.
	ClockOffset time.Duration
}

// LocalTime returns the satellite's local time given the simulation's
// current time.
func (s *Satellite) LocalTime(simTime time.Time) time.Time {
	return simTime.Add(s.ClockOffset)
}
