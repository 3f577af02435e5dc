package core

import "math/rand/v2"

// randomPolicySeed fixes the random link policy's source so repeated runs
// of the same scenario produce byte-identical logs.
const randomPolicySeed = 42

// RandomLinkPolicy holds each connection for MinConnectionSteps, then
// picks uniformly at random among the unoccupied visible satellites that
// hold buffered bits.
type RandomLinkPolicy struct {
	rng   *rand.Rand
	state map[uint32]*timedSlotState
}

// NewRandomLinkPolicy constructs the timed random link policy, seeded
// deterministically.
func NewRandomLinkPolicy() *RandomLinkPolicy {
	return &RandomLinkPolicy{
		rng:   rand.New(rand.NewPCG(randomPolicySeed, randomPolicySeed)),
		state: make(map[uint32]*timedSlotState),
	}
}

func (p *RandomLinkPolicy) Name() string { return "random" }

func (p *RandomLinkPolicy) Decide(d LinkDecision) *uint32 {
	st := p.state[d.GndID]
	if st == nil {
		st = &timedSlotState{}
		p.state[d.GndID] = st
	}
	if len(d.VisibleSatIDs) == 0 {
		return nil
	}

	stillValid := d.CurrentSatID != nil && visibleContains(d.VisibleSatIDs, *d.CurrentSatID)
	if stillValid && d.Step-st.connectedSince < MinConnectionSteps {
		kept := *d.CurrentSatID
		return &kept
	}

	candidates := make([]uint32, 0, len(d.VisibleSatIDs))
	for _, id := range d.VisibleSatIDs {
		sensor := d.Sensors[id]
		if !d.Occupied[id] && sensor != nil && sensor.BitsBuffered() > 0 {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	picked := candidates[p.rng.IntN(len(candidates))]
	st.connectedSince = d.Step
	return &picked
}
