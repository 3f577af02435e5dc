package model

// GroundStation is a downlink site with a single active connection at any
// given step. Any queueing, timer, or RNG state a link policy needs is
// private to the policy instance and keyed by GndID, never stored here.
type GroundStation struct {
	ID uint32

	// ECEFPosn is the ground station's fixed position in kilometres.
	ECEFPosn [3]float64

	// CurrentSatID is the satellite this ground station is presently
	// connected to, or nil if unconnected.
	CurrentSatID *uint32
}

// IsConnectedTo reports whether the ground station currently holds a
// connection to the given satellite.
func (g *GroundStation) IsConnectedTo(satID uint32) bool {
	return g.CurrentSatID != nil && *g.CurrentSatID == satID
}
