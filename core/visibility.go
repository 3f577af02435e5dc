package core

import (
	"sort"
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// MinElevationDegrees is the elevation above the local horizon a
// satellite must clear, in addition to a clear line of sight, to count
// as visible from a ground station.
const MinElevationDegrees = 10.0

// VisibilityOracle reports which satellites a ground station can see at
// a given simulation time.
type VisibilityOracle interface {
	VisibleSatellites(gnd *model.GroundStation, satellites []*model.Satellite, now time.Time) []uint32
}

// GeometricVisibilityOracle is the default oracle: a satellite is visible
// from a ground station when the Earth doesn't occlude the line between
// them and the satellite sits above MinElevationDegrees. Satellite
// positions are converted from ECI to ECEF before the check, since ground
// stations are fixed in the Earth frame.
type GeometricVisibilityOracle struct {
	MinElevationDegrees float64
}

// NewGeometricVisibilityOracle constructs the default visibility oracle.
func NewGeometricVisibilityOracle() *GeometricVisibilityOracle {
	return &GeometricVisibilityOracle{MinElevationDegrees: MinElevationDegrees}
}

// VisibleSatellites returns the IDs of every satellite visible from gnd
// at now, sorted ascending so policies see a stable ordering.
func (o *GeometricVisibilityOracle) VisibleSatellites(gnd *model.GroundStation, satellites []*model.Satellite, now time.Time) []uint32 {
	gndPosn := FromArray(gnd.ECEFPosn)

	var visible []uint32
	for _, sat := range satellites {
		satECEF := ECIToECEF(FromArray(sat.ECIPosn), now)

		if !hasLineOfSight(gndPosn, satECEF) {
			continue
		}
		if ElevationDegrees(gndPosn, satECEF) < o.MinElevationDegrees {
			continue
		}
		visible = append(visible, sat.ID)
	}

	sort.Slice(visible, func(i, j int) bool { return visible[i] < visible[j] })
	return visible
}
