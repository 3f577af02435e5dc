package core

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// MotionModel updates a satellite's ECI position for a given simulation
// time. Orbital propagation is an external collaborator by contract; the
// two implementations below are the concrete default this repository
// supplies so the CLI is runnable without a separate propagation service.
type MotionModel interface {
	UpdatePosition(simTime time.Time, s *model.Satellite)
}

// OrbitalSGP4MotionModel uses a two-line element set and SGP4 to update a
// satellite's ECI position. This is the high-fidelity path, used when
// NewMotionModel is given a TLE pair; nothing in internal/config loads
// TLEs, and cmd/bent_pipe passes none.
type OrbitalSGP4MotionModel struct {
	sat satellite.Satellite
}

// NewOrbitalModelFromTLE constructs an orbital model from TLE lines.
func NewOrbitalModelFromTLE(line1, line2 string) *OrbitalSGP4MotionModel {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &OrbitalSGP4MotionModel{sat: sat}
}

// UpdatePosition propagates the satellite to the given simulation time and
// writes the resulting ECI position (kilometres) onto s.
func (m *OrbitalSGP4MotionModel) UpdatePosition(simTime time.Time, s *model.Satellite) {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(m.sat, year, int(month), day, hour, min, sec)
	s.ECIPosn = [3]float64{posECI.X, posECI.Y, posECI.Z}
}

// CircularOrbitMotionModel is the default propagator used when no TLE is
// supplied: it places a satellite on a circular orbit at a fixed altitude
// and inclination, phased by its index within the constellation. It is
// intentionally simple two-body geometry rather than a perturbation
// model — enough to drive realistic distance-threshold crossings for the
// spacing strategies without requiring an external ephemeris.
type CircularOrbitMotionModel struct {
	altitudeKm     float64
	inclinationRad float64
	raanRad        float64
	phaseRad       float64
	periodSec      float64
	epoch          time.Time
}

// muEarthKm3PerS2 is Earth's standard gravitational parameter in km^3/s^2,
// used for the vis-viva period of a circular orbit.
const muEarthKm3PerS2 = 398600.4418

// NewCircularOrbitMotionModel builds a propagator for the satellite at
// position index (0-based) of a constellation of the given total size.
// Satellites are spread evenly in true anomaly around a shared circular
// orbit, at the given altitude and inclination, epoched at simStart.
func NewCircularOrbitMotionModel(index, total int, altitudeKm, inclinationDeg float64, simStart time.Time) *CircularOrbitMotionModel {
	if total <= 0 {
		total = 1
	}
	radiusKm := EarthRadiusKm + altitudeKm
	periodSec := 2 * math.Pi * math.Sqrt(math.Pow(radiusKm, 3)/muEarthKm3PerS2)

	return &CircularOrbitMotionModel{
		altitudeKm:     altitudeKm,
		inclinationRad: inclinationDeg * math.Pi / 180.0,
		raanRad:        0,
		phaseRad:       2 * math.Pi * float64(index) / float64(total),
		periodSec:      periodSec,
		epoch:          simStart,
	}
}

// UpdatePosition computes the satellite's ECI position by advancing its
// orbital phase from the model's epoch.
func (m *CircularOrbitMotionModel) UpdatePosition(simTime time.Time, s *model.Satellite) {
	elapsed := simTime.Sub(m.epoch).Seconds()
	meanMotion := 2 * math.Pi / m.periodSec
	theta := m.phaseRad + meanMotion*elapsed

	radiusKm := EarthRadiusKm + m.altitudeKm

	// Position in the orbital plane before applying inclination/RAAN.
	xOrbit := radiusKm * math.Cos(theta)
	yOrbit := radiusKm * math.Sin(theta)

	// Rotate by inclination about the X axis, then by RAAN about Z.
	yInclined := yOrbit * math.Cos(m.inclinationRad)
	zInclined := yOrbit * math.Sin(m.inclinationRad)

	x := xOrbit*math.Cos(m.raanRad) - yInclined*math.Sin(m.raanRad)
	y := xOrbit*math.Sin(m.raanRad) + yInclined*math.Cos(m.raanRad)

	s.ECIPosn = [3]float64{x, y, zInclined}
}

// ECIToECEF rotates an ECI position into the Earth-fixed frame at the
// given simulation time, using go-satellite's Greenwich sidereal time
// helper. Ground stations are fixed in ECEF; visibility geometry needs
// both bodies expressed in the same frame, so satellite positions are
// converted here rather than the other way around.
func ECIToECEF(posECI Vec3, simTime time.Time) Vec3 {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	ecef := satellite.ECIToECEF(satellite.Vector3{X: posECI.X, Y: posECI.Y, Z: posECI.Z}, gmst)
	return Vec3{X: ecef.X, Y: ecef.Y, Z: ecef.Z}
}

// NewMotionModel chooses the orbital SGP4 model when a TLE pair is
// available for the satellite, falling back to the synthetic circular
// orbit model otherwise.
func NewMotionModel(index, total int, tle1, tle2 string, altitudeKm, inclinationDeg float64, simStart time.Time) MotionModel {
	if tle1 != "" && tle2 != "" {
		return NewOrbitalModelFromTLE(tle1, tle2)
	}
	return NewCircularOrbitMotionModel(index, total, altitudeKm, inclinationDeg, simStart)
}
