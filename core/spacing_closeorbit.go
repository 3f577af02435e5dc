package core

import (
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
)

// DefaultCloseOrbitClusterSize is the number of satellites grouped into a
// single rephasing cluster.
const DefaultCloseOrbitClusterSize = 5

// DefaultCloseOrbitIntraClusterSec is the clock offset step between
// satellites within the same cluster.
const DefaultCloseOrbitIntraClusterSec = 0.0

// DefaultCloseOrbitInterClusterSec is the clock offset step between
// successive clusters.
const DefaultCloseOrbitInterClusterSec = 540.0

// CloseOrbitSpacedSpacing is bent-pipe sensing (any threshold crossing
// triggers every satellite) with one added step: before
// the simulation starts, satellites are grouped into fixed-size clusters
// and each satellite's local clock is offset so that clusters — and
// satellites within a cluster — don't all cross their thresholds in
// lockstep. Once Initialize has run, triggering behaves exactly like
// BentPipeSpacing.
type CloseOrbitSpacedSpacing struct {
	BentPipeSpacing

	ClusterSize     int
	IntraClusterSec float64
	InterClusterSec float64

	initialized bool
}

// NewCloseOrbitSpacedSpacing constructs a close-orbit-spaced strategy with
// the given cluster parameters. A clusterSize <= 0 falls back to
// DefaultCloseOrbitClusterSize; the two clock steps are used as given.
func NewCloseOrbitSpacedSpacing(clusterSize int, intraClusterSec, interClusterSec float64) *CloseOrbitSpacedSpacing {
	if clusterSize <= 0 {
		clusterSize = DefaultCloseOrbitClusterSize
	}
	return &CloseOrbitSpacedSpacing{
		ClusterSize:     clusterSize,
		IntraClusterSec: intraClusterSec,
		InterClusterSec: interClusterSec,
	}
}

func (s *CloseOrbitSpacedSpacing) Name() string { return "close-orbit-spaced" }

// Initialize assigns each satellite a clock offset based on its position
// in the constellation ordering: satellites are partitioned into
// ClusterSize-sized clusters, each cluster offset from the previous by
// InterClusterSec, and each satellite within a cluster offset from the
// first by IntraClusterSec. It is a one-shot rephasing step and must run
// before the first simulation step; calling it again is a no-op.
func (s *CloseOrbitSpacedSpacing) Initialize(satellites []*model.Satellite) {
	if s.initialized {
		return
	}
	s.initialized = true

	for i, sat := range satellites {
		clusterIndex := i / s.ClusterSize
		intraIndex := i % s.ClusterSize

		offsetSec := float64(clusterIndex)*s.InterClusterSec + float64(intraIndex)*s.IntraClusterSec
		epoch := advanceBySeconds(time.Time{}, offsetSec)
		sat.ClockOffset = epoch.Sub(time.Time{})
	}
}
