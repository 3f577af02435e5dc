package core

import (
	"fmt"
	"time"
)

// LinkRateRecord is one ground station's downlink drain for a single
// step: how many bits it pulled from which satellite's buffer.
type LinkRateRecord struct {
	GndID       uint32
	SatID       uint32
	BitsDrained uint64
}

// DrainConnections drains linkRateBitsPerSec * stepDuration bits from
// each ground station's currently connected satellite, in the order given
// by gndIDsInOrder (the engine passes ascending ground-station IDs) so
// draining is deterministic when two stations are connected to the same
// satellite. It returns one record per station
// that had an active connection and logs each drain as a named
// measurement series.
func DrainConnections(
	connections map[uint32]uint32, // gndID -> satID
	gndIDsInOrder []uint32,
	sensors map[uint32]*Sensor,
	linkRateBitsPerSec float64,
	stepDuration time.Duration,
	now time.Time,
	log Log,
) []LinkRateRecord {
	bitsPerStep := uint64(linkRateBitsPerSec * stepDuration.Seconds())

	records := make([]LinkRateRecord, 0, len(gndIDsInOrder))
	for _, gndID := range gndIDsInOrder {
		satID, connected := connections[gndID]
		if !connected {
			continue
		}
		sensor, ok := sensors[satID]
		if !ok {
			continue
		}

		drained := sensor.DrainBuffer(bitsPerStep)
		records = append(records, LinkRateRecord{GndID: gndID, SatID: satID, BitsDrained: drained})

		if log != nil {
			log.Meas(now, fmt.Sprintf("downlink-sat-%d", satID), float64(drained)/(8.0*1024.0*1024.0))
		}
	}
	return records
}
