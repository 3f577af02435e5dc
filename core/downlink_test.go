package core

import (
	"testing"
	"time"
)

func TestDrainConnections_DrainsEachConnectedSatellite(t *testing.T) {
	sensors := map[uint32]*Sensor{
		1: NewSensor(1, mb, 0, Vec3{}, time.Unix(0, 0)),
		2: NewSensor(2, mb, 0, Vec3{}, time.Unix(0, 0)),
	}
	sensors[1].TriggerSense()
	sensors[1].Update(time.Unix(0, 0), Vec3{}, NopLog{})
	sensors[2].TriggerSense()
	sensors[2].Update(time.Unix(0, 0), Vec3{}, NopLog{})

	connections := map[uint32]uint32{10: 1, 20: 2}
	records := DrainConnections(connections, []uint32{10, 20}, sensors, float64(mb), time.Second, time.Unix(1, 0), NopLog{})

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if sensors[1].BitsBuffered() != 0 {
		t.Fatalf("satellite 1 buffer = %d, want 0 after a full-rate drain", sensors[1].BitsBuffered())
	}
	if sensors[2].BitsBuffered() != 0 {
		t.Fatalf("satellite 2 buffer = %d, want 0 after a full-rate drain", sensors[2].BitsBuffered())
	}
}

func TestDrainConnections_SkipsUnconnectedStations(t *testing.T) {
	sensors := map[uint32]*Sensor{1: NewSensor(1, mb, 0, Vec3{}, time.Unix(0, 0))}
	records := DrainConnections(map[uint32]uint32{}, []uint32{10}, sensors, float64(mb), time.Second, time.Unix(1, 0), NopLog{})
	if len(records) != 0 {
		t.Fatalf("len(records) = %d, want 0 for a station with no connection", len(records))
	}
}

func TestDrainConnections_PartialDrainLeavesRemainder(t *testing.T) {
	sensors := map[uint32]*Sensor{1: NewSensor(1, 10*mb, 0, Vec3{}, time.Unix(0, 0))}
	sensors[1].TriggerSense()
	sensors[1].Update(time.Unix(0, 0), Vec3{}, NopLog{})

	records := DrainConnections(map[uint32]uint32{10: 1}, []uint32{10}, sensors, float64(mb), time.Second, time.Unix(1, 0), NopLog{})

	if len(records) != 1 || records[0].BitsDrained != mb {
		t.Fatalf("records = %+v, want one record draining %d bits", records, mb)
	}
	if sensors[1].BitsBuffered() != 9*mb {
		t.Fatalf("remaining buffer = %d, want %d", sensors[1].BitsBuffered(), 9*mb)
	}
}
