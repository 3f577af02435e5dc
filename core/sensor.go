package core

import (
	"fmt"
	"time"
)

// MaxBufferCapacityUnbounded is the default max_buffer_capacity: the
// largest representable uint64, i.e. effectively unbounded.
const MaxBufferCapacityUnbounded uint64 = ^uint64(0)

// Sensor is a single satellite's data buffer. It is mutated only by its
// owning spacing strategy (TriggerSense) and by the step loop / downlink
// accountant (Update, DrainBuffer) — the single-writer discipline the
// fixed step order enforces, so no locking is needed here.
type Sensor struct {
	satID uint32

	bitsPerSense      uint64
	bitsBuffered      uint64
	maxBufferCapacity uint64
	totalBitsLost     uint64
	senseTrigger      bool
	prevSensePosn     Vec3
	prevSenseDateTime time.Time
}

// NewSensor constructs a Sensor for the given satellite. maxBufferCapacity
// of zero means unbounded, matching the reference default.
func NewSensor(satID uint32, bitsPerSense, maxBufferCapacity uint64, initPosn Vec3, initTime time.Time) *Sensor {
	if maxBufferCapacity == 0 {
		maxBufferCapacity = MaxBufferCapacityUnbounded
	}
	return &Sensor{
		satID:             satID,
		bitsPerSense:      bitsPerSense,
		maxBufferCapacity: maxBufferCapacity,
		prevSensePosn:     initPosn,
		prevSenseDateTime: initTime,
	}
}

// BitsBuffered returns the current queued bit count.
func (s *Sensor) BitsBuffered() uint64 { return s.bitsBuffered }

// TotalBitsLost returns the cumulative bits dropped to overflow.
func (s *Sensor) TotalBitsLost() uint64 { return s.totalBitsLost }

// BitsPerSense returns the configured bits produced per trigger.
func (s *Sensor) BitsPerSense() uint64 { return s.bitsPerSense }

// MaxBufferCapacity returns the hard cap on bitsBuffered.
func (s *Sensor) MaxBufferCapacity() uint64 { return s.maxBufferCapacity }

// PrevSensePosn returns the position at the most recent successful
// capture (or the construction-time position if none has occurred yet).
func (s *Sensor) PrevSensePosn() Vec3 { return s.prevSensePosn }

// PrevSenseDateTime returns the time of the most recent successful
// capture.
func (s *Sensor) PrevSenseDateTime() time.Time { return s.prevSenseDateTime }

// SenseTrigger reports whether a capture is latched for the next update.
func (s *Sensor) SenseTrigger() bool { return s.senseTrigger }

// TriggerSense latches a capture request for the next Update call.
// Idempotent within a step.
func (s *Sensor) TriggerSense() {
	s.senseTrigger = true
}

// SetPrevSensePosnDateTime overwrites the last-capture reference point
// directly. Spacing strategies use this to advance a lead satellite's
// distance metric on steps where no capture occurs (frame-spaced).
func (s *Sensor) SetPrevSensePosnDateTime(posn Vec3, t time.Time) {
	s.prevSensePosn = posn
	s.prevSenseDateTime = t
}

// DrainBuffer removes up to bits from bitsBuffered and returns the actual
// number removed.
func (s *Sensor) DrainBuffer(bits uint64) uint64 {
	if s.bitsBuffered >= bits {
		s.bitsBuffered -= bits
		return bits
	}
	drained := s.bitsBuffered
	s.bitsBuffered = 0
	return drained
}

// Update applies a latched trigger, if any: adds bitsPerSense to the
// buffer, saturating at maxBufferCapacity and counting the entire
// attempted capture as lost on overflow (not just the excess). Clears the
// trigger and refreshes the capture reference point either way.
func (s *Sensor) Update(now time.Time, currPosn Vec3, log Log) {
	if !s.senseTrigger {
		return
	}

	newTotal := s.bitsBuffered + s.bitsPerSense
	if newTotal > s.maxBufferCapacity {
		s.bitsBuffered = s.maxBufferCapacity
		s.totalBitsLost += s.bitsPerSense
		if log != nil {
			lostMB := float64(s.totalBitsLost) / (8.0 * 1024.0 * 1024.0)
			log.Meas(now, fmt.Sprintf("buffer-overflow-sat-%d", s.satID), lostMB)
		}
	} else {
		s.bitsBuffered = newTotal
	}

	s.SetPrevSensePosnDateTime(currPosn, now)
	s.senseTrigger = false
}
