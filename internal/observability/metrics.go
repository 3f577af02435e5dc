package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimCollector bundles the Prometheus metrics a running simulation
// exposes: per-satellite buffer occupancy and cumulative loss, plus
// constellation-wide trigger and connection-switch counters.
type SimCollector struct {
	gatherer prometheus.Gatherer

	BitsBuffered      *prometheus.GaugeVec
	BitsLostTotal     *prometheus.GaugeVec
	TriggersTotal     prometheus.Counter
	ConnSwitchesTotal *prometheus.CounterVec
	StepsTotal        prometheus.Counter
}

// NewSimCollector registers the simulation's Prometheus metrics against
// the provided registerer, defaulting to the global registry when nil.
func NewSimCollector(reg prometheus.Registerer) (*SimCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	bitsBuffered, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bentpipe_sat_bits_buffered",
		Help: "Current bits queued in a satellite's sensor buffer.",
	}, []string{"sat_id"}), "bentpipe_sat_bits_buffered")
	if err != nil {
		return nil, err
	}

	bitsLost, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bentpipe_sat_bits_lost_total",
		Help: "Cumulative bits dropped to buffer overflow, per satellite.",
	}, []string{"sat_id"}), "bentpipe_sat_bits_lost_total")
	if err != nil {
		return nil, err
	}

	triggers, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bentpipe_triggers_total",
		Help: "Total number of trigger-time events emitted by the spacing strategy.",
	}), "bentpipe_triggers_total")
	if err != nil {
		return nil, err
	}

	switches, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bentpipe_connection_switches_total",
		Help: "Total number of times a ground station's connected satellite changed, per ground station.",
	}, []string{"gnd_id"}), "bentpipe_connection_switches_total")
	if err != nil {
		return nil, err
	}

	steps, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bentpipe_steps_total",
		Help: "Total number of simulation steps advanced.",
	}), "bentpipe_steps_total")
	if err != nil {
		return nil, err
	}

	return &SimCollector{
		gatherer:          gatherer,
		BitsBuffered:      bitsBuffered,
		BitsLostTotal:     bitsLost,
		TriggersTotal:     triggers,
		ConnSwitchesTotal: switches,
		StepsTotal:        steps,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveSensor updates the buffered/lost gauges for one satellite. Safe
// to call every step; Prometheus gauges are last-write-wins.
func (c *SimCollector) ObserveSensor(satID uint32, bitsBuffered, totalBitsLost uint64) {
	if c == nil {
		return
	}
	label := fmt.Sprintf("%d", satID)
	if c.BitsBuffered != nil {
		c.BitsBuffered.WithLabelValues(label).Set(float64(bitsBuffered))
	}
	if c.BitsLostTotal != nil {
		c.BitsLostTotal.WithLabelValues(label).Set(float64(totalBitsLost))
	}
}

// RecordTrigger increments the constellation-wide trigger counter.
func (c *SimCollector) RecordTrigger() {
	if c == nil || c.TriggersTotal == nil {
		return
	}
	c.TriggersTotal.Inc()
}

// RecordConnectionSwitch increments the switch counter for one ground
// station.
func (c *SimCollector) RecordConnectionSwitch(gndID uint32) {
	if c == nil || c.ConnSwitchesTotal == nil {
		return
	}
	c.ConnSwitchesTotal.WithLabelValues(fmt.Sprintf("%d", gndID)).Inc()
}

// RecordStep increments the total step counter.
func (c *SimCollector) RecordStep() {
	if c == nil || c.StepsTotal == nil {
		return
	}
	c.StepsTotal.Inc()
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
