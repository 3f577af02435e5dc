// Command bent_pipe runs a bent-pipe satellite constellation simulation:
// it advances orbital positions, triggers observations through a
// pluggable spacing strategy, and connects ground stations to visible
// satellites through a pluggable link policy, logging every step to CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/core"
	"github.com/signalsfoundry/bentpipe-constellation-sim/internal/config"
	"github.com/signalsfoundry/bentpipe-constellation-sim/internal/csvlog"
	"github.com/signalsfoundry/bentpipe-constellation-sim/internal/logging"
	"github.com/signalsfoundry/bentpipe-constellation-sim/internal/observability"
	"github.com/signalsfoundry/bentpipe-constellation-sim/model"
	"github.com/signalsfoundry/bentpipe-constellation-sim/timectrl"
)

func main() {
	steps := flag.Int("steps", 600, "number of simulation steps to run")
	stepDuration := flag.Duration("step-duration", time.Second, "simulated time advanced per step")
	accelerated := flag.Bool("accelerated", true, "run as fast as possible instead of pacing to wall-clock time")
	groundStations := flag.Int("ground-stations", 3, "number of ground stations, spread evenly around the equator")
	altitudeKm := flag.Float64("altitude-km", 550.0, "circular-orbit altitude for satellites with no TLE")
	inclinationDeg := flag.Float64("inclination-deg", 53.0, "circular-orbit inclination for satellites with no TLE")
	metricsAddr := flag.String("metrics-addr", "", "HTTP address for Prometheus /metrics; disabled when empty")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(1)
	}
	configDir := args[0]
	logDir := args[1]
	policyName := ""
	if len(args) > 2 {
		policyName = args[2]
	}
	spacingName := ""
	if len(args) > 3 {
		spacingName = args[3]
	}

	log := logging.NewFromEnv()
	ctx := context.Background()

	if err := run(ctx, log, runArgs{
		configDir:      configDir,
		logDir:         logDir,
		policyName:     policyName,
		spacingName:    spacingName,
		steps:          *steps,
		stepDuration:   *stepDuration,
		accelerated:    *accelerated,
		groundStations: *groundStations,
		altitudeKm:     *altitudeKm,
		inclinationDeg: *inclinationDeg,
		metricsAddr:    *metricsAddr,
	}); err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bent_pipe [flags] <config_dir> <log_dir> [policy] [spacing]")
	flag.PrintDefaults()
}

type runArgs struct {
	configDir      string
	logDir         string
	policyName     string
	spacingName    string
	steps          int
	stepDuration   time.Duration
	accelerated    bool
	groundStations int
	altitudeKm     float64
	inclinationDeg float64
	metricsAddr    string
}

func run(ctx context.Context, log logging.Logger, a runArgs) error {
	runtimeCfg, err := config.LoadRuntimeConfig(filepath.Join(a.configDir, "bentpipe.yaml"))
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}
	log = logging.New(logging.Config{Level: runtimeCfg.Logging.Level, Format: runtimeCfg.Logging.Format, AddSource: true})

	sensorCfg, err := loadSensorConfig(a.configDir)
	if err != nil {
		return err
	}
	constellationCfg, err := loadConstellationConfig(a.configDir)
	if err != nil {
		return err
	}

	spacing, err := core.NewSpacingStrategy(a.spacingName)
	if err != nil {
		return err
	}
	linkPolicy, err := core.NewLinkPolicy(a.policyName)
	if err != nil {
		return err
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	var metrics core.MetricsSink
	var metricsSrv *http.Server
	if a.metricsAddr != "" {
		collector, err := observability.NewSimCollector(nil)
		if err != nil {
			return fmt.Errorf("init metrics collector: %w", err)
		}
		metrics = collector
		metricsSrv = serveMetrics(a.metricsAddr, collector, log)
	}

	if err := os.MkdirAll(a.logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir %q: %w", a.logDir, err)
	}
	sink := csvlog.NewSink(a.logDir)

	simStart := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	satellites, motionModels, sensors := buildConstellation(constellationCfg, sensorCfg, a.altitudeKm, a.inclinationDeg, simStart)
	stations := buildGroundStations(a.groundStations)

	cfg := core.EngineConfig{
		ThreshCoeff:        runtimeCfg.Simulation.ThreshCoeff,
		LinkRateBitsPerSec: runtimeCfg.Simulation.LinkRateBitsPerSec,
		StepDuration:       a.stepDuration,
	}
	engine, err := core.NewEngine(cfg, satellites, stations, motionModels, sensors, spacing, linkPolicy, core.NewGeometricVisibilityOracle(), sink, metrics)
	if err != nil {
		return fmt.Errorf("build simulation engine: %w", err)
	}

	mode := timectrl.Accelerated
	if !a.accelerated {
		mode = timectrl.RealTime
	}
	clock := core.NewClock(simStart, a.stepDuration, mode)
	defer clock.Stop()

	log.Info(ctx, "starting simulation",
		logging.Int("satellites", len(satellites)),
		logging.Int("ground_stations", len(stations)),
		logging.Int("steps", a.steps),
		logging.String("policy", a.policyName),
		logging.String("spacing", a.spacingName),
	)

	for i := 0; i < a.steps; i++ {
		now := clock.Advance()
		engine.Step(now)
		if err := sink.Err(); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
	}

	if err := sink.Close(); err != nil {
		return fmt.Errorf("close log sink: %w", err)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	log.Info(ctx, "simulation complete", logging.Int("steps", a.steps))
	return nil
}

func loadSensorConfig(configDir string) (*config.SensorConfig, error) {
	path := filepath.Join(configDir, "sensor.dat")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := config.LoadSensorConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadConstellationConfig(configDir string) (*config.ConstellationConfig, error) {
	path := filepath.Join(configDir, "constellation.dat")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := config.LoadConstellationConfig(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// buildConstellation constructs one satellite, motion model, and sensor
// per constellation member, spread evenly around a shared circular orbit
// so spacing strategies see realistic successive threshold crossings.
func buildConstellation(cCfg *config.ConstellationConfig, sCfg *config.SensorConfig, altitudeKm, inclinationDeg float64, simStart time.Time) ([]*model.Satellite, map[uint32]core.MotionModel, map[uint32]*core.Sensor) {
	n := cCfg.Count
	satellites := make([]*model.Satellite, 0, n)
	motionModels := make(map[uint32]core.MotionModel, n)
	sensors := make(map[uint32]*core.Sensor, n)

	for i := 0; i < n; i++ {
		id := uint32(i)
		motionModel := core.NewMotionModel(i, n, "", "", altitudeKm, inclinationDeg, simStart)

		sat := &model.Satellite{ID: id}
		motionModel.UpdatePosition(simStart, sat)

		satellites = append(satellites, sat)
		motionModels[id] = motionModel
		sensors[id] = core.NewSensor(id, sCfg.BitsPerSense, sCfg.MaxBufferCapacity, core.FromArray(sat.ECIPosn), simStart)
	}
	return satellites, motionModels, sensors
}

// buildGroundStations places n stations evenly spaced in longitude along
// the equator, a simple default that yields a realistic mix of
// simultaneous and disjoint visibility windows without requiring a
// ground-station configuration file (spec.md names none).
func buildGroundStations(n int) []*model.GroundStation {
	if n <= 0 {
		n = 1
	}
	stations := make([]*model.GroundStation, 0, n)
	for i := 0; i < n; i++ {
		lonRad := 2 * math.Pi * float64(i) / float64(n)
		stations = append(stations, &model.GroundStation{
			ID: uint32(i),
			ECEFPosn: [3]float64{
				core.EarthRadiusKm * math.Cos(lonRad),
				core.EarthRadiusKm * math.Sin(lonRad),
				0,
			},
		})
	}
	return stations
}

func serveMetrics(addr string, collector *observability.SimCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()
	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
