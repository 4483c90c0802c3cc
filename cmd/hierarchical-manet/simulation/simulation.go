package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hiersim/manet-simulations/cmd/hierarchical-manet/config"
	"github.com/hiersim/manet-simulations/cmd/hierarchical-manet/reporting"
	"github.com/hiersim/manet-simulations/pkg/logger"
	"github.com/hiersim/manet-simulations/pkg/simulation"
)

// SimulationName is the registry key for this simulation.
const SimulationName = "Hierarchical MANET"

// HierarchicalManetSimulation drives batches of randomized trials of the
// three-tier mobility model and appends per-flow statistics to the CSV
// record store.
type HierarchicalManetSimulation struct {
	config *config.Config

	mu       sync.Mutex
	stopChan chan struct{}
	stopped  bool
}

// NewHierarchicalManetSimulation creates a new instance
func NewHierarchicalManetSimulation() simulation.Simulation {
	return &HierarchicalManetSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *HierarchicalManetSimulation) Name() string {
	return SimulationName
}

// Description returns the simulation description
func (s *HierarchicalManetSimulation) Description() string {
	return "Three-tier mobile hierarchy: a roaming super-leader, two formation cluster leaders, and noisy leader-seeking followers"
}

// Configure sets up the simulation with provided parameters
func (s *HierarchicalManetSimulation) Configure(params map[string]interface{}) error {
	cfg, err := config.ValidateAndParse(params)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	s.config = cfg
	return nil
}

// Run executes numRuns fully isolated trials in sequence. A failing trial
// is logged and skipped; the batch always proceeds to the next run. The
// batch ends early only on context cancellation or Stop.
func (s *HierarchicalManetSimulation) Run(ctx context.Context) error {
	if s.config == nil {
		return fmt.Errorf("simulation not configured")
	}
	cfg := s.config

	logger.Infof("Starting %s: %d runs, %d nodes/cluster, %gs horizon, %gx%gm area, formation=%s",
		s.Name(), cfg.NumRuns, cfg.NodesPerCluster, cfg.SimTime, cfg.AreaSize, cfg.AreaSize, cfg.FormationMode)

	exporter := reporting.NewExporter(cfg.OutputDir, TelemetryPort)
	runLog := reporting.NewRunLogger(cfg.PacketSize, cfg.NumRuns)

	for run := 1; run <= cfg.NumRuns; run++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			logger.Warn("Simulation stopped before run", run)
			runLog.Summary()
			return nil
		default:
		}

		runLog.RunStarted(run)
		started := time.Now()
		flows, err := s.runOnce(run, exporter)
		runLog.RunFinished(reporting.RunOutcome{
			RunNumber: run,
			Flows:     flows,
			Err:       err,
			Elapsed:   time.Since(started),
		})
	}

	if failed := runLog.Summary(); failed > 0 {
		logger.Warnf("%d of %d runs failed; see log above", failed, cfg.NumRuns)
	}
	return nil
}

// runOnce executes a single isolated trial. The trial's RNG is seeded with
// the 1-based run number, so a batch of N runs uses seeds 1..N and equal
// seeds reproduce identical trials. All per-run state is local and is
// released when this function returns.
func (s *HierarchicalManetSimulation) runOnce(run int, exporter *reporting.Exporter) (int, error) {
	cfg := s.config
	rng := rand.New(rand.NewSource(int64(run)))

	horizon := cfg.SimDuration()
	registry := NewRegistry(cfg.NodesPerCluster, cfg.AreaSize, rng)
	planner := NewSuperLeaderTrack(rng, horizon, cfg.AreaSize)

	var formation FormationStrategy
	switch cfg.FormationMode {
	case config.FormationIndependentWaypoint:
		formation = NewIndependentWaypoint(rng, horizon, cfg.AreaSize)
	default:
		formation = NewRigidOffset()
	}

	seek := NewSeekModel(cfg.FollowerSpeed, cfg.NoiseFactor, cfg.Tick(), rng)
	telemetry := NewTelemetryModel(registry, cfg.PacketSize, horizon, rng)

	sched := NewTickScheduler(registry, planner, formation, seek, cfg.Tick())
	sched.AddObserver(telemetry)

	if err := sched.Start(); err != nil {
		return 0, fmt.Errorf("failed to start scheduler: %w", err)
	}
	if err := sched.Run(horizon); err != nil {
		sched.Stop()
		return 0, fmt.Errorf("scheduler failed: %w", err)
	}
	sched.Stop()

	logger.Debugf("Run %d: %d ticks over %d agents", run, sched.Ticks(), registry.Count())

	flows := telemetry.CollectFlows()
	params := reporting.RunParameters{
		NodesPerCluster: cfg.NodesPerCluster,
		SimTime:         cfg.SimTime,
		AreaSize:        cfg.AreaSize,
		FollowerSpeed:   cfg.FollowerSpeed,
		NoiseFactor:     cfg.NoiseFactor,
		PacketSize:      cfg.PacketSize,
	}
	if err := exporter.Export(run, params, flows); err != nil {
		return 0, err
	}
	return len(flows), nil
}

// Stop gracefully stops the simulation between runs
func (s *HierarchicalManetSimulation) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stopChan)
	}
	return nil
}

// init registers the simulation
func init() {
	if err := simulation.DefaultRegistry.Register(SimulationName, NewHierarchicalManetSimulation); err != nil {
		logger.Errorf("Failed to register simulation: %v", err)
	}
}
