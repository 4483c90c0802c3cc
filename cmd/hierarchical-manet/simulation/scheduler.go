package simulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

// SchedulerState is the tick scheduler lifecycle: Idle until started,
// Running while ticking, Stopped once halted by the run controller.
type SchedulerState int

const (
	SchedulerIdle SchedulerState = iota
	SchedulerRunning
	SchedulerStopped
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerIdle:
		return "idle"
	case SchedulerRunning:
		return "running"
	case SchedulerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// AgentPosition is the per-tick position record handed to observers.
type AgentPosition struct {
	ID       uuid.UUID
	Name     string
	Role     Role
	Cluster  ClusterID
	Position vec.Vector3
}

// PositionObserver receives the position of every agent after each tick.
// External collaborators (traffic models, visualization exporters) attach
// through this interface.
type PositionObserver interface {
	ObservePositions(at time.Duration, agents []AgentPosition)
}

// TickScheduler owns the fixed-step update loop for one run. The per-tick
// body knows nothing about the run horizon; the run controller passes the
// horizon to Run and stops the scheduler afterwards.
type TickScheduler struct {
	registry  *Registry
	planner   *Track
	formation FormationStrategy
	seek      *SeekModel
	interval  time.Duration

	state     SchedulerState
	now       time.Duration
	ticks     int
	observers []PositionObserver
}

// NewTickScheduler wires the movement models to the registry. The first
// tick fires at one interval past the run's time origin.
func NewTickScheduler(registry *Registry, planner *Track, formation FormationStrategy, seek *SeekModel, interval time.Duration) *TickScheduler {
	return &TickScheduler{
		registry:  registry,
		planner:   planner,
		formation: formation,
		seek:      seek,
		interval:  interval,
	}
}

// AddObserver registers a per-tick position observer. Observers are
// notified in registration order, synchronously within the tick.
func (s *TickScheduler) AddObserver(o PositionObserver) {
	s.observers = append(s.observers, o)
}

// State returns the scheduler's lifecycle state.
func (s *TickScheduler) State() SchedulerState { return s.state }

// Ticks returns how many ticks have executed.
func (s *TickScheduler) Ticks() int { return s.ticks }

// Clock returns the current simulated time.
func (s *TickScheduler) Clock() time.Duration { return s.now }

// Start transitions Idle -> Running and resets the clock to the origin.
func (s *TickScheduler) Start() error {
	if s.state != SchedulerIdle {
		return fmt.Errorf("scheduler already %s", s.state)
	}
	s.state = SchedulerRunning
	s.now = 0
	return nil
}

// Run executes ticks strictly periodically from interval up to and
// including horizon. Ticks are never skipped, coalesced, or run
// concurrently; the loop is synchronous on the caller's goroutine.
func (s *TickScheduler) Run(horizon time.Duration) error {
	if s.state != SchedulerRunning {
		return fmt.Errorf("scheduler is %s, not running", s.state)
	}
	for t := s.interval; t <= horizon; t += s.interval {
		s.now = t
		s.tick()
	}
	return nil
}

// Stop transitions to Stopped. Further Run calls fail.
func (s *TickScheduler) Stop() {
	s.state = SchedulerStopped
}

// tick recomputes every agent's position for the current simulated time:
// the super-leader from its waypoint track, both cluster leaders from the
// formation strategy, then every follower from the seek model. Each
// cluster's leader position is read once before its followers move, so all
// followers in a cluster seek the same leader snapshot.
func (s *TickScheduler) tick() {
	superPos := s.planner.PositionAt(s.now)
	s.registry.SuperLeader().Position = superPos

	for c := ClusterID(0); c < NumClusters; c++ {
		leader := s.registry.ClusterLeader(c)
		leader.Position = s.formation.LeaderPosition(c, superPos, s.now)
	}

	for c := ClusterID(0); c < NumClusters; c++ {
		leaderPos := s.registry.ClusterLeader(c).Position
		for _, f := range s.registry.Followers(c) {
			s.seek.Step(f, leaderPos)
		}
	}

	s.ticks++
	s.notifyObservers()
}

func (s *TickScheduler) notifyObservers() {
	if len(s.observers) == 0 {
		return
	}
	agents := s.registry.All()
	snapshot := make([]AgentPosition, len(agents))
	for i, a := range agents {
		snapshot[i] = AgentPosition{
			ID:       a.ID,
			Name:     a.Name,
			Role:     a.Role,
			Cluster:  a.Cluster,
			Position: a.Position,
		}
	}
	for _, o := range s.observers {
		o.ObservePositions(s.now, snapshot)
	}
}
