package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

func newTestScheduler(t *testing.T, simTime time.Duration, nodesPerCluster int, seed int64) *TickScheduler {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	registry := NewRegistry(nodesPerCluster, 100, rng)
	planner := NewSuperLeaderTrack(rng, simTime, 100)
	seek := NewSeekModel(1.5, 1.0, 100*time.Millisecond, rng)
	return NewTickScheduler(registry, planner, NewRigidOffset(), seek, 100*time.Millisecond)
}

func TestSchedulerTickCount(t *testing.T) {
	// 10s horizon at 0.1s intervals yields exactly 100 ticks
	s := newTestScheduler(t, 10*time.Second, 3, 1)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Run(10 * time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s.Stop()

	if s.Ticks() != 100 {
		t.Errorf("Ticks = %d, expected 100", s.Ticks())
	}
	if s.Clock() != 10*time.Second {
		t.Errorf("Clock = %v, expected 10s", s.Clock())
	}
}

func TestSchedulerZeroHorizonRunsNoTicks(t *testing.T) {
	s := newTestScheduler(t, 0, 3, 1)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Run(0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if s.Ticks() != 0 {
		t.Errorf("Ticks = %d, expected 0", s.Ticks())
	}
}

func TestSchedulerStateMachine(t *testing.T) {
	s := newTestScheduler(t, time.Second, 3, 1)

	if s.State() != SchedulerIdle {
		t.Errorf("initial state = %v, expected idle", s.State())
	}
	if err := s.Run(time.Second); err == nil {
		t.Error("Run before Start should fail")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.State() != SchedulerRunning {
		t.Errorf("state after Start = %v, expected running", s.State())
	}
	if err := s.Start(); err == nil {
		t.Error("second Start should fail")
	}
	s.Stop()
	if s.State() != SchedulerStopped {
		t.Errorf("state after Stop = %v, expected stopped", s.State())
	}
	if err := s.Run(time.Second); err == nil {
		t.Error("Run after Stop should fail")
	}
}

func TestSchedulerMaintainsFormationEachTick(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	registry := NewRegistry(4, 100, rng)
	planner := NewSuperLeaderTrack(rng, 20*time.Second, 100)
	seek := NewSeekModel(1.5, 1.0, 100*time.Millisecond, rng)
	s := NewTickScheduler(registry, planner, NewRigidOffset(), seek, 100*time.Millisecond)

	check := &formationChecker{t: t}
	s.AddObserver(check)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Run(20 * time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s.Stop()

	if check.observed != 200 {
		t.Errorf("observer saw %d ticks, expected 200", check.observed)
	}
}

// formationChecker verifies leader = super + offset on every snapshot.
type formationChecker struct {
	t        *testing.T
	observed int
}

func (c *formationChecker) ObservePositions(at time.Duration, agents []AgentPosition) {
	c.observed++

	var super vec.Vector3
	leaders := make(map[ClusterID]vec.Vector3)
	for _, a := range agents {
		switch a.Role {
		case RoleSuperLeader:
			super = a.Position
		case RoleClusterLeader:
			leaders[a.Cluster] = a.Position
		}
	}

	for c2, pos := range leaders {
		want := super.Add(defaultOffsets[c2])
		if pos != want {
			c.t.Errorf("at %v: cluster %s leader at %v, expected %v", at, c2, pos, want)
		}
	}
}

func TestFollowersSeekSameLeaderSnapshot(t *testing.T) {
	// All followers of a cluster must seek the leader position set earlier
	// in the same tick, not a value mutated mid-loop. With zero noise and
	// equal starting positions, both followers of a cluster must receive
	// identical displacements.
	rng := rand.New(rand.NewSource(3))
	registry := NewRegistry(3, 100, rng)
	for _, f := range registry.Followers(ClusterA) {
		f.Position = vec.Vector3{X: 10, Y: 10}
	}

	planner := NewSuperLeaderTrack(rng, time.Second, 100)
	seek := NewSeekModel(1.5, 0, 100*time.Millisecond, rng)
	s := NewTickScheduler(registry, planner, NewRigidOffset(), seek, 100*time.Millisecond)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Run(100 * time.Millisecond); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s.Stop()

	followers := registry.Followers(ClusterA)
	if followers[0].Position != followers[1].Position {
		t.Errorf("followers diverged within one tick: %v vs %v",
			followers[0].Position, followers[1].Position)
	}
}

func TestSuperLeaderRelocatesOnce(t *testing.T) {
	// Scenario: 10s horizon, relocation lands in [5s, 10s]; the super-leader
	// position changes exactly once over the run.
	s := newTestScheduler(t, 10*time.Second, 3, 1)
	tracker := &superLeaderTracker{}
	s.AddObserver(tracker)

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Run(10 * time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	s.Stop()

	if tracker.changes != 1 {
		t.Errorf("super-leader changed position %d times, expected exactly 1", tracker.changes)
	}
	if tracker.changeAt < 5*time.Second || tracker.changeAt > 10*time.Second {
		t.Errorf("relocation at %v, expected within [5s, 10s]", tracker.changeAt)
	}
}

type superLeaderTracker struct {
	last     vec.Vector3
	seen     bool
	changes  int
	changeAt time.Duration
}

func (tr *superLeaderTracker) ObservePositions(at time.Duration, agents []AgentPosition) {
	for _, a := range agents {
		if a.Role != RoleSuperLeader {
			continue
		}
		if tr.seen && a.Position != tr.last {
			tr.changes++
			tr.changeAt = at
		}
		tr.last = a.Position
		tr.seen = true
	}
}
