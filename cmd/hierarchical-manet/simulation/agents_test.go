package simulation

import (
	"math/rand"
	"testing"
)

func TestNewRegistryPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewRegistry(3, 100, rng)

	if r.SuperLeader() == nil {
		t.Fatal("no super-leader created")
	}
	if r.SuperLeader().Role != RoleSuperLeader {
		t.Errorf("super-leader role = %v", r.SuperLeader().Role)
	}
	if r.SuperLeader().Position != initialSuperLeaderPosition {
		t.Errorf("super-leader starts at %v, expected %v", r.SuperLeader().Position, initialSuperLeaderPosition)
	}

	for c := ClusterID(0); c < NumClusters; c++ {
		leader := r.ClusterLeader(c)
		if leader.Role != RoleClusterLeader {
			t.Errorf("cluster %s leader role = %v", c, leader.Role)
		}
		if leader.Cluster != c {
			t.Errorf("cluster %s leader assigned to cluster %s", c, leader.Cluster)
		}

		// nodesPerCluster includes the leader itself
		followers := r.Followers(c)
		if len(followers) != 2 {
			t.Errorf("cluster %s has %d followers, expected 2", c, len(followers))
		}
		for _, f := range followers {
			if f.Role != RoleFollower {
				t.Errorf("follower role = %v", f.Role)
			}
			if f.Cluster != c {
				t.Errorf("follower of cluster %s assigned to %s", c, f.Cluster)
			}
		}
	}

	if r.Count() != 7 {
		t.Errorf("Count = %d, expected 7", r.Count())
	}
	if len(r.All()) != 7 {
		t.Errorf("All returned %d agents, expected 7", len(r.All()))
	}
}

func TestNewRegistryInitialPlacementInsideArea(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := NewRegistry(5, 200, rng)

	for _, a := range r.All() {
		if a.Role == RoleSuperLeader {
			continue
		}
		p := a.Position
		if p.X < 0 || p.X > 200 || p.Y < 0 || p.Y > 200 || p.Z != 0 {
			t.Errorf("agent %s placed outside area: %v", a.Name, p)
		}
	}
}

func TestNewRegistrySingleNodeClusters(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := NewRegistry(1, 100, rng)

	for c := ClusterID(0); c < NumClusters; c++ {
		if n := len(r.Followers(c)); n != 0 {
			t.Errorf("cluster %s has %d followers, expected 0", c, n)
		}
	}
	if r.Count() != 3 {
		t.Errorf("Count = %d, expected 3", r.Count())
	}
}

func TestRegistryUniqueIDs(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r := NewRegistry(4, 150, rng)

	seen := make(map[string]bool)
	for _, a := range r.All() {
		id := a.ID.String()
		if seen[id] {
			t.Errorf("duplicate agent ID %s", id)
		}
		seen[id] = true
	}
}
