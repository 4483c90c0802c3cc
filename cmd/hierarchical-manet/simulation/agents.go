package simulation

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

// Role identifies an agent's level in the mobility hierarchy. Roles are
// fixed at construction and never change.
type Role int

const (
	RoleSuperLeader Role = iota
	RoleClusterLeader
	RoleFollower
)

func (r Role) String() string {
	switch r {
	case RoleSuperLeader:
		return "super-leader"
	case RoleClusterLeader:
		return "cluster-leader"
	case RoleFollower:
		return "follower"
	default:
		return "unknown"
	}
}

// ClusterID identifies one of the two clusters.
type ClusterID int

const (
	ClusterA ClusterID = iota
	ClusterB

	// NumClusters is fixed: one cluster leader per cluster, two clusters.
	NumClusters = 2
)

func (c ClusterID) String() string {
	if c == ClusterA {
		return "A"
	}
	return "B"
}

// Agent is one mobile node: the super-leader, a cluster leader, or a follower.
type Agent struct {
	ID       uuid.UUID
	Name     string
	Role     Role
	Cluster  ClusterID // meaningful for leaders and followers only
	Position vec.Vector3
	Velocity vec.Vector3
}

// Registry owns all agent state for a single run. Movement models receive
// the registry explicitly; there are no global lookups.
type Registry struct {
	superLeader    *Agent
	clusterLeaders [NumClusters]*Agent
	followers      [NumClusters][]*Agent
}

// initialSuperLeaderPosition matches the first waypoint of the
// super-leader track.
var initialSuperLeaderPosition = vec.Vector3{X: 50, Y: 50, Z: 0}

// NewRegistry creates the agent population for one run: one super-leader,
// two cluster leaders, and nodesPerCluster-1 followers per cluster (the
// leader is itself a cluster member). Leaders and followers are scattered
// uniformly over the area using the run's RNG.
func NewRegistry(nodesPerCluster int, areaSize float64, rng *rand.Rand) *Registry {
	r := &Registry{
		superLeader: &Agent{
			ID:       uuid.New(),
			Name:     "super-leader",
			Role:     RoleSuperLeader,
			Position: initialSuperLeaderPosition,
		},
	}

	followersPerCluster := nodesPerCluster - 1
	if followersPerCluster < 0 {
		followersPerCluster = 0
	}

	for c := ClusterID(0); c < NumClusters; c++ {
		r.clusterLeaders[c] = &Agent{
			ID:       uuid.New(),
			Name:     fmt.Sprintf("cluster-leader-%s", c),
			Role:     RoleClusterLeader,
			Cluster:  c,
			Position: uniformPosition(rng, areaSize),
		}
		r.followers[c] = make([]*Agent, followersPerCluster)
		for i := 0; i < followersPerCluster; i++ {
			r.followers[c][i] = &Agent{
				ID:       uuid.New(),
				Name:     fmt.Sprintf("follower-%s-%d", c, i+1),
				Role:     RoleFollower,
				Cluster:  c,
				Position: uniformPosition(rng, areaSize),
			}
		}
	}

	return r
}

func uniformPosition(rng *rand.Rand, areaSize float64) vec.Vector3 {
	return vec.Vector3{
		X: rng.Float64() * areaSize,
		Y: rng.Float64() * areaSize,
		Z: 0,
	}
}

// SuperLeader returns the single top-level agent.
func (r *Registry) SuperLeader() *Agent { return r.superLeader }

// ClusterLeader returns the leader of the given cluster.
func (r *Registry) ClusterLeader(c ClusterID) *Agent { return r.clusterLeaders[c] }

// Followers returns the followers of the given cluster.
func (r *Registry) Followers(c ClusterID) []*Agent { return r.followers[c] }

// All returns every agent in a stable order: super-leader first, then per
// cluster the leader followed by its followers.
func (r *Registry) All() []*Agent {
	agents := []*Agent{r.superLeader}
	for c := ClusterID(0); c < NumClusters; c++ {
		agents = append(agents, r.clusterLeaders[c])
		agents = append(agents, r.followers[c]...)
	}
	return agents
}

// Count returns the total number of agents.
func (r *Registry) Count() int {
	n := 1 + NumClusters
	for c := ClusterID(0); c < NumClusters; c++ {
		n += len(r.followers[c])
	}
	return n
}
