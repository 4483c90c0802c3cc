package simulation

import (
	"math/rand"
	"time"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

// FormationStrategy derives a cluster leader's position each tick. The two
// variants are mutually exclusive within a run; the mode is chosen once at
// run construction.
type FormationStrategy interface {
	// LeaderPosition returns the position of the given cluster's leader for
	// the current super-leader position and simulated time.
	LeaderPosition(cluster ClusterID, superLeaderPos vec.Vector3, at time.Duration) vec.Vector3
}

// Cluster formation offsets relative to the super-leader: cluster A sits
// bottom-left, cluster B top-right.
var defaultOffsets = [NumClusters]vec.Vector3{
	{X: -50, Y: -50, Z: 0},
	{X: 50, Y: 50, Z: 0},
}

// RigidOffset keeps each cluster leader at a constant offset from the
// super-leader. It is a pure function of the super-leader position.
type RigidOffset struct {
	Offsets [NumClusters]vec.Vector3
}

// NewRigidOffset returns the rigid formation with the default offsets.
func NewRigidOffset() *RigidOffset {
	return &RigidOffset{Offsets: defaultOffsets}
}

func (f *RigidOffset) LeaderPosition(cluster ClusterID, superLeaderPos vec.Vector3, _ time.Duration) vec.Vector3 {
	return superLeaderPos.Add(f.Offsets[cluster])
}

// IndependentWaypoint gives each cluster leader its own random-waypoint
// track, ignoring the super-leader entirely.
type IndependentWaypoint struct {
	Tracks [NumClusters]*Track
}

// NewIndependentWaypoint builds a random-waypoint track per cluster leader
// from the run's RNG.
func NewIndependentWaypoint(rng *rand.Rand, simTime time.Duration, areaSize float64) *IndependentWaypoint {
	f := &IndependentWaypoint{}
	for c := 0; c < NumClusters; c++ {
		f.Tracks[c] = NewRandomWaypointTrack(rng, simTime, areaSize)
	}
	return f
}

func (f *IndependentWaypoint) LeaderPosition(cluster ClusterID, _ vec.Vector3, at time.Duration) vec.Vector3 {
	return f.Tracks[cluster].PositionAt(at)
}
