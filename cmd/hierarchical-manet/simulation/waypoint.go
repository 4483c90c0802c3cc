package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

// Waypoint is a timed target position within a track.
type Waypoint struct {
	Time   time.Duration
	Target vec.Vector3
}

// Interpolation selects how a track moves between consecutive waypoints.
type Interpolation int

const (
	// Teleport holds the last reached waypoint's target until the next
	// waypoint's time, then jumps to the new target.
	Teleport Interpolation = iota
	// Linear moves at constant velocity between consecutive waypoints.
	Linear
)

// Track is an ordered sequence of waypoints, strictly increasing in time,
// with at least the initial position.
type Track struct {
	mode      Interpolation
	waypoints []Waypoint
}

// NewTrack creates a track anchored at the given initial position.
func NewTrack(mode Interpolation, initial vec.Vector3) *Track {
	return &Track{
		mode:      mode,
		waypoints: []Waypoint{{Time: 0, Target: initial}},
	}
}

// Append adds a waypoint. Times must be strictly increasing.
func (t *Track) Append(wp Waypoint) error {
	last := t.waypoints[len(t.waypoints)-1]
	if wp.Time <= last.Time {
		return fmt.Errorf("waypoint time %v not after previous %v", wp.Time, last.Time)
	}
	t.waypoints = append(t.waypoints, wp)
	return nil
}

// Len returns the number of waypoints in the track.
func (t *Track) Len() int { return len(t.waypoints) }

// PositionAt returns the track position at simulated time at. It is a pure
// function of the track contents.
func (t *Track) PositionAt(at time.Duration) vec.Vector3 {
	if at <= 0 {
		return t.waypoints[0].Target
	}

	// Index of the last waypoint whose time is <= at
	reached := 0
	for i := 1; i < len(t.waypoints); i++ {
		if t.waypoints[i].Time <= at {
			reached = i
		} else {
			break
		}
	}

	if t.mode == Teleport || reached == len(t.waypoints)-1 {
		return t.waypoints[reached].Target
	}

	from := t.waypoints[reached]
	to := t.waypoints[reached+1]
	span := to.Time - from.Time
	frac := float64(at-from.Time) / float64(span)
	return from.Target.Add(to.Target.Sub(from.Target).Scale(frac))
}

// NewSuperLeaderTrack builds the super-leader's two-waypoint track: the
// fixed initial position, then a single relocation at a time drawn
// uniformly from the second half of the horizon, to a target drawn
// uniformly inside the area. A zero horizon yields a single-waypoint
// track and the leader never relocates.
//
// Draw order is fixed (time, x, y) so runs with equal seeds reproduce
// identical tracks.
func NewSuperLeaderTrack(rng *rand.Rand, simTime time.Duration, areaSize float64) *Track {
	track := NewTrack(Teleport, initialSuperLeaderPosition)
	if simTime <= 0 {
		return track
	}

	half := simTime / 2
	moveTime := half + time.Duration(rng.Float64()*float64(simTime-half))
	x := rng.Float64() * areaSize
	y := rng.Float64() * areaSize

	if moveTime <= 0 {
		return track
	}
	_ = track.Append(Waypoint{Time: moveTime, Target: vec.Vector3{X: x, Y: y, Z: 0}})
	return track
}

// Random-waypoint leg parameters used by the independent formation mode.
const (
	randomWaypointMinSpeed = 0.5             // m/s
	randomWaypointMaxSpeed = 1.5             // m/s
	randomWaypointPause    = 5 * time.Second // dwell at each target
)

// NewRandomWaypointTrack builds a linear track that hops between uniform
// random targets in the area at a uniform random leg speed with a fixed
// pause at each target, covering the whole horizon.
func NewRandomWaypointTrack(rng *rand.Rand, simTime time.Duration, areaSize float64) *Track {
	start := uniformPosition(rng, areaSize)
	track := NewTrack(Linear, start)

	now := time.Duration(0)
	pos := start
	for now < simTime {
		target := uniformPosition(rng, areaSize)
		speed := randomWaypointMinSpeed + rng.Float64()*(randomWaypointMaxSpeed-randomWaypointMinSpeed)

		travel := time.Duration(pos.DistanceTo(target) / speed * float64(time.Second))
		if travel <= 0 {
			travel = time.Millisecond
		}
		now += travel
		if err := track.Append(Waypoint{Time: now, Target: target}); err != nil {
			break
		}

		// Pause leg: same target, later time
		now += randomWaypointPause
		if err := track.Append(Waypoint{Time: now, Target: target}); err != nil {
			break
		}
		pos = target
	}

	return track
}
