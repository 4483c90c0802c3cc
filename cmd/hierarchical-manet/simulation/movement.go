package simulation

import (
	"math/rand"
	"time"

	"github.com/hiersim/manet-simulations/pkg/vec"
)

// SeekModel advances followers toward their cluster leader at a configured
// speed with bounded uniform noise, integrated with a fixed step.
type SeekModel struct {
	Speed       float64 // m/s
	NoiseFactor float64 // uniform noise bound per axis
	Dt          float64 // integration step in seconds

	rng *rand.Rand
}

// NewSeekModel creates a follower movement model drawing noise from the
// run's RNG.
func NewSeekModel(speed, noiseFactor float64, dt time.Duration, rng *rand.Rand) *SeekModel {
	return &SeekModel{
		Speed:       speed,
		NoiseFactor: noiseFactor,
		Dt:          dt.Seconds(),
		rng:         rng,
	}
}

// Step moves one follower toward leaderPos. A follower standing exactly on
// its leader gets a zero direction vector, so only noise moves it. Two
// noise values are drawn fresh on every call, X then Y; Z never receives
// noise. No clamping is applied: followers may overshoot the leader or
// leave the nominal area.
func (m *SeekModel) Step(f *Agent, leaderPos vec.Vector3) {
	direction := leaderPos.Sub(f.Position).Normalize()
	noise := vec.Vector3{
		X: m.uniform(-m.NoiseFactor, m.NoiseFactor),
		Y: m.uniform(-m.NoiseFactor, m.NoiseFactor),
		Z: 0,
	}

	velocity := direction.Scale(m.Speed).Add(noise)
	f.Velocity = velocity
	f.Position = f.Position.Add(velocity.Scale(m.Dt))
}

func (m *SeekModel) uniform(lo, hi float64) float64 {
	return lo + m.rng.Float64()*(hi-lo)
}
