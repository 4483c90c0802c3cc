package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/hiersim/manet-simulations/cmd/hierarchical-manet/reporting"
)

// Telemetry application constants: each follower streams constant-rate
// telemetry to its cluster leader, starting shortly after the run origin
// and stopping the same margin before the horizon.
const (
	TelemetryPort    = 9
	telemetryRateBps = 256_000 // 256 kbps per follower

	appStartOffset = 2 * time.Second
	appStopMargin  = 2 * time.Second
)

// Link quality parameters for the abstract reception model. Delivery is
// certain inside fullDeliveryRange, impossible beyond cutoffRange, and
// falls off linearly in between. Per-packet delay grows with distance.
const (
	fullDeliveryRange = 50.0  // meters
	cutoffRange       = 250.0 // meters
	baseDelayMs       = 1.0
	delayMsPerMeter   = 0.05
)

// FlowCollector is the flow-counters-in collaborator contract: the run
// controller pulls per-flow observations once at run teardown.
type FlowCollector interface {
	CollectFlows() []reporting.FlowObservation
}

type flowState struct {
	obs      reporting.FlowObservation
	follower uuid.UUID
	leader   uuid.UUID
	carry    float64 // fractional bits accumulated toward the next packet
	started  bool
}

// TelemetryModel is a built-in stand-in for the external traffic
// measurement subsystem. It observes agent positions each tick, accrues
// transmitted packets at the telemetry rate during the application window,
// and models reception with a distance-gated delivery check and a
// distance-proportional delay. Radio contention and routing are
// deliberately not modeled.
type TelemetryModel struct {
	rng        *rand.Rand
	packetSize int
	horizon    time.Duration

	flows  []*flowState // discovery order: cluster A followers, then B
	lastAt time.Duration
}

// NewTelemetryModel creates one flow per follower, addressed with the
// per-cluster subnet plan (cluster A 10.1.1.0/24, cluster B 10.1.2.0/24;
// the leader holds .1, followers .2 upward).
func NewTelemetryModel(registry *Registry, packetSize int, horizon time.Duration, rng *rand.Rand) *TelemetryModel {
	m := &TelemetryModel{
		rng:        rng,
		packetSize: packetSize,
		horizon:    horizon,
	}

	flowID := 1
	for c := ClusterID(0); c < NumClusters; c++ {
		leader := registry.ClusterLeader(c)
		leaderAddr := fmt.Sprintf("10.1.%d.1", int(c)+1)
		for i, f := range registry.Followers(c) {
			m.flows = append(m.flows, &flowState{
				obs: reporting.FlowObservation{
					FlowID:          flowID,
					Source:          fmt.Sprintf("10.1.%d.%d", int(c)+1, i+2),
					Destination:     leaderAddr,
					DestinationPort: TelemetryPort,
				},
				follower: f.ID,
				leader:   leader.ID,
			})
			flowID++
		}
	}

	return m
}

// ObservePositions implements PositionObserver. Packet accrual covers the
// elapsed simulated time since the previous tick, clipped to the
// application window.
func (m *TelemetryModel) ObservePositions(at time.Duration, agents []AgentPosition) {
	prev := m.lastAt
	m.lastAt = at

	stopAt := m.horizon - appStopMargin
	if m.packetSize <= 0 || stopAt <= appStartOffset {
		return
	}
	if at <= appStartOffset || prev >= stopAt {
		return
	}

	// Clip the accrual span to the app window
	from := prev
	if from < appStartOffset {
		from = appStartOffset
	}
	to := at
	if to > stopAt {
		to = stopAt
	}
	dt := (to - from).Seconds()
	if dt <= 0 {
		return
	}

	positions := make(map[uuid.UUID]AgentPosition, len(agents))
	for _, a := range agents {
		positions[a.ID] = a
	}

	packetBits := float64(m.packetSize) * 8
	for _, fs := range m.flows {
		follower, ok1 := positions[fs.follower]
		leader, ok2 := positions[fs.leader]
		if !ok1 || !ok2 {
			continue
		}

		fs.carry += telemetryRateBps * dt
		dist := follower.Position.DistanceTo(leader.Position)
		for fs.carry >= packetBits {
			fs.carry -= packetBits
			m.transmit(fs, dist, at)
		}
	}
}

func (m *TelemetryModel) transmit(fs *flowState, dist float64, at time.Duration) {
	fs.obs.TxPackets++
	fs.obs.TxBytes += uint64(m.packetSize)
	if !fs.started {
		fs.started = true
		fs.obs.FirstTxTime = at.Seconds()
	}

	if m.rng.Float64() >= deliveryProbability(dist) {
		return
	}

	delay := baseDelayMs + dist*delayMsPerMeter
	fs.obs.RxPackets++
	fs.obs.RxBytes += uint64(m.packetSize)
	fs.obs.DelaySumMs += delay
	fs.obs.LastRxTime = at.Seconds() + delay/1000.0
}

// CollectFlows implements FlowCollector, returning flows in discovery order.
func (m *TelemetryModel) CollectFlows() []reporting.FlowObservation {
	out := make([]reporting.FlowObservation, len(m.flows))
	for i, fs := range m.flows {
		out[i] = fs.obs
	}
	return out
}

func deliveryProbability(dist float64) float64 {
	switch {
	case dist <= fullDeliveryRange:
		return 1.0
	case dist >= cutoffRange:
		return 0.0
	default:
		return 1.0 - (dist-fullDeliveryRange)/(cutoffRange-fullDeliveryRange)
	}
}
