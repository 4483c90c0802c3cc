package config

import (
	"fmt"
	"time"

	"github.com/hiersim/manet-simulations/pkg/logger"
)

// Formation modes for the cluster leaders. RigidOffset keeps both leaders
// at a fixed offset from the super-leader; IndependentWaypoint gives each
// leader its own random-waypoint track for the whole run.
const (
	FormationRigidOffset         = "rigid_offset"
	FormationIndependentWaypoint = "independent_waypoint"
)

// Config holds the configuration for one Hierarchical MANET experiment batch
type Config struct {
	NodesPerCluster int     // cluster size including the leader
	SimTime         float64 // seconds
	AreaSize        float64 // side length in meters
	FollowerSpeed   float64 // m/s
	NoiseFactor     float64 // uniform noise bound for follower movement
	PacketSize      int     // bytes, the varying experiment parameter
	NumRuns         int
	TickInterval    float64 // seconds between mobility updates
	FormationMode   string
	OutputDir       string
}

// SimDuration returns the simulation horizon as a time.Duration.
func (c *Config) SimDuration() time.Duration {
	return time.Duration(c.SimTime * float64(time.Second))
}

// Tick returns the mobility update interval as a time.Duration.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickInterval * float64(time.Second))
}

// ValidateAndParse parses raw parameters into a Config. Only type errors are
// fatal; out-of-range values (negative speed, zero area) are accepted after
// a warning, since degenerate motion is a legitimate experiment input.
func ValidateAndParse(params map[string]interface{}) (*Config, error) {
	cfg := &Config{
		NodesPerCluster: 5,
		SimTime:         160.0,
		AreaSize:        200.0,
		FollowerSpeed:   1.5,
		NoiseFactor:     1.0,
		PacketSize:      1024,
		NumRuns:         1,
		TickInterval:    0.1,
		FormationMode:   FormationRigidOffset,
		OutputDir:       ".",
	}

	var err error
	if cfg.NodesPerCluster, err = intParam(params, "nodesPerCluster", cfg.NodesPerCluster); err != nil {
		return nil, err
	}
	if cfg.SimTime, err = floatParam(params, "simTime", cfg.SimTime); err != nil {
		return nil, err
	}
	if cfg.AreaSize, err = floatParam(params, "areaSize", cfg.AreaSize); err != nil {
		return nil, err
	}
	if cfg.FollowerSpeed, err = floatParam(params, "followerSpeed", cfg.FollowerSpeed); err != nil {
		return nil, err
	}
	if cfg.NoiseFactor, err = floatParam(params, "noiseFactor", cfg.NoiseFactor); err != nil {
		return nil, err
	}
	if cfg.PacketSize, err = intParam(params, "packetSizei", cfg.PacketSize); err != nil {
		return nil, err
	}
	if cfg.NumRuns, err = intParam(params, "numRuns", cfg.NumRuns); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = floatParam(params, "tickInterval", cfg.TickInterval); err != nil {
		return nil, err
	}
	if v, ok := params["formationMode"]; ok {
		cfg.FormationMode = fmt.Sprintf("%v", v)
	}
	if v, ok := params["outputDir"]; ok {
		cfg.OutputDir = fmt.Sprintf("%v", v)
	}

	switch cfg.FormationMode {
	case FormationRigidOffset, FormationIndependentWaypoint:
	default:
		return nil, fmt.Errorf("formationMode must be %q or %q, got %q",
			FormationRigidOffset, FormationIndependentWaypoint, cfg.FormationMode)
	}

	if cfg.TickInterval <= 0 {
		return nil, fmt.Errorf("tickInterval must be greater than 0 seconds")
	}
	if cfg.NumRuns < 0 {
		return nil, fmt.Errorf("numRuns must not be negative")
	}

	warnIfDegenerate(cfg)
	return cfg, nil
}

func warnIfDegenerate(cfg *Config) {
	if cfg.FollowerSpeed < 0 {
		logger.Warnf("followerSpeed %g is negative; followers will move away from their leader", cfg.FollowerSpeed)
	}
	if cfg.AreaSize <= 0 {
		logger.Warnf("areaSize %g collapses the area; all waypoints will land at the origin", cfg.AreaSize)
	}
	if cfg.NodesPerCluster < 2 {
		logger.Warnf("nodesPerCluster %d leaves clusters without followers", cfg.NodesPerCluster)
	}
	if cfg.SimTime < 0 {
		logger.Warnf("simTime %g is negative; runs will execute zero ticks", cfg.SimTime)
	}
}

func intParam(params map[string]interface{}, name string, def int) (int, error) {
	v, ok := params[name]
	if !ok {
		return def, nil
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case float64:
		return int(val), nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

func floatParam(params map[string]interface{}, name string, def float64) (float64, error) {
	v, ok := params[name]
	if !ok {
		return def, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}
