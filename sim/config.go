package sim

import (
	"fmt"
	"math"

	"github.com/inference-sim/queueing-sim/sim/trace"
)

// Config groups the parameters of one run.
type Config struct {
	TotalTime        float64 // simulated time horizon (must be > 0)
	CheckpointPeriod float64 // queue sizes are sampled every period (must be > 0)
	Seed             int64   // master seed for the partitioned RNG
	Trace            trace.TraceConfig
}

// NewConfig creates a Config with tracing disabled.
func NewConfig(totalTime, checkpointPeriod float64, seed int64) Config {
	return Config{
		TotalTime:        totalTime,
		CheckpointPeriod: checkpointPeriod,
		Seed:             seed,
	}
}

// Validate checks that both time parameters are finite and positive and the
// trace level is known.
func (c Config) Validate() error {
	if err := validateFinitePositive("total time", c.TotalTime); err != nil {
		return err
	}
	if err := validateFinitePositive("checkpoint period", c.CheckpointPeriod); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q", c.Trace.Level)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
