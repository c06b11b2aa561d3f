package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queueing-sim/sim"
	"github.com/inference-sim/queueing-sim/sim/scenario"
	"github.com/inference-sim/queueing-sim/sim/trace"
)

var (
	// Scenario selection
	scenarioPath string // YAML scenario file
	presetName   string // built-in scenario preset

	// Overrides applied on top of the scenario
	seed             int64   // Master seed for the partitioned RNG
	totalTime        float64 // Simulated time horizon
	checkpointPeriod float64 // Interval between queue-size samples
	traceLevel       string  // Decision trace verbosity

	logLevel     string // Log verbosity level
	outputFormat string // text or yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queueing-sim",
	Short: "Discrete-event simulator for queueing networks",
}

// overrides holds the flag values the user explicitly set.
type overrides struct {
	seed             *int64
	totalTime        *float64
	checkpointPeriod *float64
	traceLevel       *string
}

// collectOverrides reads which override flags were set on cmd.
func collectOverrides(cmd *cobra.Command) overrides {
	var o overrides
	flags := cmd.Flags()
	if flags.Changed("seed") {
		o.seed = &seed
	}
	if flags.Changed("total-time") {
		o.totalTime = &totalTime
	}
	if flags.Changed("checkpoint-period") {
		o.checkpointPeriod = &checkpointPeriod
	}
	if flags.Changed("trace") {
		o.traceLevel = &traceLevel
	}
	return o
}

func (o overrides) apply(s *scenario.Scenario) {
	if o.seed != nil {
		logrus.Infof("CLI --seed %d overrides scenario seed %d", *o.seed, s.Seed)
		s.Seed = *o.seed
	}
	if o.totalTime != nil {
		s.TotalTime = *o.totalTime
	}
	if o.checkpointPeriod != nil {
		s.CheckpointPeriod = *o.checkpointPeriod
	}
	if o.traceLevel != nil {
		s.TraceLevel = *o.traceLevel
	}
}

// loadScenario resolves exactly one of a scenario file or a preset name.
// Presets are built with presetSeed.
func loadScenario(path, preset string, presetSeed int64) (*scenario.Scenario, error) {
	switch {
	case path != "" && preset != "":
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	case path != "":
		return scenario.Load(path)
	case preset != "":
		newPreset, ok := scenario.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q; valid: %s", preset, strings.Join(presetNames(), ", "))
		}
		return newPreset(presetSeed), nil
	default:
		return nil, fmt.Errorf("one of --scenario or --preset is required")
	}
}

func presetNames() []string {
	names := make([]string, 0, len(scenario.Presets))
	for name := range scenario.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// writeResult renders a finished run as a text report or YAML document.
func writeResult(w io.Writer, res *sim.Result, format string) error {
	switch format {
	case "text":
		res.Print(w)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q; valid: text, yaml", format)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes one simulation of a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		s, err := loadScenario(scenarioPath, presetName, seed)
		if err != nil {
			logrus.Fatalf("unable to load scenario: %v", err)
		}
		collectOverrides(cmd).apply(s)

		startTime := time.Now()
		res, err := s.Run()
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}
		logrus.Infof("Simulation took %s", time.Since(startTime))

		if err := writeResult(os.Stdout, res, outputFormat); err != nil {
			logrus.Fatalf("unable to write result: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerCommonFlags adds the scenario overrides and output flags to cmd.
func registerCommonFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&totalTime, "total-time", 0, "Override the scenario's total simulated time")
	cmd.Flags().Float64Var(&checkpointPeriod, "checkpoint-period", 0, "Override the scenario's queue sampling period")
	cmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.Flags().StringVar(&outputFormat, "output", "text", "Result format (text, yaml)")
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&presetName, "preset", "", "Built-in scenario ("+strings.Join(presetNames(), ", ")+")")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Override the scenario's master seed")
	registerCommonFlags(runCmd)

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
