package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/queueing-sim/sim"
	"github.com/inference-sim/queueing-sim/sim/scenario"
)

var (
	sweepScenarios   []string // scenario files
	sweepPresets     []string // preset names
	sweepSeeds       []int64  // seeds applied to every scenario
	sweepParallelism int      // max concurrent runs
)

// sweepJob is one scenario and seed combination.
type sweepJob struct {
	Name     string
	Scenario *scenario.Scenario
	Seed     int64
}

// sweepRun is the outcome of one sweepJob.
type sweepRun struct {
	ID       string      `yaml:"run_id"`
	Scenario string      `yaml:"scenario"`
	Seed     int64       `yaml:"seed"`
	Result   *sim.Result `yaml:"result"`
}

// expandSweep builds the Cartesian product of scenarios and seeds. Each job
// gets its own shallow copy of the scenario with the seed replaced.
func expandSweep(names []string, scenarios []*scenario.Scenario, seeds []int64) []sweepJob {
	jobs := make([]sweepJob, 0, len(scenarios)*max(len(seeds), 1))
	for i, s := range scenarios {
		if len(seeds) == 0 {
			jobs = append(jobs, sweepJob{Name: names[i], Scenario: s, Seed: s.Seed})
			continue
		}
		for _, seed := range seeds {
			c := *s
			c.Seed = seed
			jobs = append(jobs, sweepJob{Name: names[i], Scenario: &c, Seed: seed})
		}
	}
	return jobs
}

// runSweep runs every job with at most parallelism runs in flight. Runs
// share no mutable state. Results are returned in job order; the first
// failure cancels the jobs not yet started.
func runSweep(ctx context.Context, jobs []sweepJob, parallelism int) ([]sweepRun, error) {
	runs := make([]sweepRun, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := uuid.NewString()
			log := logrus.WithFields(logrus.Fields{"run": id, "scenario": job.Name, "seed": job.Seed})
			log.Debug("sweep run started")

			res, err := job.Scenario.Run()
			if err != nil {
				return fmt.Errorf("%s (seed %d): %w", job.Name, job.Seed, err)
			}
			log.Infof("sweep run finished after %d steps", res.Steps)
			runs[i] = sweepRun{ID: id, Scenario: job.Name, Seed: job.Seed, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return runs, nil
}

// writeSweep renders every run in order.
func writeSweep(w io.Writer, runs []sweepRun, format string) error {
	switch format {
	case "text":
		for _, r := range runs {
			fmt.Fprintf(w, "##### Run %s: %s seed=%d #####\n", r.ID, r.Scenario, r.Seed)
			r.Result.Print(w)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(runs); err != nil {
			return fmt.Errorf("encoding sweep: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q; valid: text, yaml", format)
	}
}

// loadSweepScenarios loads every file and preset, applying the overrides.
func loadSweepScenarios(paths, presets []string, o overrides) ([]string, []*scenario.Scenario, error) {
	var names []string
	var scenarios []*scenario.Scenario
	for _, p := range paths {
		s, err := loadScenario(p, "", 0)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)))
		scenarios = append(scenarios, s)
	}
	for _, p := range presets {
		s, err := loadScenario("", p, 0)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, p)
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 {
		return nil, nil, fmt.Errorf("at least one --scenario or --preset is required")
	}
	for _, s := range scenarios {
		o.apply(s)
	}
	return names, scenarios, nil
}

// sweepCmd runs scenarios × seeds concurrently
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run several scenarios over several seeds in parallel",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		names, scenarios, err := loadSweepScenarios(sweepScenarios, sweepPresets, collectOverrides(cmd))
		if err != nil {
			logrus.Fatalf("unable to load scenarios: %v", err)
		}
		jobs := expandSweep(names, scenarios, sweepSeeds)
		logrus.Infof("Starting sweep of %d runs with parallelism %d", len(jobs), sweepParallelism)

		runs, err := runSweep(cmd.Context(), jobs, sweepParallelism)
		if err != nil {
			logrus.Fatalf("sweep failed: %v", err)
		}
		if err := writeSweep(os.Stdout, runs, outputFormat); err != nil {
			logrus.Fatalf("unable to write results: %v", err)
		}
	},
}

func init() {
	sweepCmd.Flags().StringSliceVar(&sweepScenarios, "scenario", nil, "YAML scenario files (repeatable)")
	sweepCmd.Flags().StringSliceVar(&sweepPresets, "preset", nil, "Built-in scenarios (repeatable)")
	sweepCmd.Flags().Int64SliceVar(&sweepSeeds, "seeds", nil, "Seeds to run every scenario with; defaults to each scenario's own seed")
	sweepCmd.Flags().IntVar(&sweepParallelism, "parallelism", runtime.GOMAXPROCS(0), "Maximum number of concurrent runs")
	registerCommonFlags(sweepCmd)

	rootCmd.AddCommand(sweepCmd)
}
