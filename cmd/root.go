package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/callcenter-sim/sim"
	"github.com/inference-sim/callcenter-sim/sim/callcenter"
	"github.com/inference-sim/callcenter-sim/sim/sampling"
	"github.com/inference-sim/callcenter-sim/sim/trace"
)

var (
	seed        int64  // Seed for the partitioned random streams
	logLevel    string // Log verbosity level
	configPath  string // Optional YAML run configuration
	traceLevel  string // Lifecycle trace verbosity
	traceOutput string // Path of the YAML trace export

	// flagConfig receives the values of the simulation flags; only flags set
	// on the command line override the config file.
	flagConfig = callcenter.DefaultConfig()
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "callcenter-sim",
	Short: "Discrete-event simulator for a two-operator call center",
}

// runCmd executes the simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the call-center simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, calls, all)", traceLevel)
		}

		cfg := callcenter.DefaultConfig()
		if configPath != "" {
			cfg, err = loadConfigFile(configPath, cfg)
			if err != nil {
				logrus.Fatalf("Failed to load config: %v", err)
			}
		}
		mergeChangedFlags(cmd.Flags().Changed, &cfg, flagConfig)

		if err := runSimulation(cfg, seed, trace.TraceLevel(traceLevel), traceOutput, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// runSimulation runs one simulation, prints its metrics to out and, when
// traceOutput is set, exports the trace there.
func runSimulation(cfg callcenter.Config, seed int64, level trace.TraceLevel, traceOutput string, out io.Writer) error {
	if traceOutput != "" && (level == "" || level == trace.TraceLevelNone) {
		level = trace.TraceLevelCalls
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: level})

	logrus.Infof("Starting simulation with seed=%d, config=%+v", seed, cfg)
	startTime := time.Now()

	src := sampling.NewPartitioned(sim.NewSimulationKey(seed))
	res, err := callcenter.Run(cfg, src, callcenter.WithTrace(st))
	if err != nil {
		return err
	}
	res.Print(out)
	logrus.Infof("Simulation wall time: %v", time.Since(startTime))

	if traceOutput != "" {
		if err := writeTraceOutput(traceOutput, res, st); err != nil {
			return fmt.Errorf("writing trace output: %w", err)
		}
		logrus.Infof("Trace written to %s", traceOutput)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the random streams")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML file with run configuration; explicit flags override it")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Lifecycle trace level (none, calls, all)")
	runCmd.Flags().StringVar(&traceOutput, "trace-output", "", "Write the trace and its summary as YAML to this file")

	// Arrivals and answering system
	runCmd.Flags().IntVar(&flagConfig.TotalCalls, "total-calls", flagConfig.TotalCalls, "Number of calls to simulate")
	runCmd.Flags().IntVar(&flagConfig.IntakeCapacity, "intake-capacity", flagConfig.IntakeCapacity, "Calls the answering system can take records for at once")
	runCmd.Flags().Float64Var(&flagConfig.InterarrivalMean, "interarrival-mean", flagConfig.InterarrivalMean, "Mean exponential time between calls")
	runCmd.Flags().Float64Var(&flagConfig.RecordMean, "record-mean", flagConfig.RecordMean, "Mean exponential record-taking time")

	// Routing and patience
	runCmd.Flags().Float64Var(&flagConfig.RouteToOp1Probability, "route-to-op1-probability", flagConfig.RouteToOp1Probability, "Probability a call is routed to operator 1")
	runCmd.Flags().Float64Var(&flagConfig.MisrouteProbability, "misroute-probability", flagConfig.MisrouteProbability, "Probability a call is misrouted and hangs up")
	runCmd.Flags().Float64Var(&flagConfig.MaxQueueWait, "max-queue-wait", flagConfig.MaxQueueWait, "Time on hold after which a caller hangs up")

	// Service
	runCmd.Flags().Float64Var(&flagConfig.Op1ServiceMean, "op1-service-mean", flagConfig.Op1ServiceMean, "Operator 1 log-normal service mean")
	runCmd.Flags().Float64Var(&flagConfig.Op1ServiceStd, "op1-service-std", flagConfig.Op1ServiceStd, "Operator 1 log-normal service standard deviation")
	runCmd.Flags().Float64Var(&flagConfig.Op2ServiceMin, "op2-service-min", flagConfig.Op2ServiceMin, "Operator 2 uniform service lower bound")
	runCmd.Flags().Float64Var(&flagConfig.Op2ServiceMax, "op2-service-max", flagConfig.Op2ServiceMax, "Operator 2 uniform service upper bound")

	// Breaks and shifts
	runCmd.Flags().BoolVar(&flagConfig.BreaksEnabled, "breaks", flagConfig.BreaksEnabled, "Let operators take breaks")
	runCmd.Flags().Float64Var(&flagConfig.BreakMeanInterval, "break-mean-interval", flagConfig.BreakMeanInterval, "Mean exponential time between break decisions per operator")
	runCmd.Flags().Float64Var(&flagConfig.BreakDuration, "break-duration", flagConfig.BreakDuration, "Length of a break")
	runCmd.Flags().Float64Var(&flagConfig.ShiftDuration, "shift-duration", flagConfig.ShiftDuration, "Length of a shift window")
	runCmd.Flags().IntVar(&flagConfig.MaxBreaksPerShift, "max-breaks-per-shift", flagConfig.MaxBreaksPerShift, "Break decisions allowed per operator and shift (0 = unlimited)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
