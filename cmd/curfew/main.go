// Package main is the CLI entry point for curfew.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/curfew/internal/config"
	"github.com/eliteGoblin/focusd/curfew/internal/daemon"
	"github.com/eliteGoblin/focusd/curfew/internal/domain"
	"github.com/eliteGoblin/focusd/curfew/internal/infra"
	"github.com/eliteGoblin/focusd/curfew/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "curfew",
	Short: "Time-of-day blocker - closes an app outside allowed hours",
	Long: `curfew watches for one named process and closes it whenever it runs
inside the restricted hour window. Each attempt is counted for the day
and shown to you in an alert.

It is a deterrent, not a security boundary.`,
	Version:      Version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the blocking loop (Ctrl+C to stop)",
	Long: `Polls the process table every interval. Inside the restricted window
the first running instance of the target is asked to exit, the attempt is
counted and an alert is shown. The loop pauses while the alert is open.`,
	RunE: runRun,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one enforcement cycle immediately",
	Long:  `Runs a single cycle at the current time without starting the loop.`,
	RunE:  runCheck,
}

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show which hours are restricted",
	RunE:  runWindow,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath string
	envFile    string
	target     string
	startHour  int
	endHour    int
	interval   int
	message    string
	logLevel   string
	noAlert    bool
	jsonOutput bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file")
	flags.StringVar(&envFile, "env-file", "", "env file (default .env if present)")
	flags.StringVarP(&target, "target", "t", "", "Process name to block (case-insensitive)")
	flags.IntVar(&startHour, "start-hour", 0, "First restricted hour (0-23)")
	flags.IntVar(&endHour, "end-hour", 0, "First allowed hour after the window (0-23)")
	flags.IntVarP(&interval, "interval", "i", 0, "Seconds between scans")
	flags.StringVar(&message, "message", "", "First line of the alert")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&noAlert, "no-alert", false, "Log alerts instead of showing a dialog")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges file/env config with any flags set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: configPath, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("target") {
		cfg.Target = target
	}
	if flags.Changed("start-hour") {
		cfg.StartHour = startHour
	}
	if flags.Changed("end-hour") {
		cfg.EndHour = endHour
	}
	if flags.Changed("interval") {
		cfg.IntervalSeconds = interval
	}
	if flags.Changed("message") {
		cfg.Message = message
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEnforcer wires the real process table and notifier.
func newEnforcer(cfg *config.Config, logger *zap.Logger) *usecase.EnforcerImpl {
	var notifier domain.Notifier = infra.NewDialogNotifier(logger)
	if noAlert {
		notifier = infra.NewLogNotifier(logger)
	}
	return usecase.NewEnforcer(infra.NewProcessTable(), notifier, cfg.Policy(), logger)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := createLogger(level)
	defer func() { _ = logger.Sync() }()

	p := cfg.Policy()
	zone, _ := time.Now().Zone()
	logger.Info("curfew started",
		zap.String("version", Version),
		zap.String("target", p.Target),
		zap.String("restricted", p.Window.String()),
		zap.String("timezone", zone),
		zap.Duration("interval", p.Interval))
	logger.Info("press Ctrl+C to stop")

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	watcher := daemon.NewWatcher(
		daemon.WatcherConfigFor(p.Interval),
		newEnforcer(cfg, logger),
		domain.SystemClock{},
		logger,
	)
	return watcher.Run(ctx)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := createLogger(level)
	defer func() { _ = logger.Sync() }()

	p := cfg.Policy()
	enforcer := newEnforcer(cfg, logger)

	fmt.Println("\n=== Running Enforcement Check ===")
	result, err := enforcer.Tick(context.Background(), time.Now())
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	fmt.Printf("Target:     %s\n", p.Target)
	fmt.Printf("Restricted: %s\n", p.Window)
	switch {
	case !result.Restricted:
		fmt.Println("Now is inside allowed hours, nothing to do.")
	case !result.Acted():
		fmt.Printf("Scanned %d processes, %s is not running.\n", result.Scanned, p.Target)
	default:
		fmt.Printf("Found %s (PID %d)\n", result.Target.Name, result.Target.PID)
		if result.TerminateErr != nil {
			fmt.Printf("  Termination failed: %v\n", result.TerminateErr)
		} else {
			fmt.Println("  Asked to exit")
		}
		fmt.Printf("  Attempts today: %d\n", result.Attempts)
	}
	fmt.Printf("Day state:  %s\n", enforcer.Snapshot())
	fmt.Println("=================================")
	return nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p := cfg.Policy()
	restricted := make(map[int]bool, 24)
	for _, h := range p.Window.RestrictedHours() {
		restricted[h] = true
	}

	fmt.Printf("\n=== %s restricted %s ===\n", p.Target, p.Window)
	for h := 0; h < 24; h++ {
		state := "allowed"
		if restricted[h] {
			state = "BLOCKED"
		}
		fmt.Printf("  %02d:00  %s\n", h, state)
	}

	now := time.Now()
	if p.Window.IsRestricted(now) {
		fmt.Printf("\nNow (%s): BLOCKED\n", now.Format("15:04"))
	} else {
		fmt.Printf("\nNow (%s): allowed\n", now.Format("15:04"))
	}
	return nil
}

// createLogger builds a console logger on stderr.
func createLogger(level zapcore.Level) *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.Development = false
	config.DisableStacktrace = true
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		// Fallback to a default logger if the config is rejected
		logger, _ = zap.NewDevelopment()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("curfew %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
