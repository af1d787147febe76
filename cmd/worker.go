package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers such as the periodic inventory integrity check.`,
}

var integrityWorkerCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Start the inventory integrity worker",
	Long:  `Periodically report equipment marked "Asignado" without an active assignment backing it.`,
	Run: func(cmd *cobra.Command, args []string) {
		startIntegrityWorker()
	},
}

var (
	integrityOnce     bool
	integrityInterval time.Duration
)

func startIntegrityWorker() {
	app, err := newApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	logger := app.Logger
	interval := integrityInterval
	if interval <= 0 {
		interval = app.Config.Integrity.Interval
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if integrityOnce {
		if n := runIntegrityCheck(ctx, app); n < 0 {
			os.Exit(1)
		}
		return
	}

	logger.Info("integrity worker started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	runIntegrityCheck(ctx, app)
	for {
		select {
		case <-ctx.Done():
			logger.Info("received signal, shutting down integrity worker")
			return
		case <-ticker.C:
			runIntegrityCheck(ctx, app)
		}
	}
}

// runIntegrityCheck logs drifted equipment and returns how many were found, or -1 on failure.
func runIntegrityCheck(ctx context.Context, app *App) int {
	drift, err := app.Dashboard.IntegrityDrift(ctx)
	if err != nil {
		app.Logger.Error("integrity check failed", "error", err)
		return -1
	}
	if len(drift) == 0 {
		app.Logger.Info("integrity check passed")
		return 0
	}

	tags := make([]string, 0, len(drift))
	for _, e := range drift {
		tags = append(tags, e.AssetTag)
		app.Logger.Warn("equipment marked assigned without an active assignment",
			"equipment_id", e.ID,
			"placa", e.AssetTag)
	}
	app.Logger.Warn("integrity drift detected", "count", len(drift), "placas", tags)
	return len(drift)
}

func init() {
	integrityWorkerCmd.Flags().BoolVar(&integrityOnce, "once", false, "Run a single check and exit")
	integrityWorkerCmd.Flags().DurationVar(&integrityInterval, "interval", 0, "Check interval (overrides config)")

	workerCmd.AddCommand(integrityWorkerCmd)
}
