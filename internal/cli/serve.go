package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/field-visits/internal/catalog"
	"github.com/evcraddock/field-visits/internal/config"
	"github.com/evcraddock/field-visits/internal/db"
	"github.com/evcraddock/field-visits/internal/logging"
	"github.com/evcraddock/field-visits/internal/seed"
	"github.com/evcraddock/field-visits/internal/timer"
	"github.com/evcraddock/field-visits/internal/visit"
	"github.com/evcraddock/field-visits/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port   int
		noSeed bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server.

Settings come from FV_* environment variables or a .env file:
  FV_PORT, FV_DEV_MODE, FV_SEED, FV_TIMEZONE, FV_TICK_INTERVAL

All visits live in memory and are lost when the server stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}
			if noSeed {
				cfg.Seed = false
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (overrides FV_PORT)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with no demo data")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.Setup(cfg.DevMode)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: closing database: %v\n", cerr)
		}
	}()

	cat := catalog.NewRepository(database)
	reg := timer.New(timer.WithInterval(cfg.TickInterval))
	defer reg.StopAll()

	store := visit.NewStore()
	engine := visit.NewEngine(store, reg).WithDirectory(cat)

	if cfg.Seed {
		res, err := seed.Load(store, cat, time.Now().In(loc))
		if err != nil {
			return fmt.Errorf("seeding demo data: %w", err)
		}
		slog.Info("demo data loaded",
			"visits", res.Visits, "brands", res.Brands, "chains", res.Chains, "stores", res.Stores)
	}
	if n := engine.RestoreTimers(); n > 0 {
		slog.Info("timers restored", "running", n)
	}

	slog.Info("starting field visits API",
		"port", cfg.Port, "dev_mode", cfg.DevMode, "timezone", loc.String(), "tick", cfg.TickInterval)

	return web.NewServer(engine, cat, loc).Run(ctx, cfg.Addr())
}
