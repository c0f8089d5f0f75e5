package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/node-inspector/api/v1"
	"github.com/kubev2v/node-inspector/internal/conductor"
	"github.com/kubev2v/node-inspector/internal/config"
	"github.com/kubev2v/node-inspector/internal/drivers"
	"github.com/kubev2v/node-inspector/internal/handlers"
	"github.com/kubev2v/node-inspector/internal/server"
	"github.com/kubev2v/node-inspector/internal/services"
	"github.com/kubev2v/node-inspector/internal/store"
	"github.com/kubev2v/node-inspector/internal/store/migrations"
	"github.com/kubev2v/node-inspector/pkg/keystone"
	"github.com/kubev2v/node-inspector/pkg/scheduler"
)

const (
	databaseFile    = "inspector.duckdb"
	shutdownTimeout = 10 * time.Second
)

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the node inspector",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			setupViper()
			cobraflags.PresetRequiredFlags(EnvPrefix, make(map[*pflag.Flag]bool), cmd)

			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			zap.ReplaceGlobals(logger)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer func() { _ = zap.L().Sync() }()
			return run(cmd.Context(), cfg)
		},
	}

	registerFlags(cmd.Flags(), cfg)

	return cmd
}

func registerFlags(flags *pflag.FlagSet, cfg *config.Configuration) {
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port of the REST API")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod (TLS)")

	flags.StringVar(&cfg.Conductor.DataFolder, "data-folder", cfg.Conductor.DataFolder, "Folder holding the node database. Empty keeps it in memory")
	flags.IntVar(&cfg.Conductor.NumWorkers, "num-workers", cfg.Conductor.NumWorkers, "Number of background workers")
	flags.StringSliceVar(&cfg.Conductor.EnabledDrivers, "enabled-drivers", cfg.Conductor.EnabledDrivers, "Hardware drivers to load")
	flags.IntVar(&cfg.Conductor.NodeLockedRetryAttempts, "node-locked-retry-attempts", cfg.Conductor.NodeLockedRetryAttempts, "Attempts to take a locked node")
	flags.DurationVar(&cfg.Conductor.NodeLockedRetryInterval, "node-locked-retry-interval", cfg.Conductor.NodeLockedRetryInterval, "Initial delay between lock attempts")

	flags.BoolVar(&cfg.Inspector.Enabled, "inspector-enabled", cfg.Inspector.Enabled, "Enable out-of-band inspection")
	flags.StringVar(&cfg.Inspector.ServiceURL, "inspector-service-url", cfg.Inspector.ServiceURL, "Inspection service endpoint. Overrides the service catalog")
	flags.StringVar(&cfg.Inspector.AuthType, "inspector-auth-type", cfg.Inspector.AuthType, "Authentication to the inspection service: token or none")
	flags.StringVar(&cfg.Inspector.TokenFile, "inspector-token-file", cfg.Inspector.TokenFile, "File holding the service token")
	flags.StringVar(&cfg.Inspector.CAFile, "inspector-ca-file", cfg.Inspector.CAFile, "CA bundle used to verify the inspection service")
	flags.BoolVar(&cfg.Inspector.Insecure, "inspector-insecure", cfg.Inspector.Insecure, "Skip TLS verification of the inspection service")
	flags.DurationVar(&cfg.Inspector.Timeout, "inspector-timeout", cfg.Inspector.Timeout, "Timeout of a single request to the inspection service")
	flags.IntVar(&cfg.Inspector.Retries, "inspector-retries", cfg.Inspector.Retries, "Retries of failed requests to the inspection service")
	flags.DurationVar(&cfg.Inspector.StatusCheckPeriod, "inspector-status-check-period", cfg.Inspector.StatusCheckPeriod, "Period of the inspection status sweep")

	flags.StringVar(&cfg.Auth.Strategy, "auth-strategy", cfg.Auth.Strategy, "Authentication strategy: keystone or noauth")
	flags.StringToStringVar(&cfg.Auth.Catalog, "auth-catalog", cfg.Auth.Catalog, "Service catalog entries as service-type=url")

	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: console or json")
}

func validateConfiguration(cfg *config.Configuration) error {
	if cfg.Server.ServerMode != server.DevServer && cfg.Server.ServerMode != server.ProductionServer {
		return fmt.Errorf("invalid server mode %q: must be 'dev' or 'prod'", cfg.Server.ServerMode)
	}
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http-port %d", cfg.Server.HTTPPort)
	}
	if cfg.Conductor.NumWorkers < 1 {
		return fmt.Errorf("invalid num-workers %d: must be at least 1", cfg.Conductor.NumWorkers)
	}

	if cfg.Inspector.Enabled {
		if cfg.Auth.Strategy == config.AuthStrategyKeystone && cfg.Inspector.AuthType == config.AuthTypeToken && cfg.Inspector.TokenFile == "" {
			return errors.New("inspector-token-file must be set when token authentication is used")
		}
		if cfg.Inspector.ServiceURL == "" && cfg.Auth.Catalog[services.InspectorServiceType] == "" {
			return fmt.Errorf("inspector-service-url must be set when the catalog has no %s entry", services.InspectorServiceType)
		}
	}

	return cfg.Validate()
}

func databasePath(cfg *config.Configuration) string {
	if cfg.Conductor.DataFolder == "" {
		return ":memory:"
	}
	return filepath.Join(cfg.Conductor.DataFolder, databaseFile)
}

func run(ctx context.Context, cfg *config.Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zap.S().Named("run")

	db, err := store.NewDB(databasePath(cfg))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	sched := scheduler.NewScheduler(cfg.Conductor.NumWorkers)
	defer sched.Close()

	registry := drivers.NewRegistry()
	tasks := conductor.NewTaskManager(st.Nodes(), registry, cfg.Conductor)

	provider := keystone.NewProvider(keystone.Options{
		TokenFile: cfg.Inspector.TokenFile,
		Catalog:   cfg.Auth.Catalog,
		Session: keystone.SessionOptions{
			CAFile:   cfg.Inspector.CAFile,
			Insecure: cfg.Inspector.Insecure,
			Timeout:  cfg.Inspector.Timeout,
			Retries:  cfg.Inspector.Retries,
		},
	})
	factory := services.NewClientFactory(cfg, provider)

	if err := registry.Load(cfg, services.InspectorDeps{Factory: factory, Scheduler: sched, Tasks: tasks}); err != nil {
		return fmt.Errorf("failed to load drivers: %w", err)
	}

	if cfg.Inspector.Enabled {
		poller := services.NewStatusPoller(cfg.Inspector.StatusCheckPeriod, factory, tasks)
		poller.Start(ctx)
		defer poller.Stop()
	}

	h := handlers.New(
		services.NewNodeService(st, tasks, registry),
		services.NewDriverService(registry),
	)

	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, h)
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting server", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode)
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	srv.Stop(shutdownCtx)

	return nil
}
