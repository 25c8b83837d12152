package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/bookkeeping_core/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bookkeeping_core/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_core/internal/core/services"
	"github.com/SscSPs/bookkeeping_core/internal/events"
	"github.com/SscSPs/bookkeeping_core/internal/middleware"
	"github.com/SscSPs/bookkeeping_core/internal/platform/config"
	"github.com/SscSPs/bookkeeping_core/internal/platform/metrics"
	"github.com/SscSPs/bookkeeping_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/bookkeeping_core/internal/repositories/database/sqlite"
	"github.com/SscSPs/bookkeeping_core/pkg/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

// app is the wired service graph for one command invocation.
type app struct {
	ctx      context.Context
	cfg      *config.Config
	logger   *slog.Logger
	svc      *portssvc.ServiceContainer
	actor    domain.Actor
	registry *prometheus.Registry
	out      io.Writer
	closers  []func()
}

func newApp(ctx context.Context, opts *rootOptions, out io.Writer) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := middleware.NewLogger(cfg.LogFormat, cfg.LogLevel)

	a := &app{
		ctx:    middleware.WithRequestLogger(ctx, logger, opts.actor),
		cfg:    cfg,
		logger: logger,
		actor:  domain.Actor{ID: opts.actor, Privileged: opts.privileged},
		out:    out,
	}

	repos, err := a.openStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	bus := events.NewBus()
	bus.Subscribe("log", events.LogNotifier(logger))

	options := []services.ServiceOption{}
	if cfg.MetricsEnabled {
		var m *metrics.Metrics
		m, a.registry = metrics.NewRegistry()
		options = append(options, services.WithMetrics(m))
	}
	a.svc = services.NewServiceContainer(cfg.ReportConfig(), repos, bus, options...)
	return a, nil
}

// openStore connects to the configured backend and brings its schema up to date.
func (a *app) openStore() (portsrepo.RepositoryProvider, error) {
	switch a.cfg.DatabaseDriver {
	case config.DriverPostgres:
		if err := pgsql.Migrate(a.cfg.DatabaseURL, a.logger); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		pool, err := database.NewPgxPool(a.ctx, a.cfg.DatabaseURL, database.PoolOptions{
			MaxConns:    a.cfg.PgMaxConns,
			PingOnStart: a.cfg.EnableDBCheck,
		})
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("initializing database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
		return pgsql.NewRepositoryProvider(pool), nil

	default:
		db, err := database.OpenSQLite(a.ctx, a.cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		a.closers = append(a.closers, func() { db.Close() })
		if err := sqlite.Migrate(a.ctx, db); err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		return sqlite.NewRepositoryProvider(db), nil
	}
}

// Close releases the store in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// print writes v as indented JSON.
func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeMetrics dumps the registry in the Prometheus text format.
func (a *app) writeMetrics(w io.Writer) error {
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// run adapts fn into a cobra RunE that bootstraps and tears down the app.
func (o *rootOptions) run(fn func(a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx, o, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		runErr := fn(a, args)
		if o.printMetrics {
			if err := a.writeMetrics(cmd.ErrOrStderr()); err != nil {
				a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
			}
		}
		return runErr
	}
}
