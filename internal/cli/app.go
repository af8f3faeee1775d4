package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"correlation-service/internal/config"
	"correlation-service/internal/correlation"
	"correlation-service/internal/database"
	"correlation-service/internal/logging"
	"correlation-service/internal/repository"
	"correlation-service/internal/repository/gormrepo"
	"correlation-service/internal/repository/memrepo"
	"correlation-service/internal/tracing"
	"correlation-service/internal/typedefs"
)

// app is the wired service shared by serve and sync.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	tracing *tracing.Provider
	db      *gorm.DB
	service *correlation.Service
}

// loadConfig reads the configuration with the command's flags layered over
// the environment. Unset flags do not override the environment.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	changed := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed.AddFlag(f)
	})
	// The in-memory repository never opens a database, so skip the
	// postgres settings check unless a driver was asked for.
	if opts.InMemory && changed.Lookup("db-driver") == nil {
		changed.String("db-driver", "", "")
		_ = changed.Set("db-driver", "sqlite")
	}
	return config.Load(changed, opts.EnvFiles...)
}

func newApp(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		SampleRate:   cfg.Tracing.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize tracing: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, tracing: provider}

	access := repository.NewAllowList(cfg.AllowedUsers)
	var repo repository.Repository
	if opts.InMemory {
		logger.Info("using in-memory repository")
		repo = memrepo.NewStore(memrepo.WithAccessPolicy(access))
	} else {
		logger.Info("connecting to database", "driver", cfg.Database.Driver)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			_ = provider.Shutdown(ctx)
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			a.db = db
			_ = a.Close(ctx)
			return nil, err
		}
		a.db = db
		repo = gormrepo.New(db, access)
	}

	if provider.Enabled() {
		repo = tracing.WrapRepository(repo, provider.Tracer())
	}
	a.service = correlation.NewService(typedefs.Default(), correlation.CollaboratorsFrom(repo),
		correlation.WithLogger(logger))
	return a, nil
}

// Close flushes spans and closes the database.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if a.tracing != nil {
		if err := a.tracing.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
