// Package cli implements the agrisense operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agrisense/internal/analysis"
	"agrisense/internal/config"
	"agrisense/internal/db"
	"agrisense/internal/inference"
	"agrisense/internal/logging"
	"agrisense/internal/repository"
	"agrisense/internal/service"
)

// Deps is what the commands run against.
type Deps struct {
	DB       *gorm.DB
	History  service.HistoryService
	Analyzer service.Analyzer
	Logger   *zap.Logger
}

// Loader builds Deps and a function releasing them.
type Loader func(ctx context.Context) (*Deps, func(), error)

// NewRootCmd creates the agrisense command tree.
func NewRootCmd(load Loader) *cobra.Command {
	root := &cobra.Command{
		Use:           "agrisense",
		Short:         "AgriSense AI operator tools",
		Long:          "Run migrations, one-off crop analyses and history queries against the configured store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewMigrateCmd(load),
		NewAnalyzeCmd(load),
		NewLoginsCmd(load),
		NewHistoryCmd(load),
	)
	return root
}

// DefaultLoader reads the environment configuration and opens the store and
// inference backend it names.
func DefaultLoader(ctx context.Context) (*Deps, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = logger.Sync()
	}

	generator, err := inference.New(ctx, cfg)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("inference: %w", err)
	}

	return &Deps{
		DB: gormDB,
		History: service.NewHistoryService(
			repository.NewLoginLogRepository(gormDB),
			repository.NewCropQueryRepository(gormDB),
		),
		Analyzer: analysis.NewEngine(generator),
		Logger:   logger,
	}, release, nil
}

func withDeps(cmd *cobra.Command, load Loader, fn func(ctx context.Context, d *Deps) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	d, release, err := load(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, d)
}
