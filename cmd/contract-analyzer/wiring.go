package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application"
	"github.com/bryanwahyu/contract-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/contract-analyzer/internal/application/export"
	"github.com/bryanwahyu/contract-analyzer/internal/config"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/audit"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/ai/provider"
	mysqlp "github.com/bryanwahyu/contract-analyzer/internal/infra/db/mysql"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/db/postgres"
	"github.com/bryanwahyu/contract-analyzer/internal/infra/storage"
	"github.com/bryanwahyu/contract-analyzer/internal/middleware"
)

// services holds everything both subcommands share.
type services struct {
	analysis *analysis.Service
	exporter *export.Exporter
	checkers map[string]middleware.HealthChecker
	db       *sql.DB
}

func (s *services) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

type auditRepo interface {
	audit.Repository
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

func buildServices(ctx context.Context, cfg *config.Config, log *zap.Logger) (*services, error) {
	client, model, err := provider.New(provider.Settings{
		Provider:  cfg.AI.Provider,
		Model:     cfg.AI.Model,
		BaseURL:   cfg.AI.BaseURL,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	})
	if err != nil {
		return nil, err
	}

	s := &services{checkers: map[string]middleware.HealthChecker{}}
	clock := application.SystemClock{}
	s.analysis = &analysis.Service{
		Client:   client,
		Clock:    clock,
		Log:      log.Named("analysis"),
		Provider: cfg.AI.Provider,
		Model:    model,
	}
	s.exporter = &export.Exporter{Clock: clock, Log: log.Named("export")}

	if cfg.Audit.Driver != "" {
		var repo auditRepo
		switch cfg.Audit.Driver {
		case config.DriverMySQL:
			s.db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
			if err == nil {
				repo = mysqlp.NewAuditRepository(s.db)
			}
		case config.DriverPostgres:
			s.db, err = postgres.Connect(ctx, cfg.PostgresDSN())
			if err == nil {
				repo = postgres.NewAuditRepository(s.db)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%s connect error: %w", cfg.Audit.Driver, err)
		}
		if err := repo.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.analysis.Audit = repo
		s.checkers["audit"] = middleware.CheckerFunc(repo.Ping)
		log.Info("audit log enabled", zap.String("driver", cfg.Audit.Driver))
	}

	if cfg.Minio.Enabled {
		archive, err := storage.New(ctx, storage.Options{
			Endpoint:      cfg.Minio.Endpoint,
			Region:        cfg.Minio.Region,
			Bucket:        cfg.Minio.BucketName,
			AccessKey:     cfg.Minio.AccessKey,
			SecretKey:     cfg.Minio.SecretKey,
			UseSSL:        cfg.Minio.UseSSL,
			PresignExpiry: cfg.Minio.PresignExpiry,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("minio init error: %w", err)
		}
		s.exporter.Archive = archive
		s.checkers["archive"] = archive
		log.Info("export archive enabled", zap.String("bucket", cfg.Minio.BucketName))
	}

	return s, nil
}
