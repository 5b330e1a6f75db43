package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"cloudgw/internal/config"
	"cloudgw/internal/database"
	"cloudgw/internal/database/migration"
	handlers "cloudgw/internal/http/handler"
	"cloudgw/internal/repository"
	"cloudgw/internal/repository/memory"
	"cloudgw/internal/repository/postgres"
	"cloudgw/internal/service"
	"cloudgw/internal/storage"
)

// RegistryName is the application name the registry process runs under.
const RegistryName = "SERVICE-REGISTRY"

// Registry is an assembled registry process.
type Registry struct {
	App      *fiber.App
	Service  service.RegistryService
	Snapshot service.SnapshotService // nil when object storage is not configured

	db *sql.DB
}

// NewRegistry wires the instance store, registry service, optional snapshot
// storage and HTTP routes described by cfg.
func NewRegistry(ctx context.Context, cfg *config.AppConfig, log *zap.Logger, reg *prometheus.Registry) (*Registry, error) {
	r := &Registry{}

	var (
		repo   repository.InstanceRepository
		pinger handlers.Pinger
	)
	switch strings.ToLower(cfg.Registry.Store) {
	case "", "memory":
		repo = memory.NewInstanceMemory()
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		r.db = db
		repo = postgres.NewInstancePostgres(db)
		pinger = db
	default:
		return nil, fmt.Errorf("unsupported registry store: %s", cfg.Registry.Store)
	}

	metrics, err := service.NewRegistryMetrics(reg)
	if err != nil {
		r.Close()
		return nil, err
	}
	r.Service = service.NewRegistryService(repo, log, service.WithMetrics(metrics))

	if cfg.MinIO.Endpoint != "" {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		r.Snapshot = service.NewSnapshotService(objStore, repo, cfg.Registry.SnapshotKey, log)
	}

	r.App, err = newFiber(RegistryName, log, reg)
	if err != nil {
		r.Close()
		return nil, err
	}
	handlers.RegisterCommonRoutes(r.App, pinger)
	handlers.RegisterRegistryRoutes(r.App, r.Service)

	return r, nil
}

// Close releases the database connection, if any.
func (r *Registry) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
