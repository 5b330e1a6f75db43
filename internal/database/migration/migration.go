package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_instances",
		SQL: `CREATE TABLE IF NOT EXISTS instances (
  app                   TEXT        NOT NULL,
  instance_id           TEXT        NOT NULL,
  host_name             TEXT        NOT NULL,
  ip_addr               TEXT        NOT NULL DEFAULT '',
  port                  INTEGER     NOT NULL CHECK (port BETWEEN 1 AND 65535),
  secure_port           INTEGER     NOT NULL DEFAULT 0,
  status                TEXT        NOT NULL DEFAULT 'UP',
  home_page_url         TEXT        NOT NULL DEFAULT '',
  health_check_url      TEXT        NOT NULL DEFAULT '',
  metadata              JSONB       NOT NULL DEFAULT '{}'::jsonb,
  renewal_interval_secs INTEGER     NOT NULL DEFAULT 30,
  lease_duration_secs   INTEGER     NOT NULL DEFAULT 90,
  registered_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_renewed_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  last_updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (app, instance_id)
);`,
	},
	{
		Name: "create_index_instances_last_renewed_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_instances_last_renewed_at ON instances (last_renewed_at);`,
	},
	{
		Name: "create_index_instances_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_instances_status ON instances (status);`,
	},
}

// EnsureMigrated checks if the 'instances' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.instances') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("detail", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.String("error_message", err.Error()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
