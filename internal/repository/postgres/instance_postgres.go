package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloudgw/internal/model"
	"cloudgw/internal/repository"
)

// InstancePostgres is a PostgreSQL implementation of repository.InstanceRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type InstancePostgres struct {
	db *sql.DB
}

// NewInstancePostgres creates a new InstancePostgres repository.
func NewInstancePostgres(db *sql.DB) *InstancePostgres {
	return &InstancePostgres{db: db}
}

var _ repository.InstanceRepository = (*InstancePostgres)(nil)

const instanceColumns = `app, instance_id, host_name, ip_addr, port, secure_port, status,
		home_page_url, health_check_url, metadata, renewal_interval_secs, lease_duration_secs,
		registered_at, last_renewed_at, last_updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Save upserts an instance keyed by (app, instance_id). On conflict the stored
// registered_at wins and is scanned back into inst.
func (r *InstancePostgres) Save(ctx context.Context, inst *model.Instance) error {
	md := inst.Metadata
	if md == nil {
		md = map[string]string{}
	}
	mdJSON, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	const q = `
		INSERT INTO instances (` + instanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (app, instance_id) DO UPDATE SET
			host_name = EXCLUDED.host_name,
			ip_addr = EXCLUDED.ip_addr,
			port = EXCLUDED.port,
			secure_port = EXCLUDED.secure_port,
			status = EXCLUDED.status,
			home_page_url = EXCLUDED.home_page_url,
			health_check_url = EXCLUDED.health_check_url,
			metadata = EXCLUDED.metadata,
			renewal_interval_secs = EXCLUDED.renewal_interval_secs,
			lease_duration_secs = EXCLUDED.lease_duration_secs,
			last_renewed_at = EXCLUDED.last_renewed_at,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING registered_at
	`
	return r.db.QueryRowContext(ctx, q,
		inst.App,
		inst.InstanceID,
		inst.HostName,
		inst.IPAddr,
		inst.Port,
		inst.SecurePort,
		string(inst.Status),
		inst.HomePageURL,
		inst.HealthCheckURL,
		mdJSON,
		inst.LeaseInfo.RenewalIntervalInSecs,
		inst.LeaseInfo.DurationInSecs,
		inst.RegisteredAt,
		inst.LastRenewedAt,
		inst.LastUpdatedAt,
	).Scan(&inst.RegisteredAt)
}

// Find fetches a single instance.
func (r *InstancePostgres) Find(ctx context.Context, app, id string) (*model.Instance, error) {
	const q = `SELECT ` + instanceColumns + ` FROM instances WHERE app = $1 AND instance_id = $2`
	inst, err := scanInstance(r.db.QueryRowContext(ctx, q, app, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return inst, nil
}

// List returns every instance ordered by app and instance id.
func (r *InstancePostgres) List(ctx context.Context) ([]model.Instance, error) {
	const q = `SELECT ` + instanceColumns + ` FROM instances ORDER BY app, instance_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListByApp returns the instances of one app.
func (r *InstancePostgres) ListByApp(ctx context.Context, app string) ([]model.Instance, error) {
	const q = `SELECT ` + instanceColumns + ` FROM instances WHERE app = $1 ORDER BY instance_id`
	rows, err := r.db.QueryContext(ctx, q, app)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// Renew stamps the lease renewal time.
func (r *InstancePostgres) Renew(ctx context.Context, app, id string, at time.Time) error {
	const q = `UPDATE instances SET last_renewed_at = $3 WHERE app = $1 AND instance_id = $2`
	return r.execOne(ctx, q, app, id, at)
}

// UpdateStatus overrides the instance status.
func (r *InstancePostgres) UpdateStatus(ctx context.Context, app, id string, status model.InstanceStatus, at time.Time) error {
	const q = `UPDATE instances SET status = $3, last_updated_at = $4 WHERE app = $1 AND instance_id = $2`
	return r.execOne(ctx, q, app, id, string(status), at)
}

// Delete removes an instance.
func (r *InstancePostgres) Delete(ctx context.Context, app, id string) error {
	const q = `DELETE FROM instances WHERE app = $1 AND instance_id = $2`
	return r.execOne(ctx, q, app, id)
}

// DeleteExpired removes instances whose lease ended before now.
func (r *InstancePostgres) DeleteExpired(ctx context.Context, now time.Time) ([]model.Instance, error) {
	const q = `
		DELETE FROM instances
		WHERE last_renewed_at + lease_duration_secs * INTERVAL '1 second' < $1
		RETURNING ` + instanceColumns
	rows, err := r.db.QueryContext(ctx, q, now)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *InstancePostgres) execOne(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collect(rows *sql.Rows) ([]model.Instance, error) {
	defer rows.Close()

	items := make([]model.Instance, 0)
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanInstance(row rowScanner) (*model.Instance, error) {
	var (
		inst   model.Instance
		status string
		mdJSON []byte
	)
	if err := row.Scan(
		&inst.App,
		&inst.InstanceID,
		&inst.HostName,
		&inst.IPAddr,
		&inst.Port,
		&inst.SecurePort,
		&status,
		&inst.HomePageURL,
		&inst.HealthCheckURL,
		&mdJSON,
		&inst.LeaseInfo.RenewalIntervalInSecs,
		&inst.LeaseInfo.DurationInSecs,
		&inst.RegisteredAt,
		&inst.LastRenewedAt,
		&inst.LastUpdatedAt,
	); err != nil {
		return nil, err
	}
	inst.Status = model.InstanceStatus(status)
	if len(mdJSON) > 0 {
		if err := json.Unmarshal(mdJSON, &inst.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &inst, nil
}
