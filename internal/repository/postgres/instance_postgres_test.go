package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudgw/internal/model"
	"cloudgw/internal/repository"
)

var columns = []string{
	"app", "instance_id", "host_name", "ip_addr", "port", "secure_port", "status",
	"home_page_url", "health_check_url", "metadata", "renewal_interval_secs", "lease_duration_secs",
	"registered_at", "last_renewed_at", "last_updated_at",
}

func addRow(rows *sqlmock.Rows, app, id string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(app, id, "localhost", "10.0.0.1", 8082, 0, "UP",
		"", "http://localhost:8082/health", []byte(`{"zone":"a"}`), 30, 90, at, at, at)
}

func TestInstancePostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	now := time.Now().UTC()
	inst := &model.Instance{
		InstanceID: "host:employee-service:8082",
		App:        "EMPLOYEE-SERVICE",
		HostName:   "host",
		Port:       8082,
		Status:     model.StatusUp,
		LeaseInfo:  model.LeaseInfo{RenewalIntervalInSecs: 30, DurationInSecs: 90},
	}

	// An existing row keeps its registered_at; the upsert returns it.
	firstSeen := now.Add(-time.Hour)
	mock.ExpectQuery("INSERT INTO instances (.+) ON CONFLICT (.+) RETURNING registered_at").
		WithArgs("EMPLOYEE-SERVICE", "host:employee-service:8082", "host", "", 8082, 0, "UP", "", "",
			[]byte(`{}`), 30, 90, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"registered_at"}).AddRow(firstSeen))

	inst.RegisteredAt, inst.LastRenewedAt, inst.LastUpdatedAt = now, now, now
	assert.NoError(t, repo.Save(context.Background(), inst))
	assert.Equal(t, firstSeen, inst.RegisteredAt)
	assert.Equal(t, now, inst.LastRenewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM instances WHERE app = (.+) AND instance_id = (.+)").
			WithArgs("EMPLOYEE-SERVICE", "id-1").
			WillReturnRows(addRow(sqlmock.NewRows(columns), "EMPLOYEE-SERVICE", "id-1", time.Now()))

		inst, err := repo.Find(ctx, "EMPLOYEE-SERVICE", "id-1")
		require.NoError(t, err)
		assert.Equal(t, "id-1", inst.InstanceID)
		assert.Equal(t, model.StatusUp, inst.Status)
		assert.Equal(t, "a", inst.Metadata["zone"])
		assert.Equal(t, 90, inst.LeaseInfo.DurationInSecs)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM instances WHERE app").
			WithArgs("EMPLOYEE-SERVICE", "missing").
			WillReturnError(sql.ErrNoRows)

		inst, err := repo.Find(ctx, "EMPLOYEE-SERVICE", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, inst)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	now := time.Now()

	rows := sqlmock.NewRows(columns)
	addRow(rows, "CUSTOMER-SERVICE", "c-1", now)
	addRow(rows, "EMPLOYEE-SERVICE", "e-1", now)
	mock.ExpectQuery("SELECT (.+) FROM instances ORDER BY app, instance_id").WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "CUSTOMER-SERVICE", items[0].App)

	mock.ExpectQuery("SELECT (.+) FROM instances WHERE app = (.+) ORDER BY instance_id").
		WithArgs("NOBODY").
		WillReturnRows(sqlmock.NewRows(columns))

	items, err = repo.ListByApp(context.Background(), "NOBODY")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_Renew(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	at := time.Now()

	mock.ExpectExec("UPDATE instances SET last_renewed_at").
		WithArgs("APP", "1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Renew(context.Background(), "APP", "1", at))

	mock.ExpectExec("UPDATE instances SET last_renewed_at").
		WithArgs("APP", "2", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Renew(context.Background(), "APP", "2", at), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	at := time.Now()

	mock.ExpectExec("UPDATE instances SET status").
		WithArgs("APP", "1", "OUT_OF_SERVICE", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateStatus(context.Background(), "APP", "1", model.StatusOutOfService, at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)

	mock.ExpectExec("DELETE FROM instances WHERE app = (.+) AND instance_id = (.+)").
		WithArgs("APP", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "APP", "1"))

	mock.ExpectExec("DELETE FROM instances WHERE app").
		WithArgs("APP", "1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "APP", "1"), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstancePostgres_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInstancePostgres(db)
	now := time.Now()

	mock.ExpectQuery("DELETE FROM instances WHERE last_renewed_at (.+) RETURNING").
		WithArgs(now).
		WillReturnRows(addRow(sqlmock.NewRows(columns), "APP", "stale", now.Add(-time.Hour)))

	expired, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].InstanceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
