package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cloudgw/internal/model"
	"cloudgw/internal/repository/memory"
	repoMocks "cloudgw/internal/repository/mocks"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestInstance(app, id string) *model.Instance {
	return &model.Instance{
		InstanceID: id,
		App:        app,
		HostName:   "localhost",
		Port:       8082,
	}
}

func newTestRegistry(t *testing.T) (RegistryService, *fakeClock, *RegistryMetrics) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	metrics, err := NewRegistryMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	svc := NewRegistryService(memory.NewInstanceMemory(), zap.NewNop(), WithClock(clock.Now), WithMetrics(metrics))
	return svc, clock, metrics
}

func TestRegistryService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("applies defaults and normalizes app", func(t *testing.T) {
		svc, clock, metrics := newTestRegistry(t)

		require.NoError(t, svc.Register(ctx, newTestInstance("employee-service", "host:employee-service:8082")))

		inst, err := svc.Instance(ctx, "EMPLOYEE-SERVICE", "host:employee-service:8082")
		require.NoError(t, err)
		assert.Equal(t, "EMPLOYEE-SERVICE", inst.App)
		assert.Equal(t, model.StatusUp, inst.Status)
		assert.Equal(t, 90, inst.LeaseInfo.DurationInSecs)
		assert.Equal(t, clock.Now(), inst.RegisteredAt)
		assert.Equal(t, clock.Now(), inst.LastRenewedAt)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.events.WithLabelValues(EventRegistered)))
	})

	t.Run("re-registration keeps the registration timestamp", func(t *testing.T) {
		svc, clock, _ := newTestRegistry(t)
		first := clock.Now()

		require.NoError(t, svc.Register(ctx, newTestInstance("APP", "1")))
		clock.Advance(time.Minute)

		again := newTestInstance("APP", "1")
		again.Port = 9090
		require.NoError(t, svc.Register(ctx, again))
		assert.Equal(t, first, again.RegisteredAt)

		inst, err := svc.Instance(ctx, "app", "1")
		require.NoError(t, err)
		assert.Equal(t, first, inst.RegisteredAt)
		assert.Equal(t, clock.Now(), inst.LastRenewedAt)
		assert.Equal(t, 9090, inst.Port)
	})

	t.Run("validation errors", func(t *testing.T) {
		svc, _, _ := newTestRegistry(t)

		tests := []struct {
			name string
			inst *model.Instance
		}{
			{name: "nil", inst: nil},
			{name: "missing id", inst: &model.Instance{App: "APP", HostName: "h", Port: 1}},
			{name: "missing host", inst: &model.Instance{InstanceID: "1", App: "APP", Port: 1}},
			{name: "port out of range", inst: &model.Instance{InstanceID: "1", App: "APP", HostName: "h", Port: 70000}},
			{name: "bad status", inst: &model.Instance{InstanceID: "1", App: "APP", HostName: "h", Port: 1, Status: "SLEEPING"}},
			{name: "bad ip", inst: &model.Instance{InstanceID: "1", App: "APP", HostName: "h", Port: 1, IPAddr: "not-an-ip"}},
			{name: "bad health url", inst: &model.Instance{InstanceID: "1", App: "APP", HostName: "h", Port: 1, HealthCheckURL: "::"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := svc.Register(ctx, tt.inst)
				assert.ErrorIs(t, err, ErrInvalidInstance)
			})
		}
	})

	t.Run("repository errors", func(t *testing.T) {
		repo := new(repoMocks.MockInstanceRepository)
		svc := NewRegistryService(repo, zap.NewNop())

		// Register is a single upsert; no read precedes the write.
		repo.On("Save", ctx, mock.AnythingOfType("*model.Instance")).Return(errors.New("write failed")).Once()
		err := svc.Register(ctx, newTestInstance("APP", "1"))
		assert.ErrorContains(t, err, "save instance: write failed")
		repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)

		repo.AssertExpectations(t)
	})
}

func TestRegistryService_RenewCancelStatus(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestRegistry(t)

	require.NoError(t, svc.Register(ctx, newTestInstance("APP", "1")))

	clock.Advance(30 * time.Second)
	require.NoError(t, svc.Renew(ctx, "app", "1"))
	inst, _ := svc.Instance(ctx, "APP", "1")
	assert.Equal(t, clock.Now(), inst.LastRenewedAt)

	assert.ErrorIs(t, svc.Renew(ctx, "APP", "missing"), ErrInstanceNotFound)

	require.NoError(t, svc.SetStatus(ctx, "APP", "1", model.StatusOutOfService))
	inst, _ = svc.Instance(ctx, "APP", "1")
	assert.Equal(t, model.StatusOutOfService, inst.Status)

	assert.ErrorIs(t, svc.SetStatus(ctx, "APP", "1", "BROKEN"), ErrInvalidStatus)
	assert.ErrorIs(t, svc.SetStatus(ctx, "APP", "missing", model.StatusUp), ErrInstanceNotFound)

	require.NoError(t, svc.Cancel(ctx, "APP", "1"))
	assert.ErrorIs(t, svc.Cancel(ctx, "APP", "1"), ErrInstanceNotFound)

	_, err := svc.Instance(ctx, "APP", "1")
	assert.ErrorIs(t, err, ErrInstanceNotFound)
}

func TestRegistryService_Applications(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestRegistry(t)

	apps, err := svc.Applications(ctx)
	require.NoError(t, err)
	assert.NotNil(t, apps.Applications)
	assert.Empty(t, apps.Applications)

	require.NoError(t, svc.Register(ctx, newTestInstance("EMPLOYEE-SERVICE", "e-2")))
	require.NoError(t, svc.Register(ctx, newTestInstance("CUSTOMER-SERVICE", "c-1")))
	require.NoError(t, svc.Register(ctx, newTestInstance("EMPLOYEE-SERVICE", "e-1")))

	apps, err = svc.Applications(ctx)
	require.NoError(t, err)
	require.Len(t, apps.Applications, 2)
	assert.Equal(t, "CUSTOMER-SERVICE", apps.Applications[0].Name)
	assert.Len(t, apps.Applications[0].Instances, 1)
	assert.Equal(t, "EMPLOYEE-SERVICE", apps.Applications[1].Name)
	require.Len(t, apps.Applications[1].Instances, 2)
	assert.Equal(t, "e-1", apps.Applications[1].Instances[0].InstanceID)

	app, err := svc.Application(ctx, "employee-service")
	require.NoError(t, err)
	assert.Equal(t, "EMPLOYEE-SERVICE", app.Name)
	assert.Len(t, app.Instances, 2)

	_, err = svc.Application(ctx, "nobody")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestRegistryService_EvictExpired(t *testing.T) {
	ctx := context.Background()
	svc, clock, metrics := newTestRegistry(t)

	require.NoError(t, svc.Register(ctx, newTestInstance("APP", "quiet")))
	require.NoError(t, svc.Register(ctx, newTestInstance("APP", "chatty")))

	clock.Advance(60 * time.Second)
	require.NoError(t, svc.Renew(ctx, "APP", "chatty"))

	clock.Advance(31 * time.Second)
	n, err := svc.EvictExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Instance(ctx, "APP", "quiet")
	assert.ErrorIs(t, err, ErrInstanceNotFound)
	_, err = svc.Instance(ctx, "APP", "chatty")
	assert.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.events.WithLabelValues(EventEvicted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.instances))
}

func TestRunEviction(t *testing.T) {
	svc := NewRegistryService(memory.NewInstanceMemory(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- RunEviction(ctx, svc, 5*time.Millisecond, zap.NewNop()) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunEviction did not stop after cancel")
	}
}

func TestNewRegistryMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRegistryMetrics(reg)
	require.NoError(t, err)

	_, err = NewRegistryMetrics(reg)
	assert.Error(t, err)
}
