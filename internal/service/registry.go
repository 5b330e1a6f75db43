package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"cloudgw/internal/model"
	"cloudgw/internal/repository"
)

var (
	ErrInstanceNotFound    = errors.New("instance not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidInstance     = errors.New("invalid instance")
	ErrInvalidStatus       = errors.New("invalid status")
)

// RegistryService defines the lease-based registry use cases.
type RegistryService interface {
	// Register stores or replaces an instance and starts a fresh lease.
	// A re-registration keeps the original registration timestamp.
	Register(ctx context.Context, inst *model.Instance) error

	// Renew extends the lease of a registered instance.
	Renew(ctx context.Context, app, id string) error

	// Cancel removes an instance before its lease ends.
	Cancel(ctx context.Context, app, id string) error

	// SetStatus overrides the status reported by an instance.
	SetStatus(ctx context.Context, app, id string, status model.InstanceStatus) error

	// Applications returns every registered instance grouped by application.
	Applications(ctx context.Context) (*model.Applications, error)

	// Application returns the instances of one application.
	Application(ctx context.Context, app string) (*model.Application, error)

	// Instance returns one registered instance.
	Instance(ctx context.Context, app, id string) (*model.Instance, error)

	// EvictExpired drops instances whose lease ran out and returns how many were removed.
	EvictExpired(ctx context.Context) (int, error)
}

// RegistryOption customizes a registry service.
type RegistryOption func(*registryService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(s *registryService) { s.now = now }
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *RegistryMetrics) RegistryOption {
	return func(s *registryService) { s.metrics = m }
}

type registryService struct {
	repo     repository.InstanceRepository
	validate *validator.Validate
	metrics  *RegistryMetrics
	log      *zap.Logger
	now      func() time.Time
}

// NewRegistryService constructs a new RegistryService.
func NewRegistryService(repo repository.InstanceRepository, log *zap.Logger, opts ...RegistryOption) RegistryService {
	s := &registryService{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *registryService) Register(ctx context.Context, inst *model.Instance) error {
	if inst == nil {
		return fmt.Errorf("%w: instance is required", ErrInvalidInstance)
	}
	inst.ApplyDefaults()
	if err := s.validate.Struct(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInstance, err)
	}

	// Save keeps the stored RegisteredAt when this replaces an existing copy.
	now := s.now().UTC()
	inst.RegisteredAt = now
	inst.LastRenewedAt = now
	inst.LastUpdatedAt = now

	if err := s.repo.Save(ctx, inst); err != nil {
		return fmt.Errorf("save instance: %w", err)
	}

	s.metrics.observe(EventRegistered, 1)
	s.log.Info("instance_registered",
		zap.String("app", inst.App),
		zap.String("instance_id", inst.InstanceID),
		zap.String("status", string(inst.Status)),
		zap.Bool("replaced", inst.RegisteredAt.Before(now)),
	)
	return nil
}

func (s *registryService) Renew(ctx context.Context, app, id string) error {
	app = model.NormalizeApp(app)
	if err := s.repo.Renew(ctx, app, id, s.now().UTC()); err != nil {
		return translateNotFound(err)
	}
	s.metrics.observe(EventRenewed, 1)
	s.log.Debug("instance_renewed", zap.String("app", app), zap.String("instance_id", id))
	return nil
}

func (s *registryService) Cancel(ctx context.Context, app, id string) error {
	app = model.NormalizeApp(app)
	if err := s.repo.Delete(ctx, app, id); err != nil {
		return translateNotFound(err)
	}
	s.metrics.observe(EventCancelled, 1)
	s.log.Info("instance_cancelled", zap.String("app", app), zap.String("instance_id", id))
	return nil
}

func (s *registryService) SetStatus(ctx context.Context, app, id string, status model.InstanceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	app = model.NormalizeApp(app)
	if err := s.repo.UpdateStatus(ctx, app, id, status, s.now().UTC()); err != nil {
		return translateNotFound(err)
	}
	s.metrics.observe(EventStatus, 1)
	s.log.Info("instance_status_changed",
		zap.String("app", app),
		zap.String("instance_id", id),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *registryService) Applications(ctx context.Context) (*model.Applications, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := &model.Applications{Applications: make([]model.Application, 0)}
	for _, inst := range items {
		n := len(res.Applications)
		if n == 0 || res.Applications[n-1].Name != inst.App {
			res.Applications = append(res.Applications, model.Application{Name: inst.App})
			n++
		}
		res.Applications[n-1].Instances = append(res.Applications[n-1].Instances, inst)
	}
	return res, nil
}

func (s *registryService) Application(ctx context.Context, app string) (*model.Application, error) {
	app = model.NormalizeApp(app)
	items, err := s.repo.ListByApp(ctx, app)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrApplicationNotFound
	}
	return &model.Application{Name: app, Instances: items}, nil
}

func (s *registryService) Instance(ctx context.Context, app, id string) (*model.Instance, error) {
	inst, err := s.repo.Find(ctx, model.NormalizeApp(app), id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return inst, nil
}

func (s *registryService) EvictExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	for _, inst := range expired {
		s.log.Warn("instance_evicted",
			zap.String("app", inst.App),
			zap.String("instance_id", inst.InstanceID),
			zap.Time("last_renewed_at", inst.LastRenewedAt),
		)
	}
	s.metrics.observe(EventEvicted, len(expired))

	if s.metrics != nil {
		remaining, err := s.repo.List(ctx)
		if err != nil {
			return len(expired), fmt.Errorf("count instances: %w", err)
		}
		s.metrics.setInstances(len(remaining))
	}
	return len(expired), nil
}

// RunEviction calls EvictExpired every interval until ctx is done.
func RunEviction(ctx context.Context, svc RegistryService, interval time.Duration, log *zap.Logger) error {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := svc.EvictExpired(ctx)
			if err != nil {
				log.Error("eviction_failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("eviction_completed", zap.Int("evicted", n))
			}
		}
	}
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInstanceNotFound
	}
	return err
}
