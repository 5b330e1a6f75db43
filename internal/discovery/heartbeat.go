package discovery

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"cloudgw/internal/model"
)

// Heartbeat keeps one instance registered for as long as its context lives.
type Heartbeat struct {
	registrar Registrar
	inst      *model.Instance
	interval  time.Duration
	log       *zap.Logger
	backOff   func() backoff.BackOff
}

// HeartbeatOption customizes a Heartbeat.
type HeartbeatOption func(*Heartbeat)

// WithBackOff replaces the registration retry policy.
func WithBackOff(newBackOff func() backoff.BackOff) HeartbeatOption {
	return func(h *Heartbeat) { h.backOff = newBackOff }
}

// NewHeartbeat creates a heartbeat that renews inst every interval.
func NewHeartbeat(r Registrar, inst *model.Instance, interval time.Duration, log *zap.Logger, opts ...HeartbeatOption) *Heartbeat {
	if interval <= 0 {
		interval = time.Duration(model.DefaultRenewalIntervalSecs) * time.Second
	}
	h := &Heartbeat{
		registrar: r,
		inst:      inst,
		interval:  interval,
		log:       log,
		backOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxInterval = 30 * time.Second
			return b
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run registers the instance, renews it every interval and deregisters it once
// ctx is done. Registry failures are logged and retried, never returned, so a
// registry outage does not take the service down with it.
func (h *Heartbeat) Run(ctx context.Context) error {
	if err := h.register(ctx); err != nil {
		return nil
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.deregister()
			return nil
		case <-ticker.C:
			err := h.registrar.Renew(ctx, h.inst)
			switch {
			case err == nil:
			case errors.Is(err, ErrNotRegistered):
				h.log.Warn("instance_lease_lost", h.fields()...)
				if err := h.register(ctx); err != nil {
					return nil
				}
			case ctx.Err() == nil:
				h.log.Warn("instance_renew_failed", append(h.fields(), zap.Error(err))...)
			}
		}
	}
}

// register retries until the registry accepts the instance or ctx is done.
func (h *Heartbeat) register(ctx context.Context) error {
	b := h.backOff()
	for attempt := 1; ; attempt++ {
		err := h.registrar.Register(ctx, h.inst)
		if err == nil {
			h.log.Info("instance_registered", append(h.fields(), zap.Int("attempt", attempt))...)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait := b.NextBackOff()
		h.log.Warn("instance_register_failed",
			append(h.fields(), zap.Error(err), zap.Int("attempt", attempt), zap.Duration("retry_in", wait))...)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (h *Heartbeat) deregister() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.registrar.Deregister(ctx, h.inst); err != nil {
		h.log.Warn("instance_deregister_failed", append(h.fields(), zap.Error(err))...)
		return
	}
	h.log.Info("instance_deregistered", h.fields()...)
}

func (h *Heartbeat) fields() []zap.Field {
	return []zap.Field{
		zap.String("app", h.inst.App),
		zap.String("instance_id", h.inst.InstanceID),
	}
}
