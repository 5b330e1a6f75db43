package repository

import (
	"context"
	"time"

	"cloudgw/internal/model"
)

// InstanceRepository persists registry leases. No business logic here:
// validation and lease defaults are applied by the service layer.
type InstanceRepository interface {
	// Save inserts the instance or replaces the stored copy with the same (app, id).
	// A replaced copy keeps its stored registration timestamp, which is written
	// back into inst.RegisteredAt. The read and the write are atomic.
	Save(ctx context.Context, inst *model.Instance) error

	// Find returns one instance or ErrNotFound.
	Find(ctx context.Context, app, id string) (*model.Instance, error)

	// List returns all instances ordered by app then instance id.
	List(ctx context.Context) ([]model.Instance, error)

	// ListByApp returns the instances of one app ordered by instance id.
	// An unknown app yields an empty slice, not an error.
	ListByApp(ctx context.Context, app string) ([]model.Instance, error)

	// Renew moves the lease forward to at. Returns ErrNotFound for unknown instances.
	Renew(ctx context.Context, app, id string, at time.Time) error

	// UpdateStatus overrides the reported status. Returns ErrNotFound for unknown instances.
	UpdateStatus(ctx context.Context, app, id string, status model.InstanceStatus, at time.Time) error

	// Delete removes an instance. Returns ErrNotFound when nothing was removed.
	Delete(ctx context.Context, app, id string) error

	// DeleteExpired removes every instance whose lease ended before now and returns them.
	DeleteExpired(ctx context.Context, now time.Time) ([]model.Instance, error)
}
