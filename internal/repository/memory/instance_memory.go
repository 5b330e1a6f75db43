package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"cloudgw/internal/model"
	"cloudgw/internal/repository"
)

// InstanceMemory keeps leases in process memory. It is safe for concurrent use.
type InstanceMemory struct {
	mu   sync.RWMutex
	apps map[string]map[string]model.Instance
}

// NewInstanceMemory creates an empty in-memory instance repository.
func NewInstanceMemory() *InstanceMemory {
	return &InstanceMemory{apps: make(map[string]map[string]model.Instance)}
}

var _ repository.InstanceRepository = (*InstanceMemory)(nil)

func (r *InstanceMemory) Save(_ context.Context, inst *model.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID, ok := r.apps[inst.App]
	if !ok {
		byID = make(map[string]model.Instance)
		r.apps[inst.App] = byID
	}
	if existing, ok := byID[inst.InstanceID]; ok {
		inst.RegisteredAt = existing.RegisteredAt
	}
	byID[inst.InstanceID] = clone(*inst)
	return nil
}

func (r *InstanceMemory) Find(_ context.Context, app, id string) (*model.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, ok := r.apps[app][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := clone(inst)
	return &out, nil
}

func (r *InstanceMemory) List(_ context.Context) ([]model.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Instance, 0)
	for _, byID := range r.apps {
		for _, inst := range byID {
			items = append(items, clone(inst))
		}
	}
	sortInstances(items)
	return items, nil
}

func (r *InstanceMemory) ListByApp(_ context.Context, app string) ([]model.Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]model.Instance, 0, len(r.apps[app]))
	for _, inst := range r.apps[app] {
		items = append(items, clone(inst))
	}
	sortInstances(items)
	return items, nil
}

func (r *InstanceMemory) Renew(_ context.Context, app, id string, at time.Time) error {
	return r.update(app, id, func(inst *model.Instance) {
		inst.LastRenewedAt = at
	})
}

func (r *InstanceMemory) UpdateStatus(_ context.Context, app, id string, status model.InstanceStatus, at time.Time) error {
	return r.update(app, id, func(inst *model.Instance) {
		inst.Status = status
		inst.LastUpdatedAt = at
	})
}

func (r *InstanceMemory) Delete(_ context.Context, app, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byID := r.apps[app]
	if _, ok := byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(byID, id)
	if len(byID) == 0 {
		delete(r.apps, app)
	}
	return nil
}

func (r *InstanceMemory) DeleteExpired(_ context.Context, now time.Time) ([]model.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := make([]model.Instance, 0)
	for app, byID := range r.apps {
		for id, inst := range byID {
			if inst.Expired(now) {
				expired = append(expired, inst)
				delete(byID, id)
			}
		}
		if len(byID) == 0 {
			delete(r.apps, app)
		}
	}
	sortInstances(expired)
	return expired, nil
}

func (r *InstanceMemory) update(app, id string, fn func(*model.Instance)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, ok := r.apps[app][id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&inst)
	r.apps[app][id] = inst
	return nil
}

// clone copies the metadata map so callers cannot mutate stored state.
func clone(inst model.Instance) model.Instance {
	if inst.Metadata != nil {
		md := make(map[string]string, len(inst.Metadata))
		for k, v := range inst.Metadata {
			md[k] = v
		}
		inst.Metadata = md
	}
	return inst
}

func sortInstances(items []model.Instance) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].App != items[j].App {
			return items[i].App < items[j].App
		}
		return items[i].InstanceID < items[j].InstanceID
	})
}
