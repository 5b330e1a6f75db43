package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"cloudgw/internal/model"
	"cloudgw/internal/repository"
	"cloudgw/internal/storage"
)

// Snapshot is the serialized registry state kept in object storage.
type Snapshot struct {
	TakenAt   time.Time        `json:"taken_at"`
	Instances []model.Instance `json:"instances"`
}

// SnapshotService copies the registry to and from object storage so a restarted
// registry does not begin empty.
type SnapshotService interface {
	// Save writes the current registry contents under the configured key.
	Save(ctx context.Context) error

	// Restore loads the last snapshot into the repository and returns how many
	// instances were restored. A missing snapshot restores nothing, and
	// instances the repository already holds are left untouched.
	Restore(ctx context.Context) (int, error)
}

type snapshotService struct {
	store storage.Storage
	repo  repository.InstanceRepository
	key   string
	log   *zap.Logger
	now   func() time.Time
}

// NewSnapshotService constructs a new SnapshotService.
func NewSnapshotService(store storage.Storage, repo repository.InstanceRepository, key string, log *zap.Logger) SnapshotService {
	return &snapshotService{store: store, repo: repo, key: key, log: log, now: time.Now}
}

func (s *snapshotService) Save(ctx context.Context) error {
	items, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list instances: %w", err)
	}

	b, err := json.Marshal(Snapshot{TakenAt: s.now().UTC(), Instances: items})
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.store.Put(ctx, s.key, bytes.NewReader(b), storage.PutObjectOptions{
		Size:        int64(len(b)),
		ContentType: "application/json",
		Metadata:    map[string]string{"instances": strconv.Itoa(len(items))},
	})
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}

	s.log.Debug("snapshot_saved", zap.String("key", s.key), zap.Int("instances", len(items)))
	return nil
}

func (s *snapshotService) Restore(ctx context.Context) (int, error) {
	rc, _, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			s.log.Info("snapshot_missing", zap.String("key", s.key))
			return 0, nil
		}
		return 0, fmt.Errorf("download snapshot: %w", err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode snapshot: %w", err)
	}

	// Restored leases start over so their owners get a full lease to heartbeat again.
	// Instances already in the repository are newer than the snapshot and win.
	now := s.now().UTC()
	restored, skipped := 0, 0
	for i := range snap.Instances {
		inst := snap.Instances[i]
		_, err := s.repo.Find(ctx, inst.App, inst.InstanceID)
		switch {
		case err == nil:
			skipped++
			continue
		case !errors.Is(err, repository.ErrNotFound):
			return restored, fmt.Errorf("lookup instance %s/%s: %w", inst.App, inst.InstanceID, err)
		}

		inst.LastRenewedAt = now
		if err := s.repo.Save(ctx, &inst); err != nil {
			return restored, fmt.Errorf("restore instance %s/%s: %w", inst.App, inst.InstanceID, err)
		}
		restored++
	}

	s.log.Info("snapshot_restored",
		zap.String("key", s.key),
		zap.Int("instances", restored),
		zap.Int("skipped", skipped),
		zap.Time("taken_at", snap.TakenAt),
	)
	return restored, nil
}

// RunSnapshots saves a snapshot every interval and once more after ctx is done.
func RunSnapshots(ctx context.Context, svc SnapshotService, interval time.Duration, log *zap.Logger) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := svc.Save(final); err != nil {
				log.Error("final_snapshot_failed", zap.Error(err))
			}
			return nil
		case <-ticker.C:
			if err := svc.Save(ctx); err != nil {
				log.Error("snapshot_failed", zap.Error(err))
			}
		}
	}
}
