package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dictee/internal/logger"
	"dictee/internal/models"
)

// ProgressRepository persists the whole progress map as one JSON blob
type ProgressRepository struct {
	kv  KVStore
	key string
	log *logger.Logger
}

// NewProgressRepository creates a repository storing its blob under key
func NewProgressRepository(kv KVStore, key string, log *logger.Logger) *ProgressRepository {
	return &ProgressRepository{kv: kv, key: key, log: log}
}

// DeviceProgressKey namespaces the progress key for one device
func DeviceProgressKey(deviceID, key string) string {
	return "device:" + deviceID + ":" + key
}

// Load returns the stored progress. Missing or unreadable blobs yield an
// empty map; only backend failures are returned as errors.
func (r *ProgressRepository) Load(ctx context.Context) (models.ProgressMap, error) {
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return models.ProgressMap{}, nil
	}

	var progress models.ProgressMap
	if err := json.Unmarshal([]byte(raw), &progress); err != nil {
		r.log.Warn("discarding unreadable progress blob", "key", r.key, "error", err)
		return models.ProgressMap{}, nil
	}
	if progress == nil {
		progress = models.ProgressMap{}
	}
	return progress, nil
}

// Save replaces the stored blob with progress
func (r *ProgressRepository) Save(ctx context.Context, progress models.ProgressMap) error {
	if progress == nil {
		progress = models.ProgressMap{}
	}
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	return r.kv.Set(ctx, r.key, string(data))
}

// Clear wipes the blob entirely
func (r *ProgressRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, r.key)
}
