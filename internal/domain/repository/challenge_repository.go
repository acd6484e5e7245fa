package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codecampus/internal/domain/model"
	"codecampus/internal/platform/logger"
	"codecampus/internal/platform/storage"
)

// ChallengeRepository reads and writes the persisted challenge list as
// one blob. Merging against the compiled-in defaults is the catalog
// service's job; the repository only reports whether a persisted list
// exists at all.
type ChallengeRepository interface {
	// Load returns the persisted list. The second result is false when
	// no usable blob exists (missing or malformed).
	Load(ctx context.Context) ([]model.Challenge, bool)
	Save(ctx context.Context, challenges []model.Challenge) error
}

type kvChallengeRepository struct {
	store storage.Store
	key   string
	log   *logger.Logger
}

func NewKVChallengeRepository(store storage.Store, key string, log *logger.Logger) ChallengeRepository {
	return &kvChallengeRepository{store: store, key: key, log: log}
}

func (r *kvChallengeRepository) Load(ctx context.Context) ([]model.Challenge, bool) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn("failed to read challenge list, using defaults", "error", err)
		}
		return nil, false
	}
	var challenges []model.Challenge
	if err := json.Unmarshal(raw, &challenges); err != nil {
		r.log.Warn("malformed challenge list blob, using defaults", "error", err)
		return nil, false
	}
	return challenges, true
}

func (r *kvChallengeRepository) Save(ctx context.Context, challenges []model.Challenge) error {
	raw, err := json.Marshal(challenges)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge list: %w", err)
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to persist challenge list: %w", err)
	}
	return nil
}
