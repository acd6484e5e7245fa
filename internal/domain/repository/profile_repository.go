package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"codecampus/internal/common"
	"codecampus/internal/domain/model"
	"codecampus/internal/platform/logger"
	"codecampus/internal/platform/storage"
)

// ProfileRepository is the single authoritative surface over the two
// persisted records that make up identity state: the profile map
// (normalized email -> profile) and the session pointer (a denormalized
// copy of the active profile). SaveProfileAndSession composes the two
// writes into one operation so callers cannot update one and forget
// the other.
type ProfileRepository interface {
	GetProfile(ctx context.Context, email string) (*model.UserProfile, error)
	PutProfile(ctx context.Context, profile *model.UserProfile) error
	ListProfiles(ctx context.Context) ([]model.UserProfile, error)
	GetSession(ctx context.Context) (*model.UserProfile, error)
	SetSession(ctx context.Context, profile *model.UserProfile) error
	ClearSession(ctx context.Context) error
	SaveProfileAndSession(ctx context.Context, profile *model.UserProfile) error
}

type kvProfileRepository struct {
	store       storage.Store
	profilesKey string
	sessionKey  string
	log         *logger.Logger

	// mu serializes the load-modify-save cycle on the profile map blob
	// so concurrent writers for different emails cannot clobber each
	// other's entries.
	mu sync.Mutex
}

func NewKVProfileRepository(store storage.Store, profilesKey, sessionKey string, log *logger.Logger) ProfileRepository {
	return &kvProfileRepository{
		store:       store,
		profilesKey: profilesKey,
		sessionKey:  sessionKey,
		log:         log,
	}
}

// loadMap reads the full profile map. A missing or malformed blob is
// logged and treated as empty, never surfaced to the caller.
func (r *kvProfileRepository) loadMap(ctx context.Context) map[string]model.UserProfile {
	raw, err := r.store.Get(ctx, r.profilesKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Warn("failed to read profile map, starting empty", "error", err)
		}
		return map[string]model.UserProfile{}
	}
	profiles := map[string]model.UserProfile{}
	if err := json.Unmarshal(raw, &profiles); err != nil {
		r.log.Warn("malformed profile map blob, starting empty", "error", err)
		return map[string]model.UserProfile{}
	}
	return profiles
}

func (r *kvProfileRepository) saveMap(ctx context.Context, profiles map[string]model.UserProfile) error {
	raw, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile map: %w", err)
	}
	if err := r.store.Set(ctx, r.profilesKey, raw); err != nil {
		return fmt.Errorf("failed to persist profile map: %w", err)
	}
	return nil
}

func (r *kvProfileRepository) GetProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	profiles := r.loadMap(ctx)
	profile, ok := profiles[model.NormalizeEmail(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &profile, nil
}

func (r *kvProfileRepository) PutProfile(ctx context.Context, profile *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	profiles := r.loadMap(ctx)
	profiles[model.NormalizeEmail(profile.Email)] = *profile
	return r.saveMap(ctx, profiles)
}

func (r *kvProfileRepository) ListProfiles(ctx context.Context) ([]model.UserProfile, error) {
	profiles := r.loadMap(ctx)
	out := make([]model.UserProfile, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, profile)
	}
	return out, nil
}

func (r *kvProfileRepository) GetSession(ctx context.Context) (*model.UserProfile, error) {
	raw, err := r.store.Get(ctx, r.sessionKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		r.log.Warn("failed to read session pointer", "error", err)
		return nil, common.ErrNotFound
	}
	profile := &model.UserProfile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		r.log.Warn("malformed session pointer blob", "error", err)
		return nil, common.ErrNotFound
	}
	return profile, nil
}

func (r *kvProfileRepository) SetSession(ctx context.Context, profile *model.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal session pointer: %w", err)
	}
	if err := r.store.Set(ctx, r.sessionKey, raw); err != nil {
		return fmt.Errorf("failed to persist session pointer: %w", err)
	}
	return nil
}

func (r *kvProfileRepository) ClearSession(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.sessionKey); err != nil {
		return fmt.Errorf("failed to clear session pointer: %w", err)
	}
	return nil
}

// SaveProfileAndSession persists the profile into the map and activates
// it as the session pointer. The map write happens first so a failed
// session write leaves the authoritative store current.
func (r *kvProfileRepository) SaveProfileAndSession(ctx context.Context, profile *model.UserProfile) error {
	if err := r.PutProfile(ctx, profile); err != nil {
		return err
	}
	return r.SetSession(ctx, profile)
}
