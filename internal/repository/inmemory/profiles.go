package inmemory

import (
	"context"
	"sync"
	"time"

	userdomain "hatim-app-go/internal/domain/user"
)

type InMemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]userdomain.Profile
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		profiles: make(map[string]userdomain.Profile),
	}
}

func (r *InMemoryProfileRepository) UpsertProfile(ctx context.Context, profile *userdomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	existing, ok := r.profiles[profile.UserID]
	if !ok {
		stored := *profile
		stored.CreatedAt = now
		stored.UpdatedAt = now
		r.profiles[profile.UserID] = stored
		return nil
	}

	if profile.DisplayName != nil {
		existing.DisplayName = profile.DisplayName
	}
	if profile.Email != nil {
		existing.Email = profile.Email
	}
	if profile.AvatarURL != nil {
		existing.AvatarURL = profile.AvatarURL
	}
	existing.UpdatedAt = now
	r.profiles[profile.UserID] = existing
	return nil
}

func (r *InMemoryProfileRepository) GetProfile(ctx context.Context, userID string) (*userdomain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, userdomain.ErrProfileNotFound
	}
	return &profile, nil
}
