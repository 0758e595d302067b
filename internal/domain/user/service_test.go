package user

import (
	"context"
	"errors"
	"testing"
)

type fakeProfileRepo struct {
	profiles map[string]Profile
}

func (r *fakeProfileRepo) UpsertProfile(ctx context.Context, profile *Profile) error {
	existing, ok := r.profiles[profile.UserID]
	if !ok {
		r.profiles[profile.UserID] = *profile
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
	r.profiles[profile.UserID] = existing
	return nil
}

func (r *fakeProfileRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

func TestUpsertProfileKeepsExistingFields(t *testing.T) {
	repo := &fakeProfileRepo{profiles: make(map[string]Profile)}
	svc := NewService(repo)

	if err := svc.UpsertProfile(context.Background(), ProfileInput{UserID: "u1", DisplayName: "Ayse", Email: "ayse@example.com"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.UpsertProfile(context.Background(), ProfileInput{UserID: "u1", AvatarURL: "https://example.com/a.png"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.DisplayName == nil || *profile.DisplayName != "Ayse" {
		t.Fatalf("expected display name kept, got %v", profile.DisplayName)
	}
	if profile.AvatarURL == nil {
		t.Fatalf("expected avatar set")
	}
}

func TestUpsertProfileRequiresUserID(t *testing.T) {
	svc := NewService(&fakeProfileRepo{profiles: make(map[string]Profile)})

	if err := svc.UpsertProfile(context.Background(), ProfileInput{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := svc.GetProfile(context.Background(), "missing"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
