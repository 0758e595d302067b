package user

import (
	"context"
	"strings"

	"hatim-app-go/internal/domain/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertProfile(ctx context.Context, input ProfileInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return apperr.Validation("user_id_required", "user id is required")
	}

	profile := Profile{UserID: input.UserID}
	if input.DisplayName != "" {
		profile.DisplayName = &input.DisplayName
	}
	if input.Email != "" {
		profile.Email = &input.Email
	}
	if input.AvatarURL != "" {
		profile.AvatarURL = &input.AvatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation("user_id_required", "user id is required")
	}
	return s.repo.GetProfile(ctx, userID)
}
