package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"hatim-app-go/internal/domain/apperr"

	"github.com/google/uuid"
)

type Config struct {
	Metrics  Metrics
	Cache    Cache
	CacheTTL time.Duration
}

type Service struct {
	repo     Repository
	metrics  Metrics
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithConfig(repo, Config{})
}

func NewServiceWithMetrics(repo Repository, metrics Metrics) *Service {
	return NewServiceWithConfig(repo, Config{Metrics: metrics})
}

func NewServiceWithConfig(repo Repository, cfg Config) *Service {
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	cache := cfg.Cache
	if cache == nil || cfg.CacheTTL <= 0 {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		metrics:  metrics,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateTeam(ctx context.Context, adminID, name string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name_required", "name is required")
	}
	if strings.TrimSpace(adminID) == "" {
		return nil, apperr.Validation("user_id_required", "user id is required")
	}

	now := s.now()
	team := Team{
		ID:      uuid.NewString(),
		Name:    name,
		AdminID: adminID,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateTeam(ctx, &team); err != nil {
			return err
		}

		member := Membership{
			TeamID:   team.ID,
			UserID:   adminID,
			Status:   StatusMember,
			JoinedAt: &now,
		}
		if _, err := tx.AddMembership(ctx, &member); err != nil {
			return err
		}

		return tx.AddUserTeam(ctx, adminID, team.ID)
	})
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *Service) GetTeam(ctx context.Context, teamID string) (*TeamView, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, apperr.Validation("team_id_required", "team id is required")
	}
	if view, ok := s.cache.GetByTeamID(teamID); ok {
		return view, nil
	}

	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, teamID)
	if err != nil {
		return nil, err
	}

	view := TeamView{
		Team:           *team,
		Members:        make([]string, 0, len(memberships)),
		PendingMembers: make([]string, 0),
	}
	for _, membership := range memberships {
		switch membership.Status {
		case StatusMember:
			view.Members = append(view.Members, membership.UserID)
		case StatusPending:
			view.PendingMembers = append(view.PendingMembers, membership.UserID)
		}
	}

	s.cache.SetByTeamID(teamID, &view, s.cacheTTL)
	return &view, nil
}

// MemberIDs returns the team's approved members in join order, the order
// pages are handed out in.
func (s *Service) MemberIDs(ctx context.Context, teamID string) ([]string, error) {
	view, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return view.Members, nil
}

func (s *Service) ListUserTeams(ctx context.Context, userID string) ([]Team, error) {
	return s.repo.ListTeamsByUser(ctx, userID)
}

func (s *Service) RequestJoin(ctx context.Context, teamID, userID string) error {
	teamID = strings.TrimSpace(teamID)
	userID = strings.TrimSpace(userID)
	if teamID == "" || userID == "" {
		return apperr.Validation("missing_arguments", "team id and user id are required")
	}

	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return err
	}

	existing, err := s.repo.GetMembership(ctx, teamID, userID)
	if err != nil && !errors.Is(err, ErrMembershipNotFound) {
		return err
	}
	if existing != nil {
		return conflictFor(existing)
	}

	added, err := s.repo.AddMembership(ctx, &Membership{
		TeamID: teamID,
		UserID: userID,
		Status: StatusPending,
	})
	if err != nil {
		return err
	}
	if !added {
		// Lost a race with a concurrent request or approval.
		existing, err := s.repo.GetMembership(ctx, teamID, userID)
		if err != nil {
			return err
		}
		return conflictFor(existing)
	}

	s.cache.DeleteByTeamID(teamID)
	s.metrics.MembershipDecision(DecisionRequested)
	return nil
}

func (s *Service) Approve(ctx context.Context, teamID, userID, callerID string) error {
	if err := s.authorizeAdmin(ctx, teamID, userID, callerID); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		promoted, err := tx.PromotePending(ctx, teamID, userID, s.now())
		if err != nil {
			return err
		}
		if !promoted {
			return ErrRequestNotFound
		}
		return tx.AddUserTeam(ctx, userID, teamID)
	})
	if err != nil {
		return err
	}

	s.cache.DeleteByTeamID(teamID)
	s.metrics.MembershipDecision(DecisionApproved)
	return nil
}

func (s *Service) Reject(ctx context.Context, teamID, userID, callerID string) error {
	if err := s.authorizeAdmin(ctx, teamID, userID, callerID); err != nil {
		return err
	}

	deleted, err := s.repo.DeletePending(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRequestNotFound
	}

	s.cache.DeleteByTeamID(teamID)
	s.metrics.MembershipDecision(DecisionRejected)
	return nil
}

func (s *Service) authorizeAdmin(ctx context.Context, teamID, userID, callerID string) error {
	if strings.TrimSpace(teamID) == "" || strings.TrimSpace(userID) == "" || strings.TrimSpace(callerID) == "" {
		return apperr.Validation("missing_arguments", "team id, user id and caller are required")
	}

	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.AdminID != callerID {
		return ErrNotAdmin
	}
	return nil
}

func conflictFor(membership *Membership) error {
	if membership.Status == StatusMember {
		return ErrAlreadyMember
	}
	return ErrAlreadyPending
}
