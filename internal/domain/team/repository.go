package team

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	GetMembership(ctx context.Context, teamID, userID string) (*Membership, error)
	// ListMemberships returns rows ordered by join time, then request time.
	ListMemberships(ctx context.Context, teamID string) ([]Membership, error)
	// AddMembership inserts the row unless one already exists for the pair.
	AddMembership(ctx context.Context, membership *Membership) (bool, error)
	// PromotePending turns a pending row into a member row. False when no
	// pending row exists.
	PromotePending(ctx context.Context, teamID, userID string, joinedAt time.Time) (bool, error)
	DeletePending(ctx context.Context, teamID, userID string) (bool, error)
	AddUserTeam(ctx context.Context, userID, teamID string) error
	ListTeamsByUser(ctx context.Context, userID string) ([]Team, error)
}
