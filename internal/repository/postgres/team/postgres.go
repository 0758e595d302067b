package team

import (
	"context"
	"errors"
	"time"

	teamdomain "hatim-app-go/internal/domain/team"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// validID reports whether id fits the uuid team_id column; anything else
// names no team.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(teamdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateTeam(ctx context.Context, team *teamdomain.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *PostgresRepository) GetTeam(ctx context.Context, teamID string) (*teamdomain.Team, error) {
	if !validID(teamID) {
		return nil, teamdomain.ErrTeamNotFound
	}

	var team teamdomain.Team
	if err := r.db.WithContext(ctx).Where("id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamdomain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *PostgresRepository) GetMembership(ctx context.Context, teamID, userID string) (*teamdomain.Membership, error) {
	if !validID(teamID) {
		return nil, teamdomain.ErrMembershipNotFound
	}

	var membership teamdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, teamdomain.ErrMembershipNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (r *PostgresRepository) ListMemberships(ctx context.Context, teamID string) ([]teamdomain.Membership, error) {
	if !validID(teamID) {
		return []teamdomain.Membership{}, nil
	}

	var memberships []teamdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("joined_at asc nulls last").
		Order("requested_at asc").
		Order("user_id asc").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// AddMembership relies on the (team_id, user_id) key: a concurrent insert
// for the same pair is a no-op reported as false.
func (r *PostgresRepository) AddMembership(ctx context.Context, membership *teamdomain.Membership) (bool, error) {
	if !validID(membership.TeamID) {
		return false, teamdomain.ErrTeamNotFound
	}
	result := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(membership)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) PromotePending(ctx context.Context, teamID, userID string, joinedAt time.Time) (bool, error) {
	if !validID(teamID) {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&teamdomain.Membership{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, teamdomain.StatusPending).
		Updates(map[string]interface{}{
			"status":    teamdomain.StatusMember,
			"joined_at": joinedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DeletePending(ctx context.Context, teamID, userID string) (bool, error) {
	if !validID(teamID) {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, teamdomain.StatusPending).
		Delete(&teamdomain.Membership{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) AddUserTeam(ctx context.Context, userID, teamID string) error {
	if !validID(teamID) {
		return teamdomain.ErrTeamNotFound
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&teamdomain.UserTeam{UserID: userID, TeamID: teamID}).Error
}

func (r *PostgresRepository) ListTeamsByUser(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	var teams []teamdomain.Team
	if err := r.db.WithContext(ctx).
		Table("teams").
		Joins("join user_teams on user_teams.team_id = teams.id").
		Where("user_teams.user_id = ?", userID).
		Order("user_teams.added_at asc").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}
