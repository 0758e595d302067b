package team

import "time"

const (
	StatusMember  = "member"
	StatusPending = "pending"
)

type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	AdminID   string    `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Membership is one row per (team, user). A user is either a member or a
// pending requester of a team, never both.
type Membership struct {
	TeamID      string     `gorm:"type:uuid;primaryKey"`
	UserID      string     `gorm:"primaryKey"`
	Status      string     `gorm:"type:varchar(16);not null"`
	RequestedAt time.Time  `gorm:"autoCreateTime"`
	JoinedAt    *time.Time `gorm:"column:joined_at"`

	Team Team `gorm:"foreignKey:TeamID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Membership) TableName() string {
	return "team_members"
}

// UserTeam is the user's own list of teams.
type UserTeam struct {
	UserID  string    `gorm:"primaryKey"`
	TeamID  string    `gorm:"type:uuid;primaryKey"`
	AddedAt time.Time `gorm:"autoCreateTime"`
}

func (UserTeam) TableName() string {
	return "user_teams"
}

type TeamView struct {
	Team           Team
	Members        []string
	PendingMembers []string
}

func (v TeamView) IsMember(userID string) bool {
	for _, id := range v.Members {
		if id == userID {
			return true
		}
	}
	return false
}
