package team

import "time"

// Cache holds team views keyed by team id. Membership writes invalidate the
// entry for their team.
type Cache interface {
	GetByTeamID(teamID string) (*TeamView, bool)
	SetByTeamID(teamID string, view *TeamView, ttl time.Duration)
	DeleteByTeamID(teamID string)
}

type noopCache struct{}

func (noopCache) GetByTeamID(string) (*TeamView, bool) {
	return nil, false
}

func (noopCache) SetByTeamID(string, *TeamView, time.Duration) {}

func (noopCache) DeleteByTeamID(string) {}
