package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	teamdomain "hatim-app-go/internal/domain/team"
)

type teamState struct {
	teams       map[string]teamdomain.Team
	memberships map[string]membershipRow
	userTeams   map[string][]teamdomain.UserTeam
	seq         int
}

type membershipRow struct {
	value teamdomain.Membership
	seq   int
}

// InMemoryTeamRepository keeps teams and memberships in process memory.
// Transactions are serialized with each other. A failed transaction undoes
// only its own writes, so writes made outside it are never lost.
type InMemoryTeamRepository struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *teamState
}

func NewInMemoryTeamRepository() *InMemoryTeamRepository {
	return &InMemoryTeamRepository{
		state: &teamState{
			teams:       make(map[string]teamdomain.Team),
			memberships: make(map[string]membershipRow),
			userTeams:   make(map[string][]teamdomain.UserTeam),
		},
	}
}

func (r *InMemoryTeamRepository) Transaction(ctx context.Context, fn func(teamdomain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &teamTx{InMemoryTeamRepository: r}
	if err := fn(tx); err != nil {
		r.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *InMemoryTeamRepository) CreateTeam(ctx context.Context, team *teamdomain.Team) error {
	r.createTeam(team)
	return nil
}

func (r *InMemoryTeamRepository) createTeam(team *teamdomain.Team) undoFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	previous, existed := r.state.teams[team.ID]
	r.state.teams[team.ID] = *team

	return func() {
		if existed {
			r.state.teams[team.ID] = previous
			return
		}
		delete(r.state.teams, team.ID)
	}
}

func (r *InMemoryTeamRepository) GetTeam(ctx context.Context, teamID string) (*teamdomain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.state.teams[teamID]
	if !ok {
		return nil, teamdomain.ErrTeamNotFound
	}
	return &team, nil
}

func (r *InMemoryTeamRepository) GetMembership(ctx context.Context, teamID, userID string) (*teamdomain.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.state.memberships[membershipKey(teamID, userID)]
	if !ok {
		return nil, teamdomain.ErrMembershipNotFound
	}
	membership := row.value
	return &membership, nil
}

func (r *InMemoryTeamRepository) ListMemberships(ctx context.Context, teamID string) ([]teamdomain.Membership, error) {
	r.mu.RLock()
	rows := make([]membershipRow, 0)
	for _, row := range r.state.memberships {
		if row.value.TeamID == teamID {
			rows = append(rows, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].value, rows[j].value
		switch {
		case a.JoinedAt != nil && b.JoinedAt == nil:
			return true
		case a.JoinedAt == nil && b.JoinedAt != nil:
			return false
		case a.JoinedAt != nil && !a.JoinedAt.Equal(*b.JoinedAt):
			return a.JoinedAt.Before(*b.JoinedAt)
		case !a.RequestedAt.Equal(b.RequestedAt):
			return a.RequestedAt.Before(b.RequestedAt)
		}
		return rows[i].seq < rows[j].seq
	})

	result := make([]teamdomain.Membership, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.value)
	}
	return result, nil
}

func (r *InMemoryTeamRepository) AddMembership(ctx context.Context, membership *teamdomain.Membership) (bool, error) {
	added, _ := r.addMembership(membership)
	return added, nil
}

func (r *InMemoryTeamRepository) addMembership(membership *teamdomain.Membership) (bool, undoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.state
	key := membershipKey(membership.TeamID, membership.UserID)
	if _, ok := state.memberships[key]; ok {
		return false, nil
	}
	if membership.RequestedAt.IsZero() {
		membership.RequestedAt = time.Now().UTC()
	}
	state.seq++
	seq := state.seq
	state.memberships[key] = membershipRow{value: *membership, seq: seq}

	return true, func() {
		if row, ok := state.memberships[key]; ok && row.seq == seq {
			delete(state.memberships, key)
		}
	}
}

func (r *InMemoryTeamRepository) PromotePending(ctx context.Context, teamID, userID string, joinedAt time.Time) (bool, error) {
	promoted, _ := r.promotePending(teamID, userID, joinedAt)
	return promoted, nil
}

func (r *InMemoryTeamRepository) promotePending(teamID, userID string, joinedAt time.Time) (bool, undoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey(teamID, userID)
	previous, ok := r.state.memberships[key]
	if !ok || previous.value.Status != teamdomain.StatusPending {
		return false, nil
	}
	row := previous
	row.value.Status = teamdomain.StatusMember
	row.value.JoinedAt = &joinedAt
	r.state.memberships[key] = row

	return true, func() {
		r.state.memberships[key] = previous
	}
}

func (r *InMemoryTeamRepository) DeletePending(ctx context.Context, teamID, userID string) (bool, error) {
	deleted, _ := r.deletePending(teamID, userID)
	return deleted, nil
}

func (r *InMemoryTeamRepository) deletePending(teamID, userID string) (bool, undoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := membershipKey(teamID, userID)
	previous, ok := r.state.memberships[key]
	if !ok || previous.value.Status != teamdomain.StatusPending {
		return false, nil
	}
	delete(r.state.memberships, key)

	return true, func() {
		if _, taken := r.state.memberships[key]; !taken {
			r.state.memberships[key] = previous
		}
	}
}

func (r *InMemoryTeamRepository) AddUserTeam(ctx context.Context, userID, teamID string) error {
	r.addUserTeam(userID, teamID)
	return nil
}

func (r *InMemoryTeamRepository) addUserTeam(userID, teamID string) undoFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	state := r.state
	for _, entry := range state.userTeams[userID] {
		if entry.TeamID == teamID {
			return nil
		}
	}
	state.userTeams[userID] = append(state.userTeams[userID], teamdomain.UserTeam{
		UserID:  userID,
		TeamID:  teamID,
		AddedAt: time.Now().UTC(),
	})

	return func() {
		entries := state.userTeams[userID]
		for i, entry := range entries {
			if entry.TeamID == teamID {
				state.userTeams[userID] = append(entries[:i:i], entries[i+1:]...)
				return
			}
		}
	}
}

func (r *InMemoryTeamRepository) ListTeamsByUser(ctx context.Context, userID string) ([]teamdomain.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state := r.state
	result := make([]teamdomain.Team, 0, len(state.userTeams[userID]))
	for _, entry := range state.userTeams[userID] {
		if team, ok := state.teams[entry.TeamID]; ok {
			result = append(result, team)
		}
	}
	return result, nil
}

func membershipKey(teamID, userID string) string {
	return teamID + "/" + userID
}

// undoFunc reverts one write. It runs with r.mu held.
type undoFunc func()

// teamTx routes writes made inside a transaction through an undo log.
type teamTx struct {
	*InMemoryTeamRepository
	undo []undoFunc
}

func (t *teamTx) record(undo undoFunc) {
	if undo != nil {
		t.undo = append(t.undo, undo)
	}
}

func (t *teamTx) Transaction(ctx context.Context, fn func(teamdomain.Repository) error) error {
	return fn(t)
}

func (t *teamTx) CreateTeam(ctx context.Context, team *teamdomain.Team) error {
	t.record(t.createTeam(team))
	return nil
}

func (t *teamTx) AddMembership(ctx context.Context, membership *teamdomain.Membership) (bool, error) {
	added, undo := t.addMembership(membership)
	t.record(undo)
	return added, nil
}

func (t *teamTx) PromotePending(ctx context.Context, teamID, userID string, joinedAt time.Time) (bool, error) {
	promoted, undo := t.promotePending(teamID, userID, joinedAt)
	t.record(undo)
	return promoted, nil
}

func (t *teamTx) DeletePending(ctx context.Context, teamID, userID string) (bool, error) {
	deleted, undo := t.deletePending(teamID, userID)
	t.record(undo)
	return deleted, nil
}

func (t *teamTx) AddUserTeam(ctx context.Context, userID, teamID string) error {
	t.record(t.addUserTeam(userID, teamID))
	return nil
}
