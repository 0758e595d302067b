package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	teamdomain "hatim-app-go/internal/domain/team"

	"github.com/stretchr/testify/require"
)

func TestTeamCacheExpiresAndClones(t *testing.T) {
	cache := NewInMemoryTeamCache()
	view := &teamdomain.TeamView{Team: teamdomain.Team{ID: "t1"}, Members: []string{"a"}}

	cache.SetByTeamID("t1", view, time.Minute)
	view.Members[0] = "mutated"

	got, ok := cache.GetByTeamID("t1")
	require.True(t, ok)
	require.Equal(t, []string{"a"}, got.Members)

	cache.SetByTeamID("t2", view, time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok = cache.GetByTeamID("t2")
	require.False(t, ok)

	cache.DeleteByTeamID("t1")
	_, ok = cache.GetByTeamID("t1")
	require.False(t, ok)
}

func TestTeamRepositoryMembershipOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTeamRepository()
	require.NoError(t, repo.CreateTeam(ctx, &teamdomain.Team{ID: "t1", Name: "T", AdminID: "admin"}))

	joined := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	added, err := repo.AddMembership(ctx, &teamdomain.Membership{TeamID: "t1", UserID: "admin", Status: teamdomain.StatusMember, JoinedAt: &joined})
	require.NoError(t, err)
	require.True(t, added)

	for _, userID := range []string{"b", "c"} {
		added, err := repo.AddMembership(ctx, &teamdomain.Membership{TeamID: "t1", UserID: userID, Status: teamdomain.StatusPending})
		require.NoError(t, err)
		require.True(t, added)
	}

	added, err = repo.AddMembership(ctx, &teamdomain.Membership{TeamID: "t1", UserID: "b", Status: teamdomain.StatusPending})
	require.NoError(t, err)
	require.False(t, added)

	promoted, err := repo.PromotePending(ctx, "t1", "c", joined.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, promoted)

	memberships, err := repo.ListMemberships(ctx, "t1")
	require.NoError(t, err)
	order := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		order = append(order, membership.UserID)
	}
	require.Equal(t, []string{"admin", "c", "b"}, order)

	deleted, err := repo.DeletePending(ctx, "t1", "c")
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestTeamRepositoryTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTeamRepository()

	err := repo.Transaction(ctx, func(tx teamdomain.Repository) error {
		if err := tx.CreateTeam(ctx, &teamdomain.Team{ID: "t1", Name: "T", AdminID: "admin"}); err != nil {
			return err
		}
		if err := tx.AddUserTeam(ctx, "admin", "t1"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = repo.GetTeam(ctx, "t1")
	require.ErrorIs(t, err, teamdomain.ErrTeamNotFound)
	teams, err := repo.ListTeamsByUser(ctx, "admin")
	require.NoError(t, err)
	require.Empty(t, teams)
}

func TestHatimRepositoryPublishesRowUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHatimRepository()
	changes := repo.Subscribe()

	require.NoError(t, repo.CreateHatim(ctx, &hatimdomain.Hatim{ID: "h1", TeamID: "t1", Status: hatimdomain.StatusActive, TotalPages: 2}))
	require.NoError(t, repo.CreateAssignments(ctx, []hatimdomain.PageAssignment{{ID: "a1", HatimID: "h1", UserID: "u1", FirstPage: 1, PageCount: 2}}))

	require.NoError(t, repo.AddCompletedPage(ctx, "a1", 2))
	require.NoError(t, repo.AddCompletedPage(ctx, "a1", 2))
	require.NoError(t, repo.AddCompletedPage(ctx, "a1", 1))
	assignment, err := repo.GetAssignment(ctx, "h1", "a1")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, assignment.CompletedPages)

	require.NoError(t, repo.UpdateCompletedPages(ctx, "h1", 2))
	change := <-changes
	require.Equal(t, hatimdomain.Change{HatimID: "h1", Before: hatimdomain.StatusActive, After: hatimdomain.StatusActive, CompletedPages: 2}, change)

	// Unchanged counter is not a row update.
	require.NoError(t, repo.UpdateCompletedPages(ctx, "h1", 2))
	require.Len(t, changes, 0)

	done, err := repo.CompleteHatim(ctx, "h1", hatimdomain.Completion{CompletedPages: 2, EndDate: time.Now()})
	require.NoError(t, err)
	require.True(t, done)
	change = <-changes
	require.Equal(t, hatimdomain.StatusCompleted, change.After)

	done, err = repo.CompleteHatim(ctx, "h1", hatimdomain.Completion{CompletedPages: 2, EndDate: time.Now()})
	require.NoError(t, err)
	require.False(t, done)

	active, err := repo.ListActiveHatims(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestHatimRepositoryTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHatimRepository()

	err := repo.Transaction(ctx, func(tx hatimdomain.Repository) error {
		if err := tx.CreateHatim(ctx, &hatimdomain.Hatim{ID: "h1", TeamID: "t1", Status: hatimdomain.StatusActive}); err != nil {
			return err
		}
		return errors.New("assignment write failed")
	})
	require.Error(t, err)

	_, err = repo.GetHatim(ctx, "h1")
	require.ErrorIs(t, err, hatimdomain.ErrHatimNotFound)
}

func TestTeamRepositoryRollbackKeepsOutsideWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTeamRepository()
	require.NoError(t, repo.CreateTeam(ctx, &teamdomain.Team{ID: "t1", Name: "T", AdminID: "admin"}))

	err := repo.Transaction(ctx, func(tx teamdomain.Repository) error {
		require.NoError(t, tx.CreateTeam(ctx, &teamdomain.Team{ID: "t2", Name: "U", AdminID: "admin"}))

		// Lands while the transaction is open, outside of it.
		added, err := repo.AddMembership(ctx, &teamdomain.Membership{TeamID: "t1", UserID: "u1", Status: teamdomain.StatusPending})
		require.NoError(t, err)
		require.True(t, added)
		require.NoError(t, repo.AddUserTeam(ctx, "u2", "t1"))

		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = repo.GetTeam(ctx, "t2")
	require.ErrorIs(t, err, teamdomain.ErrTeamNotFound)

	membership, err := repo.GetMembership(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Equal(t, teamdomain.StatusPending, membership.Status)
	teams, err := repo.ListTeamsByUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, teams, 1)
}

func TestConcurrentApproveDoesNotLoseJoinRequests(t *testing.T) {
	ctx := context.Background()
	svc := teamdomain.NewService(NewInMemoryTeamRepository())
	team, err := svc.CreateTeam(ctx, "admin", "Readers")
	require.NoError(t, err)

	const (
		joiners  = 2000
		approves = 500
		workers  = 4
	)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < approves; j++ {
				select {
				case <-stop:
					return
				default:
				}
				err := svc.Approve(ctx, team.ID, "ghost", "admin")
				if !errors.Is(err, teamdomain.ErrRequestNotFound) {
					t.Errorf("approve ghost: %v", err)
					return
				}
			}
		}()
	}

	acknowledged := 0
	for i := 0; i < joiners; i++ {
		require.NoError(t, svc.RequestJoin(ctx, team.ID, fmt.Sprintf("u%d", i)))
		acknowledged++
	}
	close(stop)
	wg.Wait()

	view, err := svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, view.PendingMembers, acknowledged)
}

type countingMetrics struct {
	marked      atomic.Int64
	transitions atomic.Int64
}

func (m *countingMetrics) HatimStarted() {}

func (m *countingMetrics) PageMarked(bool) {
	m.marked.Add(1)
}

func (m *countingMetrics) CompletionTransition(hatimdomain.CompletionSource) {
	m.transitions.Add(1)
}

func TestConcurrentPageMarksCompleteOnce(t *testing.T) {
	ctx := context.Background()
	teams := teamdomain.NewService(NewInMemoryTeamRepository())
	team, err := teams.CreateTeam(ctx, "admin", "Readers")
	require.NoError(t, err)
	for _, userID := range []string{"u1", "u2", "u3", "u4"} {
		require.NoError(t, teams.RequestJoin(ctx, team.ID, userID))
		require.NoError(t, teams.Approve(ctx, team.ID, userID, "admin"))
	}

	const totalPages = 60
	metrics := &countingMetrics{}
	svc := hatimdomain.NewServiceWithConfig(NewInMemoryHatimRepository(), teams, hatimdomain.Config{
		TotalPages: totalPages,
		Metrics:    metrics,
	})
	details, err := svc.StartHatim(ctx, team.ID, "admin", "Ramadan")
	require.NoError(t, err)
	require.Len(t, details.Assignments, 5)

	var wg sync.WaitGroup
	for _, assignment := range details.Assignments {
		wg.Add(1)
		go func(assignment hatimdomain.PageAssignment) {
			defer wg.Done()
			for _, page := range assignment.Pages() {
				_, err := svc.MarkPage(ctx, hatimdomain.MarkPageInput{
					HatimID:      details.Hatim.ID,
					AssignmentID: assignment.ID,
					UserID:       assignment.UserID,
					Page:         page,
					Completed:    true,
				})
				if err != nil {
					t.Errorf("mark page %d: %v", page, err)
					return
				}
			}
		}(assignment)
	}
	wg.Wait()

	require.EqualValues(t, totalPages, metrics.marked.Load())
	require.EqualValues(t, 1, metrics.transitions.Load())

	got, err := svc.GetHatim(ctx, details.Hatim.ID, "admin")
	require.NoError(t, err)
	require.Equal(t, hatimdomain.StatusCompleted, got.Hatim.Status)
	require.Equal(t, totalPages, got.Hatim.CompletedPages)
	require.Equal(t, totalPages, got.Progress.CompletedPages)
}

func TestCompletedHatimRejectsPageWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHatimRepository()
	require.NoError(t, repo.CreateHatim(ctx, &hatimdomain.Hatim{ID: "h1", TeamID: "t1", Status: hatimdomain.StatusActive, TotalPages: 3}))
	require.NoError(t, repo.CreateAssignments(ctx, []hatimdomain.PageAssignment{{ID: "a1", HatimID: "h1", UserID: "u1", FirstPage: 1, PageCount: 3}}))
	require.NoError(t, repo.AddCompletedPage(ctx, "a1", 1))
	require.NoError(t, repo.AddCompletedPage(ctx, "a1", 2))

	done, err := repo.CompleteHatim(ctx, "h1", hatimdomain.Completion{CompletedPages: 2, EndDate: time.Now(), Forced: true})
	require.NoError(t, err)
	require.True(t, done)

	require.ErrorIs(t, repo.AddCompletedPage(ctx, "a1", 3), hatimdomain.ErrHatimCompleted)
	require.ErrorIs(t, repo.RemoveCompletedPage(ctx, "a1", 1), hatimdomain.ErrHatimCompleted)
	require.ErrorIs(t, repo.AddCompletedPage(ctx, "missing", 1), hatimdomain.ErrAssignmentNotFound)

	assignment, err := repo.GetAssignment(ctx, "h1", "a1")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, assignment.CompletedPages)
}

func TestHatimTransactionPublishesOnCommit(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryHatimRepository()
	changes := repo.Subscribe()
	require.NoError(t, repo.CreateHatim(ctx, &hatimdomain.Hatim{ID: "h1", TeamID: "t1", Status: hatimdomain.StatusActive, TotalPages: 4}))

	err := repo.Transaction(ctx, func(tx hatimdomain.Repository) error {
		require.NoError(t, tx.UpdateCompletedPages(ctx, "h1", 3))
		return errors.New("boom")
	})
	require.Error(t, err)
	require.Len(t, changes, 0)

	hatim, err := repo.GetHatim(ctx, "h1")
	require.NoError(t, err)
	require.Equal(t, 0, hatim.CompletedPages)

	err = repo.Transaction(ctx, func(tx hatimdomain.Repository) error {
		return tx.UpdateCompletedPages(ctx, "h1", 3)
	})
	require.NoError(t, err)
	change := <-changes
	require.Equal(t, 3, change.CompletedPages)
}
