package hatim

import (
	"context"
	"strings"
	"time"

	"hatim-app-go/internal/domain/apperr"
	teamdomain "hatim-app-go/internal/domain/team"

	"github.com/google/uuid"
)

type Teams interface {
	GetTeam(ctx context.Context, teamID string) (*teamdomain.TeamView, error)
}

type Config struct {
	TotalPages int
	Metrics    Metrics
}

type Service struct {
	repo       Repository
	teams      Teams
	totalPages int
	metrics    Metrics
	now        func() time.Time
}

func NewService(repo Repository, teams Teams) *Service {
	return NewServiceWithConfig(repo, teams, Config{})
}

func NewServiceWithConfig(repo Repository, teams Teams, cfg Config) *Service {
	totalPages := cfg.TotalPages
	if totalPages <= 0 {
		totalPages = DefaultTotalPages
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &Service{
		repo:       repo,
		teams:      teams,
		totalPages: totalPages,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) StartHatim(ctx context.Context, teamID, callerID, name string) (*Details, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("name_required", "name is required")
	}

	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.Team.AdminID != callerID {
		return nil, teamdomain.ErrNotAdmin
	}
	if len(team.Members) == 0 {
		return nil, ErrNoMembers
	}

	allocations, err := Partition(s.totalPages, team.Members)
	if err != nil {
		return nil, err
	}

	now := s.now()
	hatim := Hatim{
		ID:         uuid.NewString(),
		TeamID:     teamID,
		Name:       name,
		StartDate:  now,
		Status:     StatusActive,
		TotalPages: s.totalPages,
	}

	assignments := make([]PageAssignment, 0, len(allocations))
	for i, allocation := range allocations {
		assignment := PageAssignment{
			ID:             uuid.NewString(),
			HatimID:        hatim.ID,
			UserID:         allocation.UserID,
			PageCount:      len(allocation.Pages),
			Position:       i,
			CompletedPages: []int{},
		}
		if len(allocation.Pages) > 0 {
			assignment.FirstPage = allocation.Pages[0]
		}
		assignments = append(assignments, assignment)
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateHatim(ctx, &hatim); err != nil {
			return err
		}
		return tx.CreateAssignments(ctx, assignments)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.HatimStarted()

	return &Details{
		Hatim:       hatim,
		Assignments: assignments,
		Progress:    ComputeProgress(assignments),
	}, nil
}

func (s *Service) GetHatim(ctx context.Context, hatimID, callerID string) (*Details, error) {
	hatim, err := s.getHatim(ctx, hatimID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeMember(ctx, hatim.TeamID, callerID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListAssignments(ctx, hatim.ID)
	if err != nil {
		return nil, err
	}

	return &Details{
		Hatim:       *hatim,
		Assignments: assignments,
		Progress:    ComputeProgress(assignments),
	}, nil
}

func (s *Service) ListTeamHatims(ctx context.Context, teamID, callerID string) ([]Hatim, error) {
	if err := s.authorizeMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListHatimsByTeam(ctx, teamID)
}

// MarkPage adds or removes one page from the caller's completed set and then
// reconciles the hatim, closing it when every page is read.
func (s *Service) MarkPage(ctx context.Context, input MarkPageInput) (*MarkPageResult, error) {
	if strings.TrimSpace(input.AssignmentID) == "" || strings.TrimSpace(input.UserID) == "" {
		return nil, apperr.Validation("missing_arguments", "assignment id and user id are required")
	}
	if input.Page < 1 {
		return nil, ErrInvalidPage
	}

	hatim, err := s.getHatim(ctx, input.HatimID)
	if err != nil {
		return nil, err
	}
	if hatim.Status == StatusCompleted {
		return nil, ErrHatimCompleted
	}

	assignment, err := s.repo.GetAssignment(ctx, hatim.ID, input.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.UserID != input.UserID {
		return nil, ErrNotAssignee
	}
	if !assignment.Contains(input.Page) {
		return nil, ErrInvalidPage
	}

	if input.Completed {
		err = s.repo.AddCompletedPage(ctx, assignment.ID, input.Page)
	} else {
		err = s.repo.RemoveCompletedPage(ctx, assignment.ID, input.Page)
	}
	if err != nil {
		return nil, err
	}
	s.metrics.PageMarked(input.Completed)

	outcome, err := s.reconcile(ctx, hatim, SourceMarkPage)
	if err != nil {
		return nil, err
	}

	result := MarkPageResult{
		Progress:       outcome.progress,
		HatimCompleted: outcome.completed,
	}
	for _, candidate := range outcome.assignments {
		if candidate.ID == assignment.ID {
			result.Assignment = candidate
			break
		}
	}

	return &result, nil
}

// CheckCompletion recomputes progress on demand and closes the hatim if due.
func (s *Service) CheckCompletion(ctx context.Context, hatimID string) (*CheckResult, error) {
	hatim, err := s.getHatim(ctx, hatimID)
	if err != nil {
		return nil, err
	}
	if hatim.Status == StatusCompleted {
		return &CheckResult{Completed: true}, nil
	}

	outcome, err := s.reconcile(ctx, hatim, SourceCheck)
	if err != nil {
		return nil, err
	}

	progress := outcome.progress
	return &CheckResult{Completed: outcome.completed, Progress: &progress}, nil
}

// HandleHatimChange is the reactive path run for every write to a hatim.
// Changes that involve a completed status are ignored, which also stops the
// completion write from re-triggering itself.
func (s *Service) HandleHatimChange(ctx context.Context, change Change) error {
	if change.Before == StatusCompleted || change.After == StatusCompleted {
		return nil
	}

	hatim, err := s.getHatim(ctx, change.HatimID)
	if err != nil {
		return err
	}
	if hatim.Status == StatusCompleted {
		return nil
	}

	_, err = s.reconcile(ctx, hatim, SourceTrigger)
	return err
}

// ReconcileActive runs the completion check over every active hatim and
// returns how many it closed. It backs up the change feed, which can miss
// notifications while disconnected.
func (s *Service) ReconcileActive(ctx context.Context) (int, error) {
	hatims, err := s.repo.ListActiveHatims(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range hatims {
		outcome, err := s.reconcile(ctx, &hatims[i], SourceSweep)
		if err != nil {
			return closed, err
		}
		if outcome.transitioned {
			closed++
		}
	}
	return closed, nil
}

// ForceComplete is the admin override. It closes the hatim regardless of
// progress and records that it was forced; the cached counter keeps the
// real aggregate.
func (s *Service) ForceComplete(ctx context.Context, hatimID, callerID string) (*Hatim, error) {
	hatim, err := s.getHatim(ctx, hatimID)
	if err != nil {
		return nil, err
	}

	team, err := s.teams.GetTeam(ctx, hatim.TeamID)
	if err != nil {
		return nil, err
	}
	if team.Team.AdminID != callerID {
		return nil, teamdomain.ErrNotAdmin
	}
	if hatim.Status == StatusCompleted {
		return nil, ErrHatimCompleted
	}

	assignments, err := s.repo.ListAssignments(ctx, hatim.ID)
	if err != nil {
		return nil, err
	}
	progress := ComputeProgress(assignments)

	completedBy := callerID
	transitioned, err := s.repo.CompleteHatim(ctx, hatim.ID, Completion{
		CompletedPages: progress.CompletedPages,
		EndDate:        s.now(),
		Forced:         !progress.IsComplete,
		CompletedBy:    &completedBy,
	})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, ErrHatimCompleted
	}
	s.metrics.CompletionTransition(SourceForce)

	return s.getHatim(ctx, hatim.ID)
}

type reconcileOutcome struct {
	assignments  []PageAssignment
	progress     Progress
	completed    bool
	transitioned bool
}

// reconcile re-reads every assignment, recomputes the aggregate and applies
// NextStatus. All completion paths go through here.
func (s *Service) reconcile(ctx context.Context, hatim *Hatim, source CompletionSource) (reconcileOutcome, error) {
	assignments, err := s.repo.ListAssignments(ctx, hatim.ID)
	if err != nil {
		return reconcileOutcome{}, err
	}

	progress := ComputeProgress(assignments)
	outcome := reconcileOutcome{assignments: assignments, progress: progress}

	next, changed := NextStatus(hatim.Status, progress)
	if changed {
		transitioned, err := s.repo.CompleteHatim(ctx, hatim.ID, Completion{
			CompletedPages: progress.CompletedPages,
			EndDate:        s.now(),
		})
		if err != nil {
			return reconcileOutcome{}, err
		}
		if transitioned {
			s.metrics.CompletionTransition(source)
		}
		outcome.completed = true
		outcome.transitioned = transitioned
		return outcome, nil
	}

	outcome.completed = next == StatusCompleted
	if hatim.Status == StatusActive && hatim.CompletedPages != progress.CompletedPages {
		if err := s.repo.UpdateCompletedPages(ctx, hatim.ID, progress.CompletedPages); err != nil {
			return reconcileOutcome{}, err
		}
	}

	return outcome, nil
}

func (s *Service) getHatim(ctx context.Context, hatimID string) (*Hatim, error) {
	if strings.TrimSpace(hatimID) == "" {
		return nil, apperr.Validation("hatim_id_required", "hatim id is required")
	}
	return s.repo.GetHatim(ctx, hatimID)
}

func (s *Service) authorizeMember(ctx context.Context, teamID, callerID string) error {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if !team.IsMember(callerID) {
		return teamdomain.ErrNotMember
	}
	return nil
}
