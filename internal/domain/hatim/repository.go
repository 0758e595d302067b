package hatim

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateHatim(ctx context.Context, hatim *Hatim) error
	// CreateAssignments writes the whole set in one statement.
	CreateAssignments(ctx context.Context, assignments []PageAssignment) error
	GetHatim(ctx context.Context, hatimID string) (*Hatim, error)
	// ListHatimsByTeam returns the team's hatims, newest first.
	ListHatimsByTeam(ctx context.Context, teamID string) ([]Hatim, error)
	ListActiveHatims(ctx context.Context) ([]Hatim, error)
	GetAssignment(ctx context.Context, hatimID, assignmentID string) (*PageAssignment, error)
	ListAssignments(ctx context.Context, hatimID string) ([]PageAssignment, error)
	// AddCompletedPage and RemoveCompletedPage only write while the parent
	// hatim is active and return ErrHatimCompleted afterwards.
	AddCompletedPage(ctx context.Context, assignmentID string, page int) error
	RemoveCompletedPage(ctx context.Context, assignmentID string, page int) error
	// UpdateCompletedPages refreshes the cached counter of an active hatim.
	UpdateCompletedPages(ctx context.Context, hatimID string, completedPages int) error
	// CompleteHatim applies the transition only if the hatim is still active
	// and reports whether this call performed it.
	CompleteHatim(ctx context.Context, hatimID string, completion Completion) (bool, error)
}
