package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
)

const changeBuffer = 64

type hatimState struct {
	hatims      map[string]hatimdomain.Hatim
	assignments map[string]hatimdomain.PageAssignment
	completions map[string]map[int]time.Time
}

// InMemoryHatimRepository is the process-local assignment store. Updates to
// a hatim row are published to subscribers the way the database trigger
// does for the Postgres store. Changes made inside a transaction are
// published once it commits.
type InMemoryHatimRepository struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state *hatimState

	subMu       sync.RWMutex
	subscribers []chan hatimdomain.Change
}

func NewInMemoryHatimRepository() *InMemoryHatimRepository {
	return &InMemoryHatimRepository{
		state: &hatimState{
			hatims:      make(map[string]hatimdomain.Hatim),
			assignments: make(map[string]hatimdomain.PageAssignment),
			completions: make(map[string]map[int]time.Time),
		},
	}
}

// Subscribe returns a buffered feed of hatim changes. A full feed drops the
// change rather than blocking the writer.
func (r *InMemoryHatimRepository) Subscribe() <-chan hatimdomain.Change {
	ch := make(chan hatimdomain.Change, changeBuffer)
	r.subMu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.subMu.Unlock()
	return ch
}

func (r *InMemoryHatimRepository) publish(change *hatimdomain.Change) {
	if change == nil {
		return
	}

	r.subMu.RLock()
	defer r.subMu.RUnlock()

	for _, ch := range r.subscribers {
		select {
		case ch <- *change:
		default:
		}
	}
}

func (r *InMemoryHatimRepository) Transaction(ctx context.Context, fn func(hatimdomain.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	tx := &hatimTx{InMemoryHatimRepository: r}
	if err := fn(tx); err != nil {
		r.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		r.mu.Unlock()
		return err
	}

	for i := range tx.changes {
		r.publish(&tx.changes[i])
	}
	return nil
}

func (r *InMemoryHatimRepository) CreateHatim(ctx context.Context, hatim *hatimdomain.Hatim) error {
	r.createHatim(hatim)
	return nil
}

func (r *InMemoryHatimRepository) createHatim(hatim *hatimdomain.Hatim) undoFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if hatim.CreatedAt.IsZero() {
		hatim.CreatedAt = now
	}
	hatim.UpdatedAt = now
	previous, existed := r.state.hatims[hatim.ID]
	r.state.hatims[hatim.ID] = *hatim

	id := hatim.ID
	return func() {
		if existed {
			r.state.hatims[id] = previous
			return
		}
		delete(r.state.hatims, id)
	}
}

func (r *InMemoryHatimRepository) CreateAssignments(ctx context.Context, assignments []hatimdomain.PageAssignment) error {
	r.createAssignments(assignments)
	return nil
}

func (r *InMemoryHatimRepository) createAssignments(assignments []hatimdomain.PageAssignment) undoFunc {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	previous := make(map[string]*hatimdomain.PageAssignment, len(assignments))
	for _, assignment := range assignments {
		if _, seen := previous[assignment.ID]; !seen {
			if old, ok := r.state.assignments[assignment.ID]; ok {
				previous[assignment.ID] = &old
			} else {
				previous[assignment.ID] = nil
			}
		}
		if assignment.CreatedAt.IsZero() {
			assignment.CreatedAt = now
		}
		assignment.CompletedPages = nil
		r.state.assignments[assignment.ID] = assignment
	}

	return func() {
		for id, old := range previous {
			if old != nil {
				r.state.assignments[id] = *old
				continue
			}
			delete(r.state.assignments, id)
		}
	}
}

func (r *InMemoryHatimRepository) GetHatim(ctx context.Context, hatimID string) (*hatimdomain.Hatim, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hatim, ok := r.state.hatims[hatimID]
	if !ok {
		return nil, hatimdomain.ErrHatimNotFound
	}
	return &hatim, nil
}

func (r *InMemoryHatimRepository) ListHatimsByTeam(ctx context.Context, teamID string) ([]hatimdomain.Hatim, error) {
	return r.listHatims(func(hatim hatimdomain.Hatim) bool {
		return hatim.TeamID == teamID
	}), nil
}

func (r *InMemoryHatimRepository) ListActiveHatims(ctx context.Context) ([]hatimdomain.Hatim, error) {
	return r.listHatims(func(hatim hatimdomain.Hatim) bool {
		return hatim.Status == hatimdomain.StatusActive
	}), nil
}

func (r *InMemoryHatimRepository) listHatims(match func(hatimdomain.Hatim) bool) []hatimdomain.Hatim {
	r.mu.RLock()
	result := make([]hatimdomain.Hatim, 0)
	for _, hatim := range r.state.hatims {
		if match(hatim) {
			result = append(result, hatim)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.After(result[j].StartDate)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *InMemoryHatimRepository) GetAssignment(ctx context.Context, hatimID, assignmentID string) (*hatimdomain.PageAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignment, ok := r.state.assignments[assignmentID]
	if !ok || assignment.HatimID != hatimID {
		return nil, hatimdomain.ErrAssignmentNotFound
	}
	assignment.CompletedPages = r.completedPages(assignment.ID)
	return &assignment, nil
}

func (r *InMemoryHatimRepository) ListAssignments(ctx context.Context, hatimID string) ([]hatimdomain.PageAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]hatimdomain.PageAssignment, 0)
	for _, assignment := range r.state.assignments {
		if assignment.HatimID != hatimID {
			continue
		}
		assignment.CompletedPages = r.completedPages(assignment.ID)
		result = append(result, assignment)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// completedPages expects r.mu to be held.
func (r *InMemoryHatimRepository) completedPages(assignmentID string) []int {
	pages := make([]int, 0, len(r.state.completions[assignmentID]))
	for page := range r.state.completions[assignmentID] {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// checkActiveAssignment expects r.mu to be held.
func (r *InMemoryHatimRepository) checkActiveAssignment(assignmentID string) error {
	assignment, ok := r.state.assignments[assignmentID]
	if !ok {
		return hatimdomain.ErrAssignmentNotFound
	}
	hatim, ok := r.state.hatims[assignment.HatimID]
	if !ok {
		return hatimdomain.ErrHatimNotFound
	}
	if hatim.Status != hatimdomain.StatusActive {
		return hatimdomain.ErrHatimCompleted
	}
	return nil
}

func (r *InMemoryHatimRepository) AddCompletedPage(ctx context.Context, assignmentID string, page int) error {
	_, err := r.addCompletedPage(assignmentID, page)
	return err
}

func (r *InMemoryHatimRepository) addCompletedPage(assignmentID string, page int) (undoFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkActiveAssignment(assignmentID); err != nil {
		return nil, err
	}
	pages := r.state.completions[assignmentID]
	if pages == nil {
		pages = make(map[int]time.Time)
		r.state.completions[assignmentID] = pages
	}
	if _, ok := pages[page]; ok {
		return nil, nil
	}
	pages[page] = time.Now().UTC()

	return func() {
		delete(r.state.completions[assignmentID], page)
	}, nil
}

func (r *InMemoryHatimRepository) RemoveCompletedPage(ctx context.Context, assignmentID string, page int) error {
	_, err := r.removeCompletedPage(assignmentID, page)
	return err
}

func (r *InMemoryHatimRepository) removeCompletedPage(assignmentID string, page int) (undoFunc, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkActiveAssignment(assignmentID); err != nil {
		return nil, err
	}
	at, ok := r.state.completions[assignmentID][page]
	if !ok {
		return nil, nil
	}
	delete(r.state.completions[assignmentID], page)

	return func() {
		pages := r.state.completions[assignmentID]
		if pages == nil {
			pages = make(map[int]time.Time)
			r.state.completions[assignmentID] = pages
		}
		if _, taken := pages[page]; !taken {
			pages[page] = at
		}
	}, nil
}

func (r *InMemoryHatimRepository) UpdateCompletedPages(ctx context.Context, hatimID string, completedPages int) error {
	change, _ := r.updateCompletedPages(hatimID, completedPages)
	r.publish(change)
	return nil
}

func (r *InMemoryHatimRepository) updateCompletedPages(hatimID string, completedPages int) (*hatimdomain.Change, undoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.state.hatims[hatimID]
	if !ok || previous.Status != hatimdomain.StatusActive || previous.CompletedPages == completedPages {
		return nil, nil
	}
	hatim := previous
	hatim.CompletedPages = completedPages
	hatim.UpdatedAt = time.Now().UTC()
	r.state.hatims[hatimID] = hatim

	change := &hatimdomain.Change{
		HatimID:        hatimID,
		Before:         hatimdomain.StatusActive,
		After:          hatimdomain.StatusActive,
		CompletedPages: completedPages,
	}
	return change, r.restoreHatim(previous)
}

func (r *InMemoryHatimRepository) CompleteHatim(ctx context.Context, hatimID string, completion hatimdomain.Completion) (bool, error) {
	change, _ := r.completeHatim(hatimID, completion)
	r.publish(change)
	return change != nil, nil
}

func (r *InMemoryHatimRepository) completeHatim(hatimID string, completion hatimdomain.Completion) (*hatimdomain.Change, undoFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.state.hatims[hatimID]
	if !ok || previous.Status != hatimdomain.StatusActive {
		return nil, nil
	}
	endDate := completion.EndDate
	hatim := previous
	hatim.Status = hatimdomain.StatusCompleted
	hatim.EndDate = &endDate
	hatim.CompletedPages = completion.CompletedPages
	hatim.ForceCompleted = completion.Forced
	hatim.CompletedBy = completion.CompletedBy
	hatim.UpdatedAt = time.Now().UTC()
	r.state.hatims[hatimID] = hatim

	change := &hatimdomain.Change{
		HatimID:        hatimID,
		Before:         hatimdomain.StatusActive,
		After:          hatimdomain.StatusCompleted,
		CompletedPages: completion.CompletedPages,
	}
	return change, r.restoreHatim(previous)
}

func (r *InMemoryHatimRepository) restoreHatim(previous hatimdomain.Hatim) undoFunc {
	return func() {
		r.state.hatims[previous.ID] = previous
	}
}

// hatimTx routes writes made inside a transaction through an undo log and
// holds their changes back until commit.
type hatimTx struct {
	*InMemoryHatimRepository
	undo    []undoFunc
	changes []hatimdomain.Change
}

func (t *hatimTx) record(undo undoFunc, change *hatimdomain.Change) {
	if undo != nil {
		t.undo = append(t.undo, undo)
	}
	if change != nil {
		t.changes = append(t.changes, *change)
	}
}

func (t *hatimTx) Transaction(ctx context.Context, fn func(hatimdomain.Repository) error) error {
	return fn(t)
}

func (t *hatimTx) CreateHatim(ctx context.Context, hatim *hatimdomain.Hatim) error {
	t.record(t.createHatim(hatim), nil)
	return nil
}

func (t *hatimTx) CreateAssignments(ctx context.Context, assignments []hatimdomain.PageAssignment) error {
	t.record(t.createAssignments(assignments), nil)
	return nil
}

func (t *hatimTx) AddCompletedPage(ctx context.Context, assignmentID string, page int) error {
	undo, err := t.addCompletedPage(assignmentID, page)
	t.record(undo, nil)
	return err
}

func (t *hatimTx) RemoveCompletedPage(ctx context.Context, assignmentID string, page int) error {
	undo, err := t.removeCompletedPage(assignmentID, page)
	t.record(undo, nil)
	return err
}

func (t *hatimTx) UpdateCompletedPages(ctx context.Context, hatimID string, completedPages int) error {
	change, undo := t.updateCompletedPages(hatimID, completedPages)
	t.record(undo, change)
	return nil
}

func (t *hatimTx) CompleteHatim(ctx context.Context, hatimID string, completion hatimdomain.Completion) (bool, error) {
	change, undo := t.completeHatim(hatimID, completion)
	t.record(undo, change)
	return change != nil, nil
}
