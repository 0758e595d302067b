package hatim

import (
	"context"
	"errors"
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// validID reports whether id can be compared against a uuid column. Postgres
// rejects a malformed literal outright, so such ids are answered as absent
// rows before any query runs.
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(hatimdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateHatim(ctx context.Context, hatim *hatimdomain.Hatim) error {
	return r.db.WithContext(ctx).Create(hatim).Error
}

func (r *PostgresRepository) CreateAssignments(ctx context.Context, assignments []hatimdomain.PageAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&assignments).Error
}

func (r *PostgresRepository) GetHatim(ctx context.Context, hatimID string) (*hatimdomain.Hatim, error) {
	if !validID(hatimID) {
		return nil, hatimdomain.ErrHatimNotFound
	}

	var hatim hatimdomain.Hatim
	if err := r.db.WithContext(ctx).Where("id = ?", hatimID).First(&hatim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hatimdomain.ErrHatimNotFound
		}
		return nil, err
	}
	return &hatim, nil
}

func (r *PostgresRepository) ListHatimsByTeam(ctx context.Context, teamID string) ([]hatimdomain.Hatim, error) {
	if !validID(teamID) {
		return []hatimdomain.Hatim{}, nil
	}

	var hatims []hatimdomain.Hatim
	if err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("start_date desc").
		Order("id asc").
		Find(&hatims).Error; err != nil {
		return nil, err
	}
	return hatims, nil
}

func (r *PostgresRepository) ListActiveHatims(ctx context.Context) ([]hatimdomain.Hatim, error) {
	var hatims []hatimdomain.Hatim
	if err := r.db.WithContext(ctx).
		Where("status = ?", hatimdomain.StatusActive).
		Order("start_date asc").
		Find(&hatims).Error; err != nil {
		return nil, err
	}
	return hatims, nil
}

func (r *PostgresRepository) GetAssignment(ctx context.Context, hatimID, assignmentID string) (*hatimdomain.PageAssignment, error) {
	if !validID(hatimID) || !validID(assignmentID) {
		return nil, hatimdomain.ErrAssignmentNotFound
	}

	var assignment hatimdomain.PageAssignment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND hatim_id = ?", assignmentID, hatimID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hatimdomain.ErrAssignmentNotFound
		}
		return nil, err
	}

	assignments := []hatimdomain.PageAssignment{assignment}
	if err := r.loadCompletedPages(ctx, assignments); err != nil {
		return nil, err
	}
	return &assignments[0], nil
}

func (r *PostgresRepository) ListAssignments(ctx context.Context, hatimID string) ([]hatimdomain.PageAssignment, error) {
	if !validID(hatimID) {
		return []hatimdomain.PageAssignment{}, nil
	}

	var assignments []hatimdomain.PageAssignment
	if err := r.db.WithContext(ctx).
		Where("hatim_id = ?", hatimID).
		Order("position asc").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	if err := r.loadCompletedPages(ctx, assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *PostgresRepository) loadCompletedPages(ctx context.Context, assignments []hatimdomain.PageAssignment) error {
	if len(assignments) == 0 {
		return nil
	}

	ids := make([]string, 0, len(assignments))
	index := make(map[string]int, len(assignments))
	for i := range assignments {
		ids = append(ids, assignments[i].ID)
		index[assignments[i].ID] = i
		assignments[i].CompletedPages = []int{}
	}

	var completions []hatimdomain.PageCompletion
	if err := r.db.WithContext(ctx).
		Where("assignment_id IN ?", ids).
		Order("page asc").
		Find(&completions).Error; err != nil {
		return err
	}

	for _, completion := range completions {
		i := index[completion.AssignmentID]
		assignments[i].CompletedPages = append(assignments[i].CompletedPages, completion.Page)
	}
	return nil
}

// AddCompletedPage and RemoveCompletedPage hold a share lock on the parent
// hatim row while they write, so they cannot interleave with the completion
// update and a completed hatim's pages stay frozen.
func (r *PostgresRepository) AddCompletedPage(ctx context.Context, assignmentID string, page int) error {
	if !validID(assignmentID) {
		return hatimdomain.ErrAssignmentNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveAssignment(tx, assignmentID); err != nil {
			return err
		}
		return tx.
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&hatimdomain.PageCompletion{AssignmentID: assignmentID, Page: page}).Error
	})
}

func (r *PostgresRepository) RemoveCompletedPage(ctx context.Context, assignmentID string, page int) error {
	if !validID(assignmentID) {
		return hatimdomain.ErrAssignmentNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveAssignment(tx, assignmentID); err != nil {
			return err
		}
		return tx.
			Where("assignment_id = ? AND page = ?", assignmentID, page).
			Delete(&hatimdomain.PageCompletion{}).Error
	})
}

func lockActiveAssignment(tx *gorm.DB, assignmentID string) error {
	var row struct {
		Status hatimdomain.Status
	}
	result := tx.Raw(`SELECT h.status FROM hatims h
		JOIN page_assignments a ON a.hatim_id = h.id
		WHERE a.id = ?
		FOR SHARE OF h`, assignmentID).Scan(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return hatimdomain.ErrAssignmentNotFound
	}
	if row.Status != hatimdomain.StatusActive {
		return hatimdomain.ErrHatimCompleted
	}
	return nil
}

func (r *PostgresRepository) UpdateCompletedPages(ctx context.Context, hatimID string, completedPages int) error {
	if !validID(hatimID) {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&hatimdomain.Hatim{}).
		Where("id = ? AND status = ? AND completed_pages <> ?", hatimID, hatimdomain.StatusActive, completedPages).
		Updates(map[string]interface{}{
			"completed_pages": completedPages,
			"updated_at":      time.Now().UTC(),
		}).Error
}

// CompleteHatim is a conditional update on status; of several concurrent
// callers only the one whose update matched the active row gets true.
func (r *PostgresRepository) CompleteHatim(ctx context.Context, hatimID string, completion hatimdomain.Completion) (bool, error) {
	if !validID(hatimID) {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&hatimdomain.Hatim{}).
		Where("id = ? AND status = ?", hatimID, hatimdomain.StatusActive).
		Updates(map[string]interface{}{
			"status":          hatimdomain.StatusCompleted,
			"end_date":        completion.EndDate,
			"completed_pages": completion.CompletedPages,
			"force_completed": completion.Forced,
			"completed_by":    completion.CompletedBy,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
