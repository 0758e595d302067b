package hatim

import "time"

// DefaultTotalPages is the page count of one full reading.
const DefaultTotalPages = 604

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type CompletionSource string

const (
	SourceMarkPage CompletionSource = "mark_page"
	SourceTrigger  CompletionSource = "trigger"
	SourceCheck    CompletionSource = "check"
	SourceForce    CompletionSource = "force"
	SourceSweep    CompletionSource = "sweep"
)

type Hatim struct {
	ID             string     `gorm:"type:uuid;primaryKey"`
	TeamID         string     `gorm:"type:uuid;index;not null"`
	Name           string     `gorm:"not null"`
	StartDate      time.Time  `gorm:"not null"`
	EndDate        *time.Time `gorm:"column:end_date"`
	Status         Status     `gorm:"type:varchar(16);not null;index"`
	TotalPages     int        `gorm:"not null"`
	CompletedPages int        `gorm:"not null;default:0"`
	ForceCompleted bool       `gorm:"not null;default:false"`
	CompletedBy    *string    `gorm:"column:completed_by"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime"`
}

func (Hatim) TableName() string {
	return "hatims"
}

// PageAssignment is one member's contiguous block of pages. The block is
// stored as its first page and length; an empty block has PageCount 0.
type PageAssignment struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	HatimID   string    `gorm:"type:uuid;index;not null"`
	UserID    string    `gorm:"not null;index"`
	FirstPage int       `gorm:"not null"`
	PageCount int       `gorm:"not null"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	// CompletedPages is loaded from page_completions, ascending.
	CompletedPages []int `gorm:"-"`

	Hatim Hatim `gorm:"foreignKey:HatimID;references:ID;constraint:OnDelete:CASCADE"`
}

func (PageAssignment) TableName() string {
	return "page_assignments"
}

func (a PageAssignment) Pages() []int {
	pages := make([]int, a.PageCount)
	for i := range pages {
		pages[i] = a.FirstPage + i
	}
	return pages
}

func (a PageAssignment) Contains(page int) bool {
	return a.PageCount > 0 && page >= a.FirstPage && page < a.FirstPage+a.PageCount
}

func (a PageAssignment) LastPage() int {
	if a.PageCount == 0 {
		return 0
	}
	return a.FirstPage + a.PageCount - 1
}

type PageCompletion struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey"`
	Page         int       `gorm:"primaryKey"`
	CompletedAt  time.Time `gorm:"autoCreateTime"`
}

func (PageCompletion) TableName() string {
	return "page_completions"
}

// Completion holds the values written by the active -> completed transition.
type Completion struct {
	CompletedPages int
	EndDate        time.Time
	Forced         bool
	CompletedBy    *string
}

// Change describes a write to a hatim row as seen by the change feed.
type Change struct {
	HatimID        string `json:"id"`
	Before         Status `json:"before_status"`
	After          Status `json:"after_status"`
	CompletedPages int    `json:"completed_pages"`
}

type Details struct {
	Hatim       Hatim
	Assignments []PageAssignment
	Progress    Progress
}

type MarkPageInput struct {
	HatimID      string
	AssignmentID string
	UserID       string
	Page         int
	Completed    bool
}

type MarkPageResult struct {
	Assignment     PageAssignment
	Progress       Progress
	HatimCompleted bool
}

type CheckResult struct {
	Completed bool
	// Progress is nil when the hatim was already completed before the check.
	Progress *Progress
}
