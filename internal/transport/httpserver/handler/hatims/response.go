package hatims

import (
	"time"

	hatimdomain "hatim-app-go/internal/domain/hatim"
)

type progressResponse struct {
	TotalPages     int  `json:"total_pages"`
	CompletedPages int  `json:"completed_pages"`
	Percent        int  `json:"percent"`
	IsComplete     bool `json:"is_complete"`
}

type assignmentResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Pages          []int  `json:"pages"`
	FirstPage      int    `json:"first_page"`
	LastPage       int    `json:"last_page"`
	CompletedPages []int  `json:"completed_pages"`
}

type hatimResponse struct {
	ID             string     `json:"id"`
	TeamID         string     `json:"team_id"`
	Name           string     `json:"name"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Status         string     `json:"status"`
	TotalPages     int        `json:"total_pages"`
	CompletedPages int        `json:"completed_pages"`
	ForceCompleted bool       `json:"force_completed"`
	CompletedBy    *string    `json:"completed_by"`
}

type hatimDetailResponse struct {
	hatimResponse
	Progress    progressResponse     `json:"progress"`
	Assignments []assignmentResponse `json:"assignments"`
}

type hatimListResponse struct {
	Items []hatimResponse `json:"items"`
	Total int             `json:"total"`
}

type markPageResponse struct {
	Assignment     assignmentResponse `json:"assignment"`
	Progress       progressResponse   `json:"progress"`
	HatimCompleted bool               `json:"hatim_completed"`
}

func toHatimResponse(hatim hatimdomain.Hatim) hatimResponse {
	return hatimResponse{
		ID:             hatim.ID,
		TeamID:         hatim.TeamID,
		Name:           hatim.Name,
		StartDate:      hatim.StartDate,
		EndDate:        hatim.EndDate,
		Status:         string(hatim.Status),
		TotalPages:     hatim.TotalPages,
		CompletedPages: hatim.CompletedPages,
		ForceCompleted: hatim.ForceCompleted,
		CompletedBy:    hatim.CompletedBy,
	}
}

func toDetailResponse(details *hatimdomain.Details) hatimDetailResponse {
	assignments := make([]assignmentResponse, 0, len(details.Assignments))
	for _, assignment := range details.Assignments {
		assignments = append(assignments, toAssignmentResponse(assignment))
	}
	return hatimDetailResponse{
		hatimResponse: toHatimResponse(details.Hatim),
		Progress:      toProgressResponse(details.Progress),
		Assignments:   assignments,
	}
}

func toAssignmentResponse(assignment hatimdomain.PageAssignment) assignmentResponse {
	completed := assignment.CompletedPages
	if completed == nil {
		completed = []int{}
	}
	return assignmentResponse{
		ID:             assignment.ID,
		UserID:         assignment.UserID,
		Pages:          assignment.Pages(),
		FirstPage:      assignment.FirstPage,
		LastPage:       assignment.LastPage(),
		CompletedPages: completed,
	}
}

func toProgressResponse(progress hatimdomain.Progress) progressResponse {
	return progressResponse{
		TotalPages:     progress.TotalPages,
		CompletedPages: progress.CompletedPages,
		Percent:        progress.Percent,
		IsComplete:     progress.IsComplete,
	}
}
