package callable

import (
	"net/http"
	"strings"

	teamdomain "hatim-app-go/internal/domain/team"
	commonhandler "hatim-app-go/internal/transport/httpserver/handler/common"
	"hatim-app-go/internal/transport/httpserver/middleware"
)

type teamRequest struct {
	TeamID string `json:"teamId"`
	UserID string `json:"userId"`
}

type checkRequest struct {
	HatimID string `json:"hatimId"`
}

type resultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type checkResponse struct {
	Success        bool   `json:"success"`
	Completed      bool   `json:"completed"`
	Message        string `json:"message"`
	Progress       *int   `json:"progress,omitempty"`
	TotalPages     *int   `json:"totalPages,omitempty"`
	CompletedPages *int   `json:"completedPages,omitempty"`
}

func (h *Handlers) JoinTeamRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = user.ID
	}
	if userID != user.ID {
		writeDomainError(w, r, h.log, "callable.join_team_request", teamdomain.ErrNotRequester,
			"caller_id", user.ID, "user_id", userID, "team_id", req.TeamID)
		return
	}

	if err := h.Teams.RequestJoin(r.Context(), req.TeamID, userID); err != nil {
		writeDomainError(w, r, h.log, "callable.join_team_request", err, "user_id", userID, "team_id", req.TeamID)
		return
	}

	h.writeResult(w, r, "join_requested")
}

func (h *Handlers) ApproveTeamRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := h.Teams.Approve(r.Context(), req.TeamID, req.UserID, user.ID); err != nil {
		writeDomainError(w, r, h.log, "callable.approve_team_request", err,
			"caller_id", user.ID, "user_id", req.UserID, "team_id", req.TeamID)
		return
	}

	h.writeResult(w, r, "join_approved")
}

func (h *Handlers) RejectTeamRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	var req teamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := h.Teams.Reject(r.Context(), req.TeamID, req.UserID, user.ID); err != nil {
		writeDomainError(w, r, h.log, "callable.reject_team_request", err,
			"caller_id", user.ID, "user_id", req.UserID, "team_id", req.TeamID)
		return
	}

	h.writeResult(w, r, "join_rejected")
}

// CheckHatimCompletion needs no caller identity.
func (h *Handlers) CheckHatimCompletion(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}

	result, err := h.Hatims.CheckCompletion(r.Context(), req.HatimID)
	if err != nil {
		writeDomainError(w, r, h.log, "callable.check_hatim_completion", err, "hatim_id", req.HatimID)
		return
	}

	response := checkResponse{Success: true, Completed: result.Completed}
	if result.Completed {
		response.Message = commonhandler.Localize(r, "hatim_done", "hatim completed")
	} else {
		response.Message = commonhandler.Localize(r, "hatim_in_progress", "hatim in progress")
	}
	if result.Progress != nil {
		response.Progress = &result.Progress.Percent
		response.TotalPages = &result.Progress.TotalPages
		response.CompletedPages = &result.Progress.CompletedPages
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) writeResult(w http.ResponseWriter, r *http.Request, code string) {
	writeJSON(w, http.StatusOK, resultResponse{
		Success: true,
		Message: commonhandler.Localize(r, code, code),
	})
}
