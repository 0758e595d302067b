package hatims

import (
	"net/http"
	"strconv"
	"strings"

	hatimdomain "hatim-app-go/internal/domain/hatim"
	"hatim-app-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type startHatimRequest struct {
	Name string `json:"name"`
}

func (h *Handlers) ListTeamHatims(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	teamID := chi.URLParam(r, "team_id")
	hatims, err := h.Hatims.ListTeamHatims(r.Context(), teamID, user.ID)
	if err != nil {
		writeDomainError(w, r, h.log, "hatims.list", err, "user_id", user.ID, "team_id", teamID)
		return
	}

	items := make([]hatimResponse, 0, len(hatims))
	for _, hatim := range hatims {
		items = append(items, toHatimResponse(hatim))
	}
	writeJSON(w, http.StatusOK, hatimListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) StartHatim(w http.ResponseWriter, r *http.Request) {
	var req startHatimRequest
	if err := decodeJSON(r, &req); err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_json")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeLocalizedError(w, r, http.StatusBadRequest, "name_required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	teamID := chi.URLParam(r, "team_id")
	details, err := h.Hatims.StartHatim(r.Context(), teamID, user.ID, req.Name)
	if err != nil {
		writeDomainError(w, r, h.log, "hatims.start", err, "user_id", user.ID, "team_id", teamID)
		return
	}

	h.log.Info("hatims.start: started", "hatim_id", details.Hatim.ID, "team_id", teamID, "assignments", len(details.Assignments))
	writeJSON(w, http.StatusCreated, toDetailResponse(details))
}

func (h *Handlers) GetHatim(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	hatimID := chi.URLParam(r, "hatim_id")
	details, err := h.Hatims.GetHatim(r.Context(), hatimID, user.ID)
	if err != nil {
		writeDomainError(w, r, h.log, "hatims.get", err, "user_id", user.ID, "hatim_id", hatimID)
		return
	}

	writeJSON(w, http.StatusOK, toDetailResponse(details))
}

func (h *Handlers) MarkPage(w http.ResponseWriter, r *http.Request) {
	h.markPage(w, r, true)
}

func (h *Handlers) UnmarkPage(w http.ResponseWriter, r *http.Request) {
	h.markPage(w, r, false)
}

func (h *Handlers) markPage(w http.ResponseWriter, r *http.Request, completed bool) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeLocalizedError(w, r, http.StatusBadRequest, "invalid_page")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	input := hatimdomain.MarkPageInput{
		HatimID:      chi.URLParam(r, "hatim_id"),
		AssignmentID: chi.URLParam(r, "assignment_id"),
		UserID:       user.ID,
		Page:         page,
		Completed:    completed,
	}
	result, err := h.Hatims.MarkPage(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, h.log, "hatims.mark_page", err,
			"user_id", user.ID, "hatim_id", input.HatimID, "assignment_id", input.AssignmentID, "page", page)
		return
	}

	if result.HatimCompleted {
		h.log.Info("hatims.mark_page: hatim completed", "hatim_id", input.HatimID)
	}
	writeJSON(w, http.StatusOK, markPageResponse{
		Assignment:     toAssignmentResponse(result.Assignment),
		Progress:       toProgressResponse(result.Progress),
		HatimCompleted: result.HatimCompleted,
	})
}

func (h *Handlers) ForceComplete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	hatimID := chi.URLParam(r, "hatim_id")
	hatim, err := h.Hatims.ForceComplete(r.Context(), hatimID, user.ID)
	if err != nil {
		writeDomainError(w, r, h.log, "hatims.force_complete", err, "user_id", user.ID, "hatim_id", hatimID)
		return
	}

	h.log.Warn("hatims.force_complete: completed by admin",
		"hatim_id", hatim.ID, "user_id", user.ID, "completed_pages", hatim.CompletedPages, "total_pages", hatim.TotalPages)
	writeJSON(w, http.StatusOK, toHatimResponse(*hatim))
}
