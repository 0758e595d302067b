package teams

import (
	"net/http"
	"strings"
	"time"

	teamdomain "hatim-app-go/internal/domain/team"
	"hatim-app-go/internal/transport/httpserver/middleware"

	"github.com/go-chi/chi/v5"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type teamResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

type teamDetailResponse struct {
	teamResponse
	Members        []string `json:"members"`
	PendingMembers []string `json:"pending_members"`
	IsAdmin        bool     `json:"is_admin"`
}

type teamListResponse struct {
	Items []teamResponse `json:"items"`
	Total int            `json:"total"`
}

func (h *Handlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	teams, err := h.Teams.ListUserTeams(r.Context(), user.ID)
	if err != nil {
		writeDomainError(w, r, h.log, "teams.list", err, "user_id", user.ID)
		return
	}

	items := make([]teamResponse, 0, len(teams))
	for _, team := range teams {
		items = append(items, toTeamResponse(team))
	}
	writeJSON(w, http.StatusOK, teamListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
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

	team, err := h.Teams.CreateTeam(r.Context(), user.ID, req.Name)
	if err != nil {
		writeDomainError(w, r, h.log, "teams.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, teamDetailResponse{
		teamResponse:   toTeamResponse(*team),
		Members:        []string{user.ID},
		PendingMembers: []string{},
		IsAdmin:        true,
	})
}

func (h *Handlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	teamID := chi.URLParam(r, "team_id")
	view, err := h.Teams.GetTeam(r.Context(), teamID)
	if err != nil {
		writeDomainError(w, r, h.log, "teams.get", err, "user_id", user.ID, "team_id", teamID)
		return
	}
	if !view.IsMember(user.ID) {
		writeDomainError(w, r, h.log, "teams.get", teamdomain.ErrNotMember, "user_id", user.ID, "team_id", teamID)
		return
	}

	writeJSON(w, http.StatusOK, teamDetailResponse{
		teamResponse:   toTeamResponse(view.Team),
		Members:        nonNil(view.Members),
		PendingMembers: nonNil(view.PendingMembers),
		IsAdmin:        view.Team.AdminID == user.ID,
	})
}

func toTeamResponse(team teamdomain.Team) teamResponse {
	return teamResponse{
		ID:        team.ID,
		Name:      team.Name,
		AdminID:   team.AdminID,
		CreatedAt: team.CreatedAt,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
