package teams

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	teamdomain "hatim-app-go/internal/domain/team"
	"hatim-app-go/internal/repository/inmemory"
	"hatim-app-go/internal/transport/httpserver/middleware"
	"hatim-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestGetTeamVisibility(t *testing.T) {
	service := teamdomain.NewService(inmemory.NewInMemoryTeamRepository())
	h := New(service, logger.Nop())

	ctx := context.Background()
	team, err := service.CreateTeam(ctx, "admin", "Team")
	require.NoError(t, err)
	require.NoError(t, service.RequestJoin(ctx, team.ID, "pending"))

	r := chi.NewRouter()
	r.Get("/teams/{team_id}", h.GetTeam)

	get := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/teams/"+team.ID, nil)
		req = req.WithContext(middleware.WithUser(req.Context(), middleware.User{ID: userID}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := get("admin")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Members        []string `json:"members"`
		PendingMembers []string `json:"pending_members"`
		IsAdmin        bool     `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, []string{"admin"}, body.Members)
	require.Equal(t, []string{"pending"}, body.PendingMembers)
	require.True(t, body.IsAdmin)

	require.Equal(t, http.StatusForbidden, get("pending").Code)
	require.Equal(t, http.StatusForbidden, get("stranger").Code)
}

func TestCreateTeamValidation(t *testing.T) {
	h := New(teamdomain.NewService(inmemory.NewInMemoryTeamRepository()), logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/teams", nil)
	req.Body = http.NoBody
	rec := httptest.NewRecorder()
	h.CreateTeam(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_json")
}
