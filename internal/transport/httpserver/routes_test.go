package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hatim-app-go/internal/config"
	hatimdomain "hatim-app-go/internal/domain/hatim"
	teamdomain "hatim-app-go/internal/domain/team"
	userdomain "hatim-app-go/internal/domain/user"
	"hatim-app-go/internal/metrics"
	"hatim-app-go/internal/repository/inmemory"
	"hatim-app-go/internal/transport/httpserver/handler"
	"hatim-app-go/internal/transport/httpserver/handler/callable"
	"hatim-app-go/internal/transport/httpserver/handler/common"
	"hatim-app-go/internal/transport/httpserver/handler/hatims"
	"hatim-app-go/internal/transport/httpserver/handler/teams"
	"hatim-app-go/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const adminID = "admin-1"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Config{
		HTTPPort: "0",
		Store:    config.StoreMemory,
		HTTP: config.HTTPConfig{
			ConcurrencyLimit:   4,
			ConcurrencyBacklog: 8,
			BacklogTimeout:     time.Second,
			RequestTimeout:     5 * time.Second,
			CORSOrigins:        "*",
		},
		Supabase: config.SupabaseConfig{SkipAuth: true, MockUserID: adminID},
	}

	log := logger.Nop()
	registry := prometheus.NewRegistry()
	collector := metrics.NewPrometheus(registry, "")

	profiles := userdomain.NewService(inmemory.NewInMemoryProfileRepository())
	teamService := teamdomain.NewServiceWithMetrics(inmemory.NewInMemoryTeamRepository(), collector)
	hatimService := hatimdomain.NewServiceWithConfig(inmemory.NewInMemoryHatimRepository(), teamService, hatimdomain.Config{
		TotalPages: 4,
		Metrics:    collector,
	})

	handlers := &handler.Handlers{
		Common:   common.New(profiles, log),
		Teams:    teams.New(teamService, log),
		Hatims:   hatims.New(hatimService, log),
		Callable: callable.New(teamService, hatimService, log),
	}
	return NewRouter(cfg, handlers, profiles, collector, registry, log)
}

func do(t *testing.T, router http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestHatimLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/teams", map[string]string{"name": "Ramadan"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	team := decode[struct {
		ID      string   `json:"id"`
		Members []string `json:"members"`
		IsAdmin bool     `json:"is_admin"`
	}](t, rec)
	require.True(t, team.IsAdmin)
	require.Equal(t, []string{adminID}, team.Members)

	rec = do(t, router, http.MethodPost, "/api/teams/"+team.ID+"/hatims", map[string]string{"name": "First"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	hatim := decode[struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		Assignments []struct {
			ID     string `json:"id"`
			UserID string `json:"user_id"`
			Pages  []int  `json:"pages"`
		} `json:"assignments"`
	}](t, rec)
	require.Equal(t, "active", hatim.Status)
	require.Len(t, hatim.Assignments, 1)
	require.Equal(t, []int{1, 2, 3, 4}, hatim.Assignments[0].Pages)

	pagePath := func(page int) string {
		return fmt.Sprintf("/api/hatims/%s/assignments/%s/pages/%d", hatim.ID, hatim.Assignments[0].ID, page)
	}

	for page := 1; page <= 3; page++ {
		rec = do(t, router, http.MethodPut, pagePath(page), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.False(t, decode[map[string]any](t, rec)["hatim_completed"].(bool))
	}

	rec = do(t, router, http.MethodPost, "/api/callable/checkHatimCompletion", map[string]string{"hatimId": hatim.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	check := decode[map[string]any](t, rec)
	require.Equal(t, false, check["completed"])
	require.EqualValues(t, 75, check["progress"])
	require.EqualValues(t, 4, check["totalPages"])
	require.EqualValues(t, 3, check["completedPages"])

	rec = do(t, router, http.MethodPut, pagePath(4), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[map[string]any](t, rec)["hatim_completed"].(bool))

	rec = do(t, router, http.MethodPost, "/api/callable/checkHatimCompletion", map[string]string{"hatimId": hatim.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	check = decode[map[string]any](t, rec)
	require.Equal(t, true, check["completed"])
	require.Equal(t, "hatim completed", check["message"])
	require.NotContains(t, check, "progress")

	rec = do(t, router, http.MethodDelete, pagePath(4), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/teams/"+team.ID+"/hatims", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Items []struct {
			Status         string `json:"status"`
			CompletedPages int    `json:"completed_pages"`
		} `json:"items"`
		Total int `json:"total"`
	}](t, rec)
	require.Equal(t, 1, list.Total)
	require.Equal(t, "completed", list.Items[0].Status)
	require.Equal(t, 4, list.Items[0].CompletedPages)

	rec = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "hatim_hatims_started_total 1")
	require.Contains(t, rec.Body.String(), `hatim_completion_transitions_total{source="mark_page"} 1`)
}

func TestInvalidPageParameter(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPut, "/api/hatims/h1/assignments/a1/pages/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_page")
}

func TestErrorsAreLocalized(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/callable/checkHatimCompletion",
		map[string]string{"hatimId": "missing"}, "Accept-Language", "tr-TR,tr;q=0.9")
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode[struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}](t, rec)
	require.Equal(t, "hatim_not_found", body.Error.Code)
	require.Equal(t, "Hatim bulunamadı", body.Error.Message)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodOptions, "/api/teams", nil, "Origin", "http://localhost:5173")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	require.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Headers"), "Accept-Language"))
}
