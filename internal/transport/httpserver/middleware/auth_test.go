package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hatim-app-go/internal/config"
	userdomain "hatim-app-go/internal/domain/user"
	"hatim-app-go/pkg/logger"

	"github.com/stretchr/testify/require"
)

type recordingProfiles struct {
	mu     sync.Mutex
	inputs []userdomain.ProfileInput
}

func (p *recordingProfiles) UpsertProfile(ctx context.Context, input userdomain.ProfileInput) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, input)
	return nil
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	_, _ = w.Write([]byte(userID))
}

func TestAuthValidatesBearerAndSavesProfile(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("Authorization") != "Bearer good" || r.Header.Get("apikey") != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "u1",
			"email": "u1@example.com",
			"user_metadata": map[string]interface{}{
				"full_name":  "Reader One",
				"avatar_url": "https://example.com/a.png",
			},
		})
	}))
	defer provider.Close()

	profiles := &recordingProfiles{}
	auth := NewSupabaseAuth(config.SupabaseConfig{URL: provider.URL + "/", PublishableKey: "key"}, profiles, logger.Nop())
	handler := auth.Middleware(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", rec.Body.String())
	require.Equal(t, []userdomain.ProfileInput{{
		UserID:      "u1",
		DisplayName: "Reader One",
		Email:       "u1@example.com",
		AvatarURL:   "https://example.com/a.png",
	}}, profiles.inputs)

	for _, header := range []string{"", "Bearer", "Token good", "Bearer bad"} {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
	require.Len(t, profiles.inputs, 1)
}

func TestAuthMockUser(t *testing.T) {
	profiles := &recordingProfiles{}
	auth := NewSupabaseAuth(config.SupabaseConfig{SkipAuth: true, MockUserID: " dev ", MockUserName: "Dev"}, profiles, logger.Nop())

	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dev", rec.Body.String())
	require.Len(t, profiles.inputs, 1)
	require.Equal(t, "Dev", profiles.inputs[0].DisplayName)

	unconfigured := NewSupabaseAuth(config.SupabaseConfig{SkipAuth: true}, nil, logger.Nop())
	rec = httptest.NewRecorder()
	unconfigured.Middleware(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
