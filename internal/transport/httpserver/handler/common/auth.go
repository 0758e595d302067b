package common

import (
	"errors"
	"net/http"

	userdomain "hatim-app-go/internal/domain/user"
	"hatim-app-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteLocalizedError(w, r, http.StatusUnauthorized, "invalid_token")
		return
	}

	response := authMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}

	profile, err := h.Profiles.GetProfile(r.Context(), user.ID)
	switch {
	case err == nil:
		if profile.DisplayName != nil {
			response.DisplayName = *profile.DisplayName
		}
	case errors.Is(err, userdomain.ErrProfileNotFound):
	default:
		WriteDomainError(w, r, h.log, "auth.me", err, "user_id", user.ID)
		return
	}
	if response.DisplayName == "" {
		response.DisplayName = user.Name
	}

	writeJSON(w, http.StatusOK, response)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
