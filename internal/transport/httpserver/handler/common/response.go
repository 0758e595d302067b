package common

import (
	"encoding/json"
	"net/http"

	"hatim-app-go/internal/domain/apperr"
	"hatim-app-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteLocalizedError writes the envelope with the message for code in the
// request's language.
func WriteLocalizedError(w http.ResponseWriter, r *http.Request, status int, code string) {
	writeError(w, status, code, Localize(r, code, code))
}

// WriteDomainError maps a classified error to its status and localized
// message. Anything unclassified is a 500 and logged as internal.
func WriteDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error, args ...any) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.InternalError(op+": failed", err, args...)
		WriteLocalizedError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	log.BusinessError(op+": "+appErr.Code, err, args...)
	writeError(w, StatusFor(appErr.Kind), appErr.Code, Localize(r, appErr.Code, appErr.Message))
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindConflict, apperr.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
