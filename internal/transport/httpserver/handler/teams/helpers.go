package teams

import (
	"net/http"

	commonhandler "hatim-app-go/internal/transport/httpserver/handler/common"
	"hatim-app-go/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func writeLocalizedError(w http.ResponseWriter, r *http.Request, status int, code string) {
	commonhandler.WriteLocalizedError(w, r, status, code)
}

func writeDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error, args ...any) {
	commonhandler.WriteDomainError(w, r, log, op, err, args...)
}
