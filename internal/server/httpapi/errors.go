package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps service sentinels to HTTP statuses. The code field is a
// stable machine string; clients branch on it, not on the message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {

	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, common.ErrorNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrorExpired):
		status, code = http.StatusGone, "expired"
	case errors.Is(err, common.ErrorPasswordRequired):
		status, code = http.StatusUnauthorized, "password_required"
	case errors.Is(err, common.ErrorForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorResourceExhausted):
		status, code = http.StatusServiceUnavailable, "resource_exhausted"
	case errors.Is(err, common.ErrorUpstream):
		status, code = http.StatusBadGateway, "upstream"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err.Error())
	}

	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
