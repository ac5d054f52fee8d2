package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/penguindb/internal/common"
	"github.com/dmitrijs2005/penguindb/internal/validation"
)

// writeError maps domain errors to the response envelope and status codes.
// Anything unrecognized becomes a logged generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		writeEnvelope(w, http.StatusBadRequest, false, "Validation error", nil,
			map[string]any{"validationErrors": verr.Messages})
		return
	}

	switch {
	case errors.Is(err, common.ErrorEmailTaken), errors.Is(err, common.ErrorUsernameTaken):
		writeEnvelope(w, http.StatusBadRequest, false, err.Error(), nil, nil)

	case errors.Is(err, common.ErrorInvalidID):
		writeEnvelope(w, http.StatusBadRequest, false, "Invalid ID format", nil, nil)

	case errors.Is(err, common.ErrTokenRequired):
		writeEnvelope(w, http.StatusUnauthorized, false, "Access token required", nil, nil)

	case errors.Is(err, common.ErrTokenExpired):
		writeEnvelope(w, http.StatusUnauthorized, false, "Token expired - Please log in again", nil, nil)

	case errors.Is(err, common.ErrInvalidToken):
		writeEnvelope(w, http.StatusUnauthorized, false, "Invalid or expired token", nil, nil)

	case errors.Is(err, common.ErrorUnauthorized):
		writeEnvelope(w, http.StatusUnauthorized, false, "Unauthorized - Please log in", nil, nil)

	case errors.Is(err, common.ErrorForbidden):
		writeEnvelope(w, http.StatusForbidden, false, "Forbidden - You do not own this record", nil, nil)

	case errors.Is(err, common.ErrorNotFound):
		writeEnvelope(w, http.StatusNotFound, false, "Not found", nil, nil)

	default:
		s.logger.Error(r.Context(), "request failed",
			"error", err, "method", r.Method, "path", r.URL.Path)
		detail := map[string]any{"type": "internal"}
		if s.cfg.IsDevelopment() {
			detail["detail"] = err.Error()
		}
		writeEnvelope(w, http.StatusInternalServerError, false, "Internal server error", nil, detail)
	}
}
