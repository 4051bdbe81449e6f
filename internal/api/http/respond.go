// Package http is the service's HTTP surface: quiz CRUD, submissions,
// admin role management and comprehension summaries.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/authz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. The guard's deny
// reason is passed through verbatim so callers can render per-reason
// messages.
func writeError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	var nf *apperr.NotFoundError
	var ae *apperr.AuthorizationError
	var ce *apperr.CollaboratorError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nf.Error()})
	case errors.As(err, &ae):
		writeJSON(w, decisionStatus(ae.Reason), map[string]string{"error": ae.Reason})
	case errors.As(err, &ce):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream failure"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeDeny(w http.ResponseWriter, d authz.Decision) {
	writeJSON(w, decisionStatus(d.Reason), map[string]string{"error": d.Reason})
}

func decisionStatus(reason string) int {
	switch reason {
	case authz.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case authz.ReasonNotAdmin, authz.ReasonProtected:
		return http.StatusForbidden
	case authz.ReasonSelf:
		return http.StatusBadRequest
	default:
		return http.StatusForbidden
	}
}
