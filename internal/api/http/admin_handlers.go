package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/auth"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/metrics"
)

// SetRoleHandler routes a role change through the guard. The guard's deny
// reason is returned verbatim; the role write itself is idempotent.
func SetRoleHandler(guard *authz.Guard, store identity.Store, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := chi.URLParam(r, "userID")
		var req struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("role", "malformed json"))
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if !identity.ValidRole(role) {
			writeError(w, apperr.Validation("role", "role must be user or admin"))
			return
		}

		// Authentication and admin rules run before the target is resolved,
		// matching the guard's rule order.
		actor := auth.PrincipalFromContext(r.Context())
		if pre := guard.AuthorizeAdmin(actor); !pre.Allowed {
			if m != nil {
				m.RoleChanges.WithLabelValues("denied").Inc()
			}
			writeDeny(w, pre)
			return
		}

		target, err := store.Get(r.Context(), targetID)
		if err != nil {
			writeError(w, err)
			return
		}

		d, err := guard.SetRole(r.Context(), store, actor, target, role)
		if !d.Allowed {
			if m != nil {
				m.RoleChanges.WithLabelValues("denied").Inc()
			}
			writeDeny(w, d)
			return
		}
		if err != nil {
			if m != nil {
				m.RoleChanges.WithLabelValues("error").Inc()
			}
			writeError(w, err)
			return
		}
		if m != nil {
			m.RoleChanges.WithLabelValues("ok").Inc()
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": target.ID, "role": role})
	}
}

// DeleteUserHandler removes an account, subject to the same protections.
func DeleteUserHandler(guard *authz.Guard, store identity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID := chi.URLParam(r, "userID")
		actor := auth.PrincipalFromContext(r.Context())
		if pre := guard.AuthorizeAdmin(actor); !pre.Allowed {
			writeDeny(w, pre)
			return
		}
		target, err := store.Get(r.Context(), targetID)
		if err != nil {
			writeError(w, err)
			return
		}
		d, err := guard.DeletePrincipal(r.Context(), store, actor, target)
		if !d.Allowed {
			writeDeny(w, d)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

func ListUsersHandler(store identity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := store.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}
