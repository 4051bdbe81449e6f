package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/insights"
)

// ComprehensionHandler serves one user's summary. Users may only read their
// own; admins may read anyone's.
func ComprehensionHandler(agg *insights.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		ctx := r.Context()
		if authz.RoleFromContext(ctx) != identity.RoleAdmin && authz.SubjectFromContext(ctx) != userID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, agg.Summarize(ctx, userID))
	}
}

// OverviewHandler serves the aggregate dashboard rollup.
func OverviewHandler(agg *insights.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, agg.Overall(r.Context()))
	}
}
