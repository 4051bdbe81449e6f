package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/quiz"
)

// UpsertProgressHandler records the current user's progress on a video.
func UpsertProgressHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Completed      bool `json:"completed"`
			WatchedSeconds int  `json:"watched_seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("", "malformed json"))
			return
		}
		p := quiz.VideoProgress{
			UserID:         authz.SubjectFromContext(r.Context()),
			VideoID:        chi.URLParam(r, "videoID"),
			Completed:      req.Completed,
			WatchedSeconds: req.WatchedSeconds,
			UpdatedAt:      time.Now(),
		}
		if err := store.UpsertProgress(r.Context(), p); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
