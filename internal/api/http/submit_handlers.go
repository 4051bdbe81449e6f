package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/metrics"
	"github.com/ridgecrew/trainhub/internal/quiz"
	"github.com/ridgecrew/trainhub/internal/scoring"
)

// SubmitQuizHandler scores a submission and records the attempt. A missing
// quiz is a 404, never a zero score. Submissions referencing unknown
// question ids are scored without them.
func SubmitQuizHandler(store quiz.Store, engine *scoring.Engine, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.Validation("answers", "malformed json"))
			return
		}
		if req.Answers == nil {
			req.Answers = map[string]string{}
		}

		q, err := store.GetQuiz(r.Context(), quizID)
		if err != nil {
			writeError(w, err)
			return
		}

		res := engine.Score(q, scoring.Submission{QuizID: quizID, Answers: req.Answers})
		if m != nil {
			m.SubmissionsScored.Inc()
		}

		attempt := quiz.Attempt{
			ID:             uuid.NewString(),
			QuizID:         q.ID,
			UserID:         authz.SubjectFromContext(r.Context()),
			Category:       q.Meta.Category,
			Percentage:     res.Percentage,
			Passed:         res.Passed,
			GradablePoints: res.GradablePoints,
			SubmittedAt:    time.Now(),
		}
		// History is a write path: a failed record must not look like success.
		if err := store.RecordAttempt(r.Context(), attempt); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
