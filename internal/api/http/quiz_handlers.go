package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ridgecrew/trainhub/internal/apperr"
	"github.com/ridgecrew/trainhub/internal/authz"
	"github.com/ridgecrew/trainhub/internal/identity"
	"github.com/ridgecrew/trainhub/internal/quiz"
)

var validate = validator.New()

type quizPayload struct {
	VideoID      *string           `json:"video_id"`
	Metadata     quiz.Metadata     `json:"metadata"`
	PassingScore int               `json:"passing_score" validate:"gte=0,lte=100"`
	Questions    []questionPayload `json:"questions" validate:"required,min=1,dive"`
}

type questionPayload struct {
	ID            string        `json:"id"`
	Kind          string        `json:"kind" validate:"required,oneof=multiple_choice true_false open_ended"`
	Prompt        string        `json:"prompt" validate:"required"`
	Points        int           `json:"points" validate:"gte=0"`
	Options       []quiz.Option `json:"options,omitempty"`
	CorrectOption string        `json:"correct_option,omitempty"`
	CorrectBool   *bool         `json:"correct_bool,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
	Explanation   string        `json:"explanation,omitempty"`
}

// toQuiz validates the payload and builds the domain record. Update replaces
// the whole question sequence; there are no partial question edits.
func (p quizPayload) toQuiz(id string, defaultPassingScore int) (quiz.Quiz, error) {
	if err := validate.Struct(p); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return quiz.Quiz{}, apperr.Validation(errs[0].Field(), "failed "+errs[0].Tag()+" validation")
		}
		return quiz.Quiz{}, apperr.Validation("", err.Error())
	}
	q := quiz.Quiz{
		ID:           id,
		VideoID:      p.VideoID,
		Meta:         p.Metadata,
		PassingScore: p.PassingScore,
	}
	if q.PassingScore == 0 {
		q.PassingScore = defaultPassingScore
	}
	for _, qp := range p.Questions {
		question := quiz.Question{
			ID:            qp.ID,
			Kind:          qp.Kind,
			Prompt:        qp.Prompt,
			Points:        qp.Points,
			Options:       qp.Options,
			CorrectOption: qp.CorrectOption,
			CorrectBool:   qp.CorrectBool,
			Keywords:      qp.Keywords,
			Explanation:   qp.Explanation,
		}
		if question.ID == "" {
			question.ID = uuid.NewString()
		}
		if err := question.Validate(); err != nil {
			return quiz.Quiz{}, err
		}
		q.Questions = append(q.Questions, question)
	}
	return q, nil
}

func CreateQuizHandler(store quiz.Store, defaultPassingScore int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p quizPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, apperr.Validation("", "malformed json"))
			return
		}
		q, err := p.toQuiz(uuid.NewString(), defaultPassingScore)
		if err != nil {
			writeError(w, err)
			return
		}
		now := time.Now()
		q.CreatedAt = now
		q.UpdatedAt = now
		q.Meta = quiz.NormalizedMeta(q.ID, q.Meta)
		if err := store.PutQuiz(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

func ReplaceQuizHandler(store quiz.Store, defaultPassingScore int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		existing, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		var p quizPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, apperr.Validation("", "malformed json"))
			return
		}
		q, err := p.toQuiz(id, defaultPassingScore)
		if err != nil {
			writeError(w, err)
			return
		}
		q.CreatedAt = existing.CreatedAt
		q.UpdatedAt = time.Now()
		q.Meta = quiz.NormalizedMeta(q.ID, q.Meta)
		if err := store.PutQuiz(r.Context(), q); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// GetQuizHandler serves a single quiz. Admins see the full definition;
// everyone else gets the taker-safe copy with answer keys stripped.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if authz.RoleFromContext(r.Context()) != identity.RoleAdmin {
			q = q.Sanitized()
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuizzes(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		admin := authz.RoleFromContext(r.Context()) == identity.RoleAdmin
		out := make([]quiz.Quiz, 0, len(qs))
		for _, q := range qs {
			if !admin {
				q = q.Sanitized()
			}
			out = append(out, q)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func QuizzesByVideoHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.QuizzesByVideo(r.Context(), chi.URLParam(r, "videoID"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]quiz.Quiz, 0, len(qs))
		for _, q := range qs {
			out = append(out, q.Sanitized())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}
