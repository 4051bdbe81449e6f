// Package quiz owns quiz definitions, their storage representation and the
// attempt/progress history the dashboard aggregates over.
package quiz

import (
	"time"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

// Question kinds.
const (
	KindMultipleChoice = "multiple_choice"
	KindTrueFalse      = "true_false"
	KindOpenEnded      = "open_ended"
)

// Option is one answer choice of a multiple-choice question. ID is the
// option letter ("A", "B", ...) or another caller-chosen identifier; grading
// compares by ID, never by text.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is polymorphic over Kind. Only the fields for the question's own
// kind are populated.
type Question struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Prompt string `json:"prompt"`
	Points int    `json:"points"` // defaults to 1 if zero

	// multiple_choice
	Options       []Option `json:"options,omitempty"`
	CorrectOption string   `json:"correct_option,omitempty"`

	// true_false
	CorrectBool *bool `json:"correct_bool,omitempty"`

	// open_ended
	Keywords []string `json:"keywords,omitempty"`

	Explanation string `json:"explanation,omitempty"`
}

// PointValue returns the question's point value with the documented default.
func (q Question) PointValue() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Gradable reports whether the kind has a single objectively correct answer.
func (q Question) Gradable() bool {
	return q.Kind == KindMultipleChoice || q.Kind == KindTrueFalse
}

// Validate checks the fields required for the question's kind.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return apperr.Validation("prompt", "prompt is required")
	}
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) == 0 {
			return apperr.Validation("options", "multiple_choice question needs options")
		}
		if q.CorrectOption == "" {
			return apperr.Validation("correct_option", "multiple_choice question needs a correct option")
		}
	case KindTrueFalse:
		if q.CorrectBool == nil {
			return apperr.Validation("correct_bool", "true_false question needs a correct value")
		}
	case KindOpenEnded:
		// keywords are optional; length heuristic applies without them
	default:
		return apperr.Validation("kind", "unknown question kind "+q.Kind)
	}
	return nil
}

// Metadata is the quiz's descriptive header.
type Metadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	TimeLimitSec int    `json:"time_limit_sec,omitempty"`
}

// Quiz is the composite record: metadata and questions are separate fields
// in memory; the sentinel-in-array form exists only at the storage boundary.
type Quiz struct {
	ID           string     `json:"id"`
	VideoID      *string    `json:"video_id,omitempty"` // nil for standalone quizzes
	Meta         Metadata   `json:"metadata"`
	Questions    []Question `json:"questions"`
	PassingScore int        `json:"passing_score"` // integer percentage
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Sanitized returns a copy safe to deliver to quiz-takers: answer keys,
// keywords and explanations stripped.
func (q Quiz) Sanitized() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		qq.CorrectOption = ""
		qq.CorrectBool = nil
		qq.Keywords = nil
		qq.Explanation = ""
		out.Questions[i] = qq
	}
	return out
}

// Attempt is one scored submission, kept for dashboard history.
type Attempt struct {
	ID             string    `json:"id"`
	QuizID         string    `json:"quiz_id"`
	UserID         string    `json:"user_id"`
	Category       string    `json:"category"`
	Percentage     int       `json:"percentage"`
	Passed         bool      `json:"passed"`
	GradablePoints int       `json:"gradable_points"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// VideoProgress records how far a user got through a training video.
type VideoProgress struct {
	UserID         string    `json:"user_id"`
	VideoID        string    `json:"video_id"`
	Completed      bool      `json:"completed"`
	WatchedSeconds int       `json:"watched_seconds"`
	UpdatedAt      time.Time `json:"updated_at"`
}
