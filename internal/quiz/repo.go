package quiz

import "context"

// Store is the persistence collaborator for quiz definitions, attempt
// history and video progress. Quiz updates are whole-record replacements;
// concurrent edits race with last-write-wins semantics, which is an accepted
// limitation of this store.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	QuizzesByVideo(ctx context.Context, videoID string) ([]Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error

	RecordAttempt(ctx context.Context, a Attempt) error
	AttemptsByUser(ctx context.Context, userID string) ([]Attempt, error)
	AllAttempts(ctx context.Context) ([]Attempt, error)

	UpsertProgress(ctx context.Context, p VideoProgress) error
	ProgressByUser(ctx context.Context, userID string) ([]VideoProgress, error)
}
