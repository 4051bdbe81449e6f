package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

// SQLStore persists quizzes with the question sequence as a single JSON
// column, stored and returned verbatim.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	entries := EncodeEntries(NormalizedMeta(q.ID, q.Meta), q.Questions)
	buf, err := json.Marshal(entries)
	if err != nil {
		return apperr.Collaborator("quiz.put", err)
	}
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id, video_id, passing_score, questions_json, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET video_id=EXCLUDED.video_id, passing_score=EXCLUDED.passing_score,
			questions_json=EXCLUDED.questions_json, updated_at=EXCLUDED.updated_at`,
		q.ID, q.VideoID, q.PassingScore, string(buf), q.CreatedAt.Unix(), now.Unix())
	if err != nil {
		return apperr.Collaborator("quiz.put", err)
	}
	return nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, video_id, passing_score, questions_json, created_at, updated_at FROM quizzes WHERE id=$1`, id)
	q, err := scanQuiz(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, apperr.NotFound("quiz", id)
		}
		return Quiz{}, apperr.Collaborator("quiz.get", err)
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, video_id, passing_score, questions_json, created_at, updated_at FROM quizzes ORDER BY created_at DESC`)
}

func (s *SQLStore) QuizzesByVideo(ctx context.Context, videoID string) ([]Quiz, error) {
	return s.queryQuizzes(ctx,
		`SELECT id, video_id, passing_score, questions_json, created_at, updated_at FROM quizzes WHERE video_id=$1 ORDER BY created_at DESC`,
		videoID)
}

func (s *SQLStore) queryQuizzes(ctx context.Context, query string, args ...any) ([]Quiz, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Collaborator("quiz.list", err)
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		q, err := scanQuiz(rows.Scan)
		if err != nil {
			return nil, apperr.Collaborator("quiz.list", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Collaborator("quiz.list", err)
	}
	return out, nil
}

func scanQuiz(scan func(...any) error) (Quiz, error) {
	var q Quiz
	var videoID sql.NullString
	var qjson string
	var createdAt, updatedAt int64
	if err := scan(&q.ID, &videoID, &q.PassingScore, &qjson, &createdAt, &updatedAt); err != nil {
		return Quiz{}, err
	}
	if videoID.Valid {
		v := videoID.String
		q.VideoID = &v
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(qjson), &entries); err != nil {
		return Quiz{}, err
	}
	q.Meta, q.Questions = DecodeEntries(q.ID, entries)
	q.CreatedAt = time.Unix(createdAt, 0).UTC()
	q.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return q, nil
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return apperr.Collaborator("quiz.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Collaborator("quiz.delete", err)
	}
	if n == 0 {
		return apperr.NotFound("quiz", id)
	}
	return nil
}

func (s *SQLStore) RecordAttempt(ctx context.Context, a Attempt) error {
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts (id, quiz_id, user_id, category, percentage, passed, gradable_points, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.QuizID, a.UserID, a.Category, a.Percentage, boolToInt(a.Passed), a.GradablePoints, a.SubmittedAt.Unix())
	if err != nil {
		return apperr.Collaborator("attempt.record", err)
	}
	return nil
}

func (s *SQLStore) AttemptsByUser(ctx context.Context, userID string) ([]Attempt, error) {
	return s.queryAttempts(ctx,
		`SELECT id, quiz_id, user_id, category, percentage, passed, gradable_points, submitted_at FROM quiz_attempts WHERE user_id=$1 ORDER BY submitted_at DESC`,
		userID)
}

func (s *SQLStore) AllAttempts(ctx context.Context) ([]Attempt, error) {
	return s.queryAttempts(ctx,
		`SELECT id, quiz_id, user_id, category, percentage, passed, gradable_points, submitted_at FROM quiz_attempts ORDER BY submitted_at DESC`)
}

func (s *SQLStore) queryAttempts(ctx context.Context, query string, args ...any) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Collaborator("attempt.list", err)
	}
	defer rows.Close()
	var out []Attempt
	for rows.Next() {
		var a Attempt
		var passed int
		var submittedAt int64
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Category, &a.Percentage, &passed, &a.GradablePoints, &submittedAt); err != nil {
			return nil, apperr.Collaborator("attempt.list", err)
		}
		a.Passed = passed != 0
		a.SubmittedAt = time.Unix(submittedAt, 0).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Collaborator("attempt.list", err)
	}
	return out, nil
}

func (s *SQLStore) UpsertProgress(ctx context.Context, p VideoProgress) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO video_progress (user_id, video_id, completed, watched_seconds, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, video_id) DO UPDATE SET completed=EXCLUDED.completed,
			watched_seconds=EXCLUDED.watched_seconds, updated_at=EXCLUDED.updated_at`,
		p.UserID, p.VideoID, boolToInt(p.Completed), p.WatchedSeconds, p.UpdatedAt.Unix())
	if err != nil {
		return apperr.Collaborator("progress.upsert", err)
	}
	return nil
}

func (s *SQLStore) ProgressByUser(ctx context.Context, userID string) ([]VideoProgress, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, video_id, completed, watched_seconds, updated_at FROM video_progress WHERE user_id=$1`, userID)
	if err != nil {
		return nil, apperr.Collaborator("progress.list", err)
	}
	defer rows.Close()
	var out []VideoProgress
	for rows.Next() {
		var p VideoProgress
		var completed int
		var updatedAt int64
		if err := rows.Scan(&p.UserID, &p.VideoID, &completed, &p.WatchedSeconds, &updatedAt); err != nil {
			return nil, apperr.Collaborator("progress.list", err)
		}
		p.Completed = completed != 0
		p.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Collaborator("progress.list", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
