package quiz

import (
	"context"
	"sync"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

// MemoryStore is a map-backed Store for tests and offline runs.
type MemoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts []Attempt
	progress map[string]VideoProgress // userID|videoID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quizzes:  map[string]Quiz{},
		progress: map[string]VideoProgress{},
	}
}

func (m *MemoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *MemoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, apperr.NotFound("quiz", id)
	}
	return q, nil
}

func (m *MemoryStore) ListQuizzes(_ context.Context) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		out = append(out, q)
	}
	return out, nil
}

func (m *MemoryStore) QuizzesByVideo(_ context.Context, videoID string) ([]Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Quiz
	for _, q := range m.quizzes {
		if q.VideoID != nil && *q.VideoID == videoID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return apperr.NotFound("quiz", id)
	}
	delete(m.quizzes, id)
	return nil
}

func (m *MemoryStore) RecordAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, a)
	return nil
}

func (m *MemoryStore) AttemptsByUser(_ context.Context, userID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Attempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MemoryStore) AllAttempts(_ context.Context) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Attempt, len(m.attempts))
	copy(out, m.attempts)
	return out, nil
}

func (m *MemoryStore) UpsertProgress(_ context.Context, p VideoProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[p.UserID+"|"+p.VideoID] = p
	return nil
}

func (m *MemoryStore) ProgressByUser(_ context.Context, userID string) ([]VideoProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []VideoProgress
	for _, p := range m.progress {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
