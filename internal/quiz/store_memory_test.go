package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

func strPtr(s string) *string { return &s }

func TestMemoryStoreQuizCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), Meta: Metadata{Title: "T"}, PassingScore: 70}
	require.NoError(t, store.PutQuiz(ctx, q))

	got, err := store.GetQuiz(ctx, "quiz-1")
	require.NoError(t, err)
	assert.Equal(t, q, got)

	_, err = store.GetQuiz(ctx, "ghost")
	assert.True(t, apperr.IsNotFound(err))

	byVideo, err := store.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	assert.Len(t, byVideo, 1)

	byVideo, err = store.QuizzesByVideo(ctx, "vid-2")
	require.NoError(t, err)
	assert.Empty(t, byVideo)

	require.NoError(t, store.DeleteQuiz(ctx, "quiz-1"))
	assert.True(t, apperr.IsNotFound(store.DeleteQuiz(ctx, "quiz-1")))
}

func TestMemoryStoreAttempts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.RecordAttempt(ctx, Attempt{ID: "a1", UserID: "user-1", Percentage: 90}))
	require.NoError(t, store.RecordAttempt(ctx, Attempt{ID: "a2", UserID: "user-2", Percentage: 40}))

	mine, err := store.AttemptsByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a1", mine[0].ID)

	all, err := store.AllAttempts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStoreProgressUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.UpsertProgress(ctx, VideoProgress{UserID: "user-1", VideoID: "vid-1", WatchedSeconds: 30}))
	require.NoError(t, store.UpsertProgress(ctx, VideoProgress{UserID: "user-1", VideoID: "vid-1", WatchedSeconds: 95, Completed: true}))

	got, err := store.ProgressByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 95, got[0].WatchedSeconds)
	assert.True(t, got[0].Completed)
}
