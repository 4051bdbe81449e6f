package quiz

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheFixture(t *testing.T) (*CachedStore, *MemoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	inner := NewMemoryStore()
	return NewCachedStore(inner, client, time.Minute), inner, mr
}

func TestCachedStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCacheFixture(t)

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), Meta: Metadata{Title: "Cached"}, PassingScore: 70}
	require.NoError(t, inner.PutQuiz(ctx, q))

	first, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists("video:vid-1:quizzes"))

	// Mutate the inner store behind the cache's back. The stale cached
	// value must still be served until the key expires.
	require.NoError(t, inner.DeleteQuiz(ctx, "quiz-1"))

	second, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Cached", second[0].Meta.Title)
}

func TestCachedStoreExpiry(t *testing.T) {
	ctx := context.Background()
	cached, inner, mr := newCacheFixture(t)

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), PassingScore: 70}
	require.NoError(t, inner.PutQuiz(ctx, q))

	_, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.NoError(t, inner.DeleteQuiz(ctx, "quiz-1"))

	// Jitter keeps the TTL within ttl..ttl*1.1.
	mr.FastForward(2 * time.Minute)

	got, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCachedStorePutInvalidates(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCacheFixture(t)

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), PassingScore: 70}
	require.NoError(t, cached.PutQuiz(ctx, q))

	_, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("video:vid-1:quizzes"))

	q.PassingScore = 90
	require.NoError(t, cached.PutQuiz(ctx, q))
	assert.False(t, mr.Exists("video:vid-1:quizzes"))

	got, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 90, got[0].PassingScore)
}

func TestCachedStoreDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCacheFixture(t)

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), PassingScore: 70}
	require.NoError(t, cached.PutQuiz(ctx, q))
	_, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("video:vid-1:quizzes"))

	require.NoError(t, cached.DeleteQuiz(ctx, "quiz-1"))
	assert.False(t, mr.Exists("video:vid-1:quizzes"))

	got, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCachedStoreRepointInvalidatesOldVideo(t *testing.T) {
	ctx := context.Background()
	cached, _, mr := newCacheFixture(t)

	q := Quiz{ID: "quiz-1", VideoID: strPtr("vid-1"), PassingScore: 70}
	require.NoError(t, cached.PutQuiz(ctx, q))
	_, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	require.True(t, mr.Exists("video:vid-1:quizzes"))

	q.VideoID = strPtr("vid-2")
	require.NoError(t, cached.PutQuiz(ctx, q))
	assert.False(t, mr.Exists("video:vid-1:quizzes"), "old video's list must be invalidated")

	old, err := cached.QuizzesByVideo(ctx, "vid-1")
	require.NoError(t, err)
	assert.Empty(t, old)
	moved, err := cached.QuizzesByVideo(ctx, "vid-2")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, "quiz-1", moved[0].ID)
}

func TestCachedStoreConcurrentMissesOnDistinctVideos(t *testing.T) {
	ctx := context.Background()
	cached, inner, _ := newCacheFixture(t)

	videos := []string{"vid-1", "vid-2", "vid-3", "vid-4"}
	for i, v := range videos {
		require.NoError(t, inner.PutQuiz(ctx, Quiz{ID: fmt.Sprintf("quiz-%d", i), VideoID: strPtr(v), PassingScore: 70}))
	}

	var wg sync.WaitGroup
	errs := make([]error, len(videos))
	for i, v := range videos {
		wg.Add(1)
		go func(i int, v string) {
			defer wg.Done()
			got, err := cached.QuizzesByVideo(ctx, v)
			if err == nil && len(got) != 1 {
				err = fmt.Errorf("video %s: got %d quizzes", v, len(got))
			}
			errs[i] = err
		}(i, v)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestCachedStoreStandaloneQuizSkipsInvalidation(t *testing.T) {
	ctx := context.Background()
	cached, _, _ := newCacheFixture(t)

	// Quizzes without a video never touch the cache.
	require.NoError(t, cached.PutQuiz(ctx, Quiz{ID: "quiz-s", PassingScore: 70}))
	require.NoError(t, cached.DeleteQuiz(ctx, "quiz-s"))
}
