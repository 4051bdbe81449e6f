package quiz

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CachedStore decorates a Store with a short-lived Redis cache of the
// quizzes-by-video lookup, the hottest read on the portal's video pages.
// Writes invalidate the affected video key. Everything else passes through.
type CachedStore struct {
	Store

	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Store:  inner,
		client: client,
		ttl:    ttl,
	}
}

func videoKey(videoID string) string { return "video:" + videoID + ":quizzes" }

func (c *CachedStore) QuizzesByVideo(ctx context.Context, videoID string) ([]Quiz, error) {
	key := videoKey(videoID)
	if raw, err := c.client.Get(ctx, key).Result(); err == nil {
		var out []Quiz
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	}

	result, err, _ := c.sf.Do(videoID, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if raw, err := c.client.Get(ctx, key).Result(); err == nil {
			var out []Quiz
			if err := json.Unmarshal([]byte(raw), &out); err == nil {
				return out, nil
			}
		}
		out, err := c.Store.QuizzesByVideo(ctx, videoID)
		if err != nil {
			return nil, err
		}
		if buf, err := json.Marshal(out); err == nil {
			_ = c.client.Set(ctx, key, buf, c.ttlWithJitter()).Err()
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]Quiz), nil
}

func (c *CachedStore) PutQuiz(ctx context.Context, q Quiz) error {
	// An update may re-point the quiz at a different video; the old
	// video's cached list goes stale too.
	prior, priorErr := c.Store.GetQuiz(ctx, q.ID)
	if err := c.Store.PutQuiz(ctx, q); err != nil {
		return err
	}
	if priorErr == nil {
		c.invalidate(ctx, prior.VideoID)
	}
	c.invalidate(ctx, q.VideoID)
	return nil
}

func (c *CachedStore) DeleteQuiz(ctx context.Context, id string) error {
	q, err := c.Store.GetQuiz(ctx, id)
	if err == nil {
		defer c.invalidate(ctx, q.VideoID)
	}
	return c.Store.DeleteQuiz(ctx, id)
}

func (c *CachedStore) invalidate(ctx context.Context, videoID *string) {
	if videoID == nil {
		return
	}
	_ = c.client.Del(ctx, videoKey(*videoID)).Err()
}

// ttlWithJitter uses the locked package-level source; singleflight callbacks
// for different keys run concurrently.
func (c *CachedStore) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(rand.Int63n(jitterMax+1))
}
