// Package insights rolls per-user quiz and video history up into the
// comprehension summaries the admin dashboard renders.
package insights

import (
	"context"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ridgecrew/trainhub/internal/quiz"
)

// Category score buckets.
const (
	strongThreshold = 80
	weakThreshold   = 60
)

// AttemptSource provides scored submission history.
type AttemptSource interface {
	AttemptsByUser(ctx context.Context, userID string) ([]quiz.Attempt, error)
	AllAttempts(ctx context.Context) ([]quiz.Attempt, error)
}

// ProgressSource provides video completion history.
type ProgressSource interface {
	ProgressByUser(ctx context.Context, userID string) ([]quiz.VideoProgress, error)
}

// Summary is one user's comprehension rollup.
type Summary struct {
	UserID          string   `json:"user_id"`
	OverallScore    int      `json:"overall_score"` // weighted mean of attempt percentages
	QuizzesTaken    int      `json:"quizzes_taken"`
	QuizzesPassed   int      `json:"quizzes_passed"`
	VideosCompleted int      `json:"videos_completed"`
	StrongAreas     []string `json:"strong_areas"`
	WeakAreas       []string `json:"weak_areas"`
}

// Overview is the all-user rollup for the admin dashboard.
type Overview struct {
	Users        int      `json:"users"`
	Attempts     int      `json:"attempts"`
	AverageScore int      `json:"average_score"`
	PassRate     int      `json:"pass_rate"` // integer percentage
	StrongAreas  []string `json:"strong_areas"`
	WeakAreas    []string `json:"weak_areas"`
}

type Aggregator struct {
	attempts AttemptSource
	progress ProgressSource
	log      *logrus.Logger
}

func NewAggregator(attempts AttemptSource, progress ProgressSource, log *logrus.Logger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{attempts: attempts, progress: progress, log: log}
}

// Summarize combines the user's attempt and video history. Collaborator
// failures on these read paths degrade to empty history rather than failing
// the dashboard.
func (a *Aggregator) Summarize(ctx context.Context, userID string) Summary {
	var attempts []quiz.Attempt
	var progress []quiz.VideoProgress

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.attempts.AttemptsByUser(gctx, userID)
		if err != nil {
			a.log.WithError(err).WithField("user_id", userID).Warn("attempt history unavailable, using empty history")
			return nil
		}
		attempts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.progress.ProgressByUser(gctx, userID)
		if err != nil {
			a.log.WithError(err).WithField("user_id", userID).Warn("video history unavailable, using empty history")
			return nil
		}
		progress = rows
		return nil
	})
	_ = g.Wait()

	s := Summary{UserID: userID, QuizzesTaken: len(attempts)}
	s.OverallScore = weightedMean(attempts)
	for _, at := range attempts {
		if at.Passed {
			s.QuizzesPassed++
		}
	}
	for _, p := range progress {
		if p.Completed {
			s.VideosCompleted++
		}
	}
	s.StrongAreas, s.WeakAreas = classifyAreas(attempts)
	return s
}

// Overall produces the aggregate dashboard view across all users.
func (a *Aggregator) Overall(ctx context.Context) Overview {
	attempts, err := a.attempts.AllAttempts(ctx)
	if err != nil {
		a.log.WithError(err).Warn("attempt history unavailable, returning zero overview")
		return Overview{}
	}
	o := Overview{Attempts: len(attempts)}
	users := map[string]struct{}{}
	passed := 0
	for _, at := range attempts {
		users[at.UserID] = struct{}{}
		if at.Passed {
			passed++
		}
	}
	o.Users = len(users)
	o.AverageScore = weightedMean(attempts)
	if len(attempts) > 0 {
		o.PassRate = roundPct(float64(passed) / float64(len(attempts)))
	}
	o.StrongAreas, o.WeakAreas = classifyAreas(attempts)
	return o
}

// weightedMean weights each attempt's percentage by its gradable points so a
// ten-question assessment moves the needle more than a two-question check.
// Attempts without gradable points fall back to weight 1.
func weightedMean(attempts []quiz.Attempt) int {
	if len(attempts) == 0 {
		return 0
	}
	var sum, weight float64
	for _, a := range attempts {
		w := float64(a.GradablePoints)
		if w <= 0 {
			w = 1
		}
		sum += float64(a.Percentage) * w
		weight += w
	}
	return roundPct(sum / weight / 100)
}

// classifyAreas buckets per-category average scores: >= 80 strong, < 60
// weak, in between neither. Attempts without a category are skipped, never
// guessed.
func classifyAreas(attempts []quiz.Attempt) (strong, weak []string) {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, a := range attempts {
		if a.Category == "" {
			continue
		}
		sums[a.Category] += a.Percentage
		counts[a.Category]++
	}
	for cat, n := range counts {
		avg := float64(sums[cat]) / float64(n)
		switch {
		case avg >= strongThreshold:
			strong = append(strong, cat)
		case avg < weakThreshold:
			weak = append(weak, cat)
		}
	}
	sort.Strings(strong)
	sort.Strings(weak)
	return strong, weak
}

func roundPct(frac float64) int {
	return int(math.Floor(frac*100 + 0.5))
}
