package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgecrew/trainhub/internal/quiz"
)

func boolPtr(b bool) *bool { return &b }

func mcQuestion(id, correct string) quiz.Question {
	return quiz.Question{
		ID:     id,
		Kind:   quiz.KindMultipleChoice,
		Prompt: "pick one",
		Options: []quiz.Option{
			{ID: "A", Text: "first"},
			{ID: "B", Text: "second"},
		},
		CorrectOption: correct,
	}
}

func TestMultipleChoiceExactMatch(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{mcQuestion("q1", "B")}}

	res := e.Score(q, Submission{QuizID: "quiz-1", Answers: map[string]string{"q1": "B"}})
	assert.Equal(t, 100, res.Percentage)
	assert.True(t, res.Passed)
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 1, res.GradableCount)

	res = e.Score(q, Submission{QuizID: "quiz-1", Answers: map[string]string{"q1": "A"}})
	assert.Equal(t, 0, res.Percentage)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.CorrectCount)
}

func TestMultipleChoiceIsCaseSensitive(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{mcQuestion("q1", "B")}}
	res := e.Score(q, Submission{Answers: map[string]string{"q1": "b"}})
	assert.Equal(t, 0, res.Percentage)
}

func TestTrueFalseCaseInsensitiveTokens(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindTrueFalse, Prompt: "p", CorrectBool: boolPtr(true)},
	}}

	for _, answer := range []string{"true", "True", "TRUE"} {
		res := e.Score(q, Submission{Answers: map[string]string{"q1": answer}})
		assert.Equalf(t, 100, res.Percentage, "answer %q should be correct", answer)
	}
	for _, answer := range []string{"false", "yes", ""} {
		res := e.Score(q, Submission{Answers: map[string]string{"q1": answer}})
		assert.Equalf(t, 0, res.Percentage, "answer %q should be wrong", answer)
	}
}

func TestPassThresholdBoundary(t *testing.T) {
	questions := make([]quiz.Question, 10)
	for i := range questions {
		questions[i] = mcQuestion(fmt.Sprintf("q%d", i), "B")
	}
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: questions}
	e := NewEngine()

	answers := map[string]string{}
	for i := 0; i < 7; i++ {
		answers[fmt.Sprintf("q%d", i)] = "B"
	}
	res := e.Score(q, Submission{Answers: answers})
	assert.Equal(t, 70, res.Percentage)
	assert.True(t, res.Passed, "a score exactly at the threshold passes")

	delete(answers, "q6")
	res = e.Score(q, Submission{Answers: answers})
	assert.Equal(t, 60, res.Percentage)
	assert.False(t, res.Passed)
}

func TestUnknownQuestionIDsAreIgnored(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{mcQuestion("q1", "B")}}
	res := e.Score(q, Submission{Answers: map[string]string{"q1": "B", "ghost": "A"}})
	assert.Equal(t, 100, res.Percentage)
	_, ok := res.PerQuestion["ghost"]
	assert.False(t, ok)
}

func TestZeroGradablePointsQuiz(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindOpenEnded, Prompt: "p"},
		{ID: "q2", Kind: quiz.KindOpenEnded, Prompt: "p"},
	}}
	res := e.Score(q, Submission{Answers: map[string]string{}})
	assert.Equal(t, 0, res.Percentage)
	assert.False(t, res.Passed)
	assert.Equal(t, 0, res.GradableCount)
}

func TestEmptyQuizScoresZero(t *testing.T) {
	e := NewEngine()
	res := e.Score(quiz.Quiz{ID: "quiz-1", PassingScore: 70}, Submission{})
	assert.Equal(t, 0, res.Percentage)
}

func TestOpenEndedLengthFallback(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 100, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindOpenEnded, Prompt: "p"},
	}}

	res := e.Score(q, Submission{Answers: map[string]string{"q1": "short"}})
	assert.Equal(t, 0, res.Percentage)

	long := "this answer is comfortably longer than twenty characters"
	res = e.Score(q, Submission{Answers: map[string]string{"q1": long}})
	assert.Equal(t, 100, res.Percentage)
}

func TestOpenEndedKeywordOverlap(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindOpenEnded, Prompt: "p", Points: 4,
			Keywords: []string{"value", "warranty", "financing", "referrals"}},
	}}

	res := e.Score(q, Submission{Answers: map[string]string{
		"q1": "Lead with Value and our lifetime warranty.",
	}})
	// 2 of 4 keywords -> half credit
	assert.Equal(t, 50, res.Percentage)

	res = e.Score(q, Submission{Answers: map[string]string{
		"q1": "value warranty financing referrals",
	}})
	assert.Equal(t, 100, res.Percentage)
}

func TestMixedKindsRoundHalfUp(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		mcQuestion("q1", "B"),
		mcQuestion("q2", "B"),
		{ID: "q3", Kind: quiz.KindTrueFalse, Prompt: "p", CorrectBool: boolPtr(false)},
	}}
	res := e.Score(q, Submission{Answers: map[string]string{"q1": "B", "q3": "TRUE"}})
	// 1 of 3 points -> 33.33 -> 33
	assert.Equal(t, 33, res.Percentage)
	assert.False(t, res.Passed)

	res = e.Score(q, Submission{Answers: map[string]string{"q1": "B", "q2": "B"}})
	// 2 of 3 -> 66.67 -> rounds half-up to 67
	assert.Equal(t, 67, res.Percentage)
}

func TestGradablePointsExcludeOpenEnded(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindMultipleChoice, Prompt: "p", Points: 2,
			Options: []quiz.Option{{ID: "A"}, {ID: "B"}}, CorrectOption: "B"},
		{ID: "q2", Kind: quiz.KindTrueFalse, Prompt: "p", CorrectBool: boolPtr(true)},
		{ID: "q3", Kind: quiz.KindOpenEnded, Prompt: "p", Points: 5},
	}}
	res := e.Score(q, Submission{Answers: map[string]string{}})
	assert.Equal(t, 8, res.TotalPoints)
	assert.Equal(t, 3, res.GradablePoints)
	assert.Equal(t, 2, res.GradableCount)
}

func TestAllOpenEndedQuizHasZeroGradablePoints(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{
		{ID: "q1", Kind: quiz.KindOpenEnded, Prompt: "p", Points: 5},
	}}
	res := e.Score(q, Submission{Answers: map[string]string{}})
	assert.Equal(t, 5, res.TotalPoints)
	assert.Equal(t, 0, res.GradablePoints)
}

func TestScoringIsDeterministic(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: sampleMixedQuiz()}
	sub := Submission{Answers: map[string]string{
		"q1": "B",
		"q2": "true",
		"q3": "Focus on value and the warranty when the price objection comes up.",
	}}
	first := e.Score(q, sub)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Score(q, sub))
	}
}

func TestAnalysisTemplatesKeyedByOutcome(t *testing.T) {
	e := NewEngine()
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{mcQuestion("q1", "B")}}

	pass := e.Score(q, Submission{Answers: map[string]string{"q1": "B"}})
	fail := e.Score(q, Submission{Answers: map[string]string{"q1": "A"}})
	require.NotEmpty(t, pass.Analysis)
	require.NotEmpty(t, fail.Analysis)
	assert.NotEqual(t, pass.Analysis, fail.Analysis)
}

func TestInjectedAnalyzer(t *testing.T) {
	e := NewEngine(WithAnalyzer(func(passed bool) string {
		if passed {
			return "external: pass"
		}
		return "external: fail"
	}))
	q := quiz.Quiz{ID: "quiz-1", PassingScore: 70, Questions: []quiz.Question{mcQuestion("q1", "B")}}
	res := e.Score(q, Submission{Answers: map[string]string{"q1": "B"}})
	assert.Equal(t, "external: pass", res.Analysis)
}

func sampleMixedQuiz() []quiz.Question {
	return []quiz.Question{
		mcQuestion("q1", "B"),
		{ID: "q2", Kind: quiz.KindTrueFalse, Prompt: "p", CorrectBool: boolPtr(true)},
		{ID: "q3", Kind: quiz.KindOpenEnded, Prompt: "p", Keywords: []string{"value", "warranty"}},
	}
}
