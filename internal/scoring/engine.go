// Package scoring grades a submitted answer set against a quiz definition.
// Grading is pure and deterministic: the same quiz and submission always
// produce the same result.
package scoring

import (
	"strconv"
	"strings"

	"github.com/ridgecrew/trainhub/internal/quiz"
)

// Strategy grades a single question's answer and returns the points earned
// plus whether the answer counts as correct.
type Strategy interface {
	Grade(q quiz.Question, answer string) (earned float64, correct bool)
}

// choiceStrategy compares the submitted option identifier against the stored
// correct option. Identity match, case-sensitive where letters are used;
// option text is never consulted.
type choiceStrategy struct{}

func (choiceStrategy) Grade(q quiz.Question, answer string) (float64, bool) {
	if q.CorrectOption != "" && answer == q.CorrectOption {
		return float64(q.PointValue()), true
	}
	return 0, false
}

// trueFalseStrategy compares boolean-as-string answers. The literal tokens
// "true"/"false" match case-insensitively; anything else is wrong.
type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(q quiz.Question, answer string) (float64, bool) {
	if q.CorrectBool == nil {
		return 0, false
	}
	want := strconv.FormatBool(*q.CorrectBool)
	if strings.EqualFold(strings.TrimSpace(answer), want) {
		return float64(q.PointValue()), true
	}
	return 0, false
}

// openEndedStrategy defers to a pluggable grader: keyword overlap when the
// question defines expected keywords, the length heuristic otherwise.
type openEndedStrategy struct {
	keyword OpenEndedGrader
	length  OpenEndedGrader
}

func (s openEndedStrategy) Grade(q quiz.Question, answer string) (float64, bool) {
	g := s.length
	if len(q.Keywords) > 0 {
		g = s.keyword
	}
	earned := g.Grade(q, answer)
	return earned, earned > 0
}

// Engine routes questions by kind to the right strategy.
type Engine struct {
	strategies map[string]Strategy
	analyze    Analyzer
}

// Analyzer produces the human-readable analysis string keyed by pass/fail.
// The default uses two fixed templates; callers may inject an external
// text-analysis collaborator instead.
type Analyzer func(passed bool) string

func defaultAnalyzer(passed bool) string {
	if passed {
		return "Great work! You passed this assessment and show a solid grasp of the material."
	}
	return "Keep practicing. Review the material and retake the quiz to raise your score."
}

type Option func(*Engine)

// WithAnalyzer replaces the fixed pass/fail templates.
func WithAnalyzer(a Analyzer) Option {
	return func(e *Engine) { e.analyze = a }
}

// WithOpenEndedGraders overrides the open-ended graders. keyword is used for
// questions with expected keywords, fallback for the rest.
func WithOpenEndedGraders(keyword, fallback OpenEndedGrader) Option {
	return func(e *Engine) {
		e.strategies[quiz.KindOpenEnded] = openEndedStrategy{keyword: keyword, length: fallback}
	}
}

// NewEngine installs the built-in strategies.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strategies: map[string]Strategy{
			quiz.KindMultipleChoice: choiceStrategy{},
			quiz.KindTrueFalse:      trueFalseStrategy{},
			quiz.KindOpenEnded: openEndedStrategy{
				keyword: KeywordGrader{},
				length:  LengthGrader{MinLength: DefaultMinAnswerLength},
			},
		},
		analyze: defaultAnalyzer,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}
