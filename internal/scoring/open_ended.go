package scoring

import (
	"strings"

	"github.com/ridgecrew/trainhub/internal/quiz"
)

// DefaultMinAnswerLength is the minimum answer length (in runes) the length
// heuristic accepts as a completeness proxy.
const DefaultMinAnswerLength = 20

// OpenEndedGrader awards partial credit for a free-text answer. There is no
// single correct answer for open-ended questions.
type OpenEndedGrader interface {
	Grade(q quiz.Question, answer string) float64
}

// KeywordGrader awards credit proportional to the overlap between the answer
// text and the question's expected-keyword set.
type KeywordGrader struct{}

func (KeywordGrader) Grade(q quiz.Question, answer string) float64 {
	if len(q.Keywords) == 0 || strings.TrimSpace(answer) == "" {
		return 0
	}
	low := strings.ToLower(answer)
	found := 0
	total := 0
	for _, k := range q.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		total++
		if strings.Contains(low, strings.ToLower(k)) {
			found++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(q.PointValue()) * float64(found) / float64(total)
}

// LengthGrader awards full points when the answer exceeds a minimum length,
// as a proxy for effort. It is the fallback when a question defines no
// expected keywords.
type LengthGrader struct {
	MinLength int
}

func (g LengthGrader) Grade(q quiz.Question, answer string) float64 {
	min := g.MinLength
	if min <= 0 {
		min = DefaultMinAnswerLength
	}
	if len([]rune(strings.TrimSpace(answer))) >= min {
		return float64(q.PointValue())
	}
	return 0
}
