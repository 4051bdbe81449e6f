package scoring

import (
	"math"

	"github.com/ridgecrew/trainhub/internal/quiz"
)

// Submission maps question identifiers to the taker's answers. Answers for
// question ids not present in the quiz are ignored, so partial submissions
// score without error.
type Submission struct {
	QuizID  string            `json:"quiz_id"`
	Answers map[string]string `json:"answers"`
}

// QuestionResult is the per-question grading outcome.
type QuestionResult struct {
	Correct  bool    `json:"correct"`
	Earned   float64 `json:"earned"`
	Possible int     `json:"possible"`
	Gradable bool    `json:"gradable"`
	Answered bool    `json:"answered"`
}

// Result is the outcome of scoring one submission.
type Result struct {
	RawScore       float64                   `json:"raw_score"`
	TotalPoints    int                       `json:"total_points"`
	Percentage     int                       `json:"percentage"` // integer, rounded half-up
	Passed         bool                      `json:"passed"`
	CorrectCount   int                       `json:"correct_count"`   // gradable questions answered correctly
	GradableCount  int                       `json:"gradable_count"`  // questions with a single objective answer
	GradablePoints int                       `json:"gradable_points"` // point total of the gradable questions
	PerQuestion    map[string]QuestionResult `json:"per_question"`
	Analysis       string                    `json:"analysis"`
}

// Score grades the submission against the quiz definition. A percentage
// exactly equal to the quiz's passing score is a pass. A quiz with zero
// available points scores 0%, never a division error.
func (e *Engine) Score(q quiz.Quiz, sub Submission) Result {
	res := Result{PerQuestion: make(map[string]QuestionResult, len(q.Questions))}

	for _, question := range q.Questions {
		points := question.PointValue()
		qr := QuestionResult{Possible: points, Gradable: question.Gradable()}
		res.TotalPoints += points
		if qr.Gradable {
			res.GradableCount++
			res.GradablePoints += points
		}

		answer, answered := sub.Answers[question.ID]
		qr.Answered = answered
		if answered {
			if s, ok := e.strategies[question.Kind]; ok {
				qr.Earned, qr.Correct = s.Grade(question, answer)
			}
		}
		if qr.Gradable && qr.Correct {
			res.CorrectCount++
		}
		res.RawScore += qr.Earned
		res.PerQuestion[question.ID] = qr
	}

	if res.TotalPoints > 0 {
		res.Percentage = int(math.Floor(res.RawScore/float64(res.TotalPoints)*100 + 0.5))
	}
	res.Passed = res.Percentage >= q.PassingScore
	res.Analysis = e.analyze(res.Passed)
	return res
}
