package model

import "github.com/eugene-guo-moe/interactive-display1-sub000/internal/domain/enums"

// QuizAnswers holds the six ternary answers of a completed quiz, q1..q6.
type QuizAnswers struct {
	Q1 enums.Answer `json:"q1"`
	Q2 enums.Answer `json:"q2"`
	Q3 enums.Answer `json:"q3"`
	Q4 enums.Answer `json:"q4"`
	Q5 enums.Answer `json:"q5"`
	Q6 enums.Answer `json:"q6"`
}

func (q QuizAnswers) Slots() [6]enums.Answer {
	return [6]enums.Answer{q.Q1, q.Q2, q.Q3, q.Q4, q.Q5, q.Q6}
}

func (q QuizAnswers) Complete() bool {
	for _, a := range q.Slots() {
		if !a.Valid() {
			return false
		}
	}
	return true
}
