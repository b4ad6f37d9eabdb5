package enums

type Answer string

const (
	AnswerA Answer = "A"
	AnswerB Answer = "B"
	AnswerC Answer = "C"
)

func (a Answer) Valid() bool {
	switch a {
	case AnswerA, AnswerB, AnswerC:
		return true
	}
	return false
}
