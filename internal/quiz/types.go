package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Option is a multiple-choice answer label.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// Options lists the labels in display order.
var Options = []Option{OptionA, OptionB, OptionC, OptionD}

// QuestionID is the opaque identifier assigned by the question source.
// The wire form may be a JSON string or number; both decode to the same text.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// Question is a single multiple-choice item. Immutable once fetched.
type Question struct {
	ID       QuestionID `json:"id"`
	Question string     `json:"question"`
	OptionA  string     `json:"optionA"`
	OptionB  string     `json:"optionB"`
	OptionC  string     `json:"optionC"`
	OptionD  string     `json:"optionD"`
}

// Text returns the option text for the given label, or "" for unknown labels.
func (q Question) Text(o Option) string {
	switch o {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	case OptionD:
		return q.OptionD
	}
	return ""
}

// Answer is one entry of a submission payload.
type Answer struct {
	QuestionID QuestionID `json:"questionId"`
	UserAnswer Option     `json:"userAnswer"`
}

// Submission is the request body sent to the scoring service.
type Submission struct {
	UserID  string   `json:"userId"`
	Answers []Answer `json:"answers"`
}

// QuestionSource retrieves the ordered question list for a test code.
type QuestionSource interface {
	FetchQuestions(ctx context.Context, token, code string) ([]Question, error)
}

// Scorer submits collected answers and returns the total score.
type Scorer interface {
	SubmitAnswers(ctx context.Context, token string, sub Submission) (float64, error)
}

// Confirmer is the host capability asked before a session is abandoned.
type Confirmer interface {
	ConfirmDestructiveExit() bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func() bool

func (f ConfirmFunc) ConfirmDestructiveExit() bool { return f() }
