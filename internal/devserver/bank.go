package devserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Arizalb/jokicbt/internal/quiz"
)

// ErrUnknownQuestion is returned when a submission names an id the bank
// does not contain.
var ErrUnknownQuestion = errors.New("unknown question")

// BankQuestion is a question together with its correct option.
type BankQuestion struct {
	ID       string      `yaml:"id"`
	Question string      `yaml:"question"`
	OptionA  string      `yaml:"optionA"`
	OptionB  string      `yaml:"optionB"`
	OptionC  string      `yaml:"optionC"`
	OptionD  string      `yaml:"optionD"`
	Answer   quiz.Option `yaml:"answer"`
}

// Public strips the answer.
func (q BankQuestion) Public() quiz.Question {
	return quiz.Question{
		ID:       quiz.QuestionID(q.ID),
		Question: q.Question,
		OptionA:  q.OptionA,
		OptionB:  q.OptionB,
		OptionC:  q.OptionC,
		OptionD:  q.OptionD,
	}
}

// Bank maps a test code to its ordered questions.
type Bank map[string][]BankQuestion

// LoadBank reads and validates a YAML question bank.
func LoadBank(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	return ParseBank(data)
}

// ParseBank decodes a single YAML document into a Bank.
func ParseBank(data []byte) (Bank, error) {
	var bank Bank
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&bank); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

// Validate checks that ids are unique across the bank and every question
// has text and a valid answer label.
func (b Bank) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("question bank is empty")
	}
	seen := make(map[string]string)
	for _, code := range b.Codes() {
		for i, q := range b[code] {
			if q.ID == "" {
				return fmt.Errorf("%s[%d]: id is required", code, i)
			}
			if other, dup := seen[q.ID]; dup {
				return fmt.Errorf("%s[%d]: id %q already used in %s", code, i, q.ID, other)
			}
			seen[q.ID] = code
			if strings.TrimSpace(q.Question) == "" {
				return fmt.Errorf("%s[%d]: question is required", code, i)
			}
			if !validOption(q.Answer) {
				return fmt.Errorf("%s[%d]: answer %q must be one of A, B, C, D", code, i, q.Answer)
			}
		}
	}
	return nil
}

// Codes returns the test codes in sorted order.
func (b Bank) Codes() []string {
	codes := make([]string, 0, len(b))
	for c := range b {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Questions returns the public question list for code.
func (b Bank) Questions(code string) ([]quiz.Question, bool) {
	qs, ok := b[code]
	if !ok {
		return nil, false
	}
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		out[i] = q.Public()
	}
	return out, true
}

// Score grades answers against the test that owns the first answered id.
// The result is 100 * correct / total questions in that test, rounded to
// two decimals. An empty submission scores 0. When an id is answered more
// than once the last answer counts.
func (b Bank) Score(answers []quiz.Answer) (code string, score float64, err error) {
	if len(answers) == 0 {
		return "", 0, nil
	}

	code, ok := b.codeOf(string(answers[0].QuestionID))
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownQuestion, answers[0].QuestionID)
	}
	key := make(map[string]quiz.Option, len(b[code]))
	for _, q := range b[code] {
		key[q.ID] = q.Answer
	}

	given := make(map[string]quiz.Option, len(answers))
	for _, a := range answers {
		id := string(a.QuestionID)
		if _, ok := key[id]; !ok {
			return "", 0, fmt.Errorf("%w: %s not in %s", ErrUnknownQuestion, a.QuestionID, code)
		}
		given[id] = a.UserAnswer
	}

	correct := 0
	for id, opt := range given {
		if strings.EqualFold(string(opt), string(key[id])) {
			correct++
		}
	}

	total := len(b[code])
	return code, math.Round(10000*float64(correct)/float64(total)) / 100, nil
}

// codeOf finds the test owning id, checking codes in sorted order.
func (b Bank) codeOf(id string) (string, bool) {
	for _, code := range b.Codes() {
		for _, q := range b[code] {
			if q.ID == id {
				return code, true
			}
		}
	}
	return "", false
}

func validOption(o quiz.Option) bool {
	for _, opt := range quiz.Options {
		if o == opt {
			return true
		}
	}
	return false
}
