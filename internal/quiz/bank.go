// internal/quiz/bank.go
//
// Question bank loading.
//
// Initialization behavior (LoadBank):
//  1. If path is set (QUIZ_FILE), read questions from that JSON file.
//  2. Otherwise fall back to the embedded questions.json.
//
// Constraints:
//   • At least one question.
//   • Every question has at least two options.
//   • The answer index points at one of the options.

package quiz

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed questions.json
var embeddedQuestions []byte

// ErrEmptyBank is returned when a bank has no questions.
var ErrEmptyBank = errors.New("quiz: question bank is empty")

// Question is one multiple-choice question.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"` // index into Options
}

// LoadBank reads the question bank from path, or the embedded default when
// path is empty.
func LoadBank(path string) ([]Question, error) {
	data := embeddedQuestions
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read quiz file: %w", err)
		}
		data = b
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a JSON question list.
func ParseBank(data []byte) ([]Question, error) {
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, fmt.Errorf("decode quiz bank: %w", err)
	}
	if len(qs) == 0 {
		return nil, ErrEmptyBank
	}
	for i := range qs {
		q := &qs[i]
		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Prompt == "" {
			return nil, fmt.Errorf("quiz question %d: empty prompt", i)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("quiz question %d: need at least two options", i)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return nil, fmt.Errorf("quiz question %d: answer %d out of range", i, q.Answer)
		}
	}
	return qs, nil
}
