package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleQuestions() []Question {
	return []Question{
		{Prompt: "2+2?", Options: []string{"4", "3"}, Answer: 0},
		{Prompt: "Sky color?", Options: []string{"Green", "Blue", "Red"}, Answer: 1},
	}
}

func TestAnswerCorrect(t *testing.T) {
	q := New(sampleQuestions())
	if !q.Answer(0, 0) {
		t.Fatalf("first answer should apply")
	}
	v := q.View()
	if v.Questions[0].Options[0].Mark != MarkCorrect {
		t.Fatalf("mark = %q, want correct", v.Questions[0].Options[0].Mark)
	}
	if v.Points != 1 || v.Label != "Score: 1/2" {
		t.Fatalf("points %d label %q", v.Points, v.Label)
	}
}

func TestAnswerWrongRevealsCorrect(t *testing.T) {
	q := New(sampleQuestions())
	q.Answer(1, 2)
	opts := q.View().Questions[1].Options
	if opts[2].Mark != MarkWrong {
		t.Fatalf("chosen option mark = %q, want wrong", opts[2].Mark)
	}
	if opts[1].Mark != MarkCorrect {
		t.Fatalf("true answer mark = %q, want correct", opts[1].Mark)
	}
	if opts[0].Mark != MarkNone {
		t.Fatalf("untouched option mark = %q", opts[0].Mark)
	}
	if q.Label() != "Score: 0/2" {
		t.Fatalf("label = %q", q.Label())
	}
}

func TestAnsweredQuestionIsLocked(t *testing.T) {
	q := New(sampleQuestions())
	q.Answer(1, 0)
	before := q.View()

	for opt := 0; opt < 3; opt++ {
		if q.Answer(1, opt) {
			t.Fatalf("click on option %d of an answered question applied", opt)
		}
	}
	after := q.View()
	for i, o := range after.Questions[1].Options {
		if o.Mark != before.Questions[1].Options[i].Mark {
			t.Fatalf("option %d mark changed from %q to %q", i, before.Questions[1].Options[i].Mark, o.Mark)
		}
	}
	if after.Points != before.Points {
		t.Fatalf("points changed after locked click")
	}
}

func TestAnswerUnknownIndices(t *testing.T) {
	q := New(sampleQuestions())
	for _, c := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		if q.Answer(c[0], c[1]) {
			t.Fatalf("Answer(%d, %d) should be a no-op", c[0], c[1])
		}
	}
	if q.View().Questions[0].Answered {
		t.Fatalf("invalid option must not lock the question")
	}
}

func TestPointsNeverExceedTotal(t *testing.T) {
	q := New(sampleQuestions())
	for i := 0; i < 5; i++ {
		q.Answer(0, 0)
		q.Answer(1, 1)
	}
	if q.Points() != q.Total() {
		t.Fatalf("points = %d, want %d", q.Points(), q.Total())
	}
}

func TestReset(t *testing.T) {
	q := New(sampleQuestions())
	q.Answer(0, 0)
	q.Answer(1, 0)
	q.Reset()
	v := q.View()
	if v.Points != 0 || v.Label != "Score: 0/2" {
		t.Fatalf("after reset: points %d label %q", v.Points, v.Label)
	}
	for _, qv := range v.Questions {
		if qv.Answered {
			t.Fatalf("question %q still answered", qv.Prompt)
		}
		for _, o := range qv.Options {
			if o.Mark != MarkNone {
				t.Fatalf("option %q still marked %q", o.Text, o.Mark)
			}
		}
	}
	if !q.Answer(0, 0) {
		t.Fatalf("question should be answerable again after reset")
	}
}

func TestLoadBankEmbedded(t *testing.T) {
	qs, err := LoadBank("")
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if len(qs) == 0 {
		t.Fatalf("embedded bank is empty")
	}
}

func TestLoadBankFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.json")
	data := `[{"prompt":" Hi? ","options":["a","b"],"answer":1}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	qs, err := LoadBank(path)
	if err != nil {
		t.Fatalf("LoadBank: %v", err)
	}
	if len(qs) != 1 || qs[0].Prompt != "Hi?" || qs[0].Answer != 1 {
		t.Fatalf("unexpected bank %+v", qs)
	}
}

func TestParseBankRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"empty":           `[]`,
		"answer too high": `[{"prompt":"x","options":["a","b"],"answer":2}]`,
		"negative answer": `[{"prompt":"x","options":["a","b"],"answer":-1}]`,
		"one option":      `[{"prompt":"x","options":["a"],"answer":0}]`,
		"blank prompt":    `[{"prompt":"  ","options":["a","b"],"answer":0}]`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBank([]byte(data)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
	if _, err := ParseBank([]byte(`[]`)); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("empty bank error = %v, want ErrEmptyBank", err)
	}
}
