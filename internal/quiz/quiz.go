package quiz

import "fmt"

// Mark is the styling applied to one option.
type Mark string

const (
	MarkNone    Mark = ""
	MarkCorrect Mark = "correct"
	MarkWrong   Mark = "wrong"
)

// Quiz is one player's run through a fixed question bank.
// Each question locks after its first answer and is worth at most one point.
type Quiz struct {
	questions []Question
	marks     [][]Mark
	answered  []bool
	points    int
}

// New starts a quiz over questions. The slice is shared, not copied.
func New(questions []Question) *Quiz {
	q := &Quiz{questions: questions}
	q.Reset()
	return q
}

// Answer records a click on option of question. It reports whether the
// click changed anything; clicks on answered questions or unknown
// question/option indices do not.
func (q *Quiz) Answer(question, option int) bool {
	if question < 0 || question >= len(q.questions) || q.answered[question] {
		return false
	}
	qs := q.questions[question]
	if option < 0 || option >= len(qs.Options) {
		return false
	}

	q.answered[question] = true
	if option == qs.Answer {
		q.marks[question][option] = MarkCorrect
		q.points++
		return true
	}
	q.marks[question][option] = MarkWrong
	q.marks[question][qs.Answer] = MarkCorrect
	return true
}

// Points is the number of questions answered correctly.
func (q *Quiz) Points() int { return q.points }

// Total is the number of questions.
func (q *Quiz) Total() int { return len(q.questions) }

// Label renders the running score line.
func (q *Quiz) Label() string {
	return fmt.Sprintf("Score: %d/%d", q.points, len(q.questions))
}

// Reset clears every mark and zeroes the score.
func (q *Quiz) Reset() {
	q.points = 0
	q.answered = make([]bool, len(q.questions))
	q.marks = make([][]Mark, len(q.questions))
	for i, qs := range q.questions {
		q.marks[i] = make([]Mark, len(qs.Options))
	}
}

// OptionView is one option as rendered.
type OptionView struct {
	Text string `json:"text"`
	Mark Mark   `json:"mark,omitempty"`
}

// QuestionView is one question as rendered. The correct answer is only
// visible through the marks once the question is answered.
type QuestionView struct {
	Prompt   string       `json:"prompt"`
	Options  []OptionView `json:"options"`
	Answered bool         `json:"answered"`
}

// View is the render-ready quiz state.
type View struct {
	Questions []QuestionView `json:"questions"`
	Points    int            `json:"points"`
	Total     int            `json:"total"`
	Label     string         `json:"label"`
}

// View returns a copy of the current state.
func (q *Quiz) View() View {
	v := View{
		Questions: make([]QuestionView, len(q.questions)),
		Points:    q.points,
		Total:     len(q.questions),
		Label:     q.Label(),
	}
	for i, qs := range q.questions {
		opts := make([]OptionView, len(qs.Options))
		for j, text := range qs.Options {
			opts[j] = OptionView{Text: text, Mark: q.marks[i][j]}
		}
		v.Questions[i] = QuestionView{Prompt: qs.Prompt, Options: opts, Answered: q.answered[i]}
	}
	return v
}
