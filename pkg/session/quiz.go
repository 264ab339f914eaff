// Package session holds the ephemeral state machines a display layer drives
// over loaded artifacts: quiz progression, flashcard review and authoring, and
// mind-map navigation.
//
// Sessions are explicit values owned by the caller. They copy the artifact
// they are built from and never persist their own progress; only the
// flashcard session writes, and only the deck itself.
package session

import (
	"fmt"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/studykit/pkg/core"
)

// QuizState is a stage of the quiz state machine.
type QuizState string

const (
	QuizIdle       QuizState = "idle"
	QuizInProgress QuizState = "in_progress"
	QuizFinished   QuizState = "finished"
)

// Outcome is the result of a finished quiz.
type Outcome struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Ratio returns Score/Total, or 0 for an empty quiz.
func (o Outcome) Ratio() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Score) / float64(o.Total)
}

// Quiz drives question-by-question progression and scoring.
type Quiz struct {
	id string

	mu        sync.Mutex
	state     QuizState
	questions []core.QuizQuestion
	index     int
	score     int
	answered  map[int]bool
	selected  map[int]string
}

// NewQuiz returns an idle quiz session.
func NewQuiz() *Quiz {
	return &Quiz{
		id:       uuid.NewString(),
		state:    QuizIdle,
		answered: map[int]bool{},
		selected: map[int]string{},
	}
}

// ID identifies the session.
func (q *Quiz) ID() string { return q.id }

// Start begins a new run over questions, discarding any previous progress.
// Questions failing core.QuizQuestion.Valid are skipped; when none remain the
// call is refused with core.ErrNoQuestions and the session is left untouched.
func (q *Quiz) Start(questions []core.QuizQuestion) error {
	valid := make([]core.QuizQuestion, 0, len(questions))
	for _, question := range questions {
		if question.Valid() {
			question.Options = append([]string(nil), question.Options...)
			valid = append(valid, question)
		}
	}
	if len(valid) == 0 {
		return core.ErrNoQuestions
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.questions = valid
	q.index = 0
	q.score = 0
	q.answered = map[int]bool{}
	q.selected = map[int]string{}
	q.state = QuizInProgress
	return nil
}

// Current returns the question at the current index.
func (q *Quiz) Current() (core.QuizQuestion, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == QuizIdle || len(q.questions) == 0 {
		return core.QuizQuestion{}, false
	}
	return q.current(), true
}

// current returns a copy of the question at index; callers hold mu.
func (q *Quiz) current() core.QuizQuestion {
	question := q.questions[q.index]
	question.Options = append([]string(nil), question.Options...)
	return question
}

// Submit answers the current question and reports whether option was correct.
// Each index accepts exactly one answer.
func (q *Quiz) Submit(option string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != QuizInProgress {
		return false, fmt.Errorf("%w: submit while %s", core.ErrInvalidTransition, q.state)
	}
	if q.answered[q.index] {
		return false, fmt.Errorf("%w: question %d already answered", core.ErrInvalidTransition, q.index+1)
	}

	correct := option == q.questions[q.index].Answer
	if correct {
		q.score++
	}
	q.answered[q.index] = true
	q.selected[q.index] = option
	return correct, nil
}

// Advance moves to the next question once the current one is answered.
func (q *Quiz) Advance() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case q.state != QuizInProgress:
		return fmt.Errorf("%w: advance while %s", core.ErrInvalidTransition, q.state)
	case !q.answered[q.index]:
		return fmt.Errorf("%w: question %d not answered", core.ErrInvalidTransition, q.index+1)
	case q.index >= len(q.questions)-1:
		return fmt.Errorf("%w: already at the last question", core.ErrInvalidTransition)
	}
	q.index++
	return nil
}

// Finish ends the run at the last question once it is answered.
func (q *Quiz) Finish() (Outcome, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case q.state != QuizInProgress:
		return Outcome{}, fmt.Errorf("%w: finish while %s", core.ErrInvalidTransition, q.state)
	case q.index != len(q.questions)-1:
		return Outcome{}, fmt.Errorf("%w: %d questions remain", core.ErrInvalidTransition, len(q.questions)-1-q.index)
	case !q.answered[q.index]:
		return Outcome{}, fmt.Errorf("%w: last question not answered", core.ErrInvalidTransition)
	}
	q.state = QuizFinished
	return Outcome{Score: q.score, Total: len(q.questions)}, nil
}

// QuizSnapshot is the display-facing view of a quiz session.
type QuizSnapshot struct {
	ID       string             `json:"id"`
	State    QuizState          `json:"state"`
	Index    int                `json:"index"`
	Total    int                `json:"total"`
	Score    int                `json:"score"`
	Progress float64            `json:"progress"`
	Question *core.QuizQuestion `json:"question,omitempty"`
	Answered bool               `json:"answered"`
	Selected string             `json:"selected,omitempty"`
}

// Snapshot returns a copy of the session state. Progress is (index+1)/total.
func (q *Quiz) Snapshot() QuizSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	s := QuizSnapshot{
		ID:    q.id,
		State: q.state,
		Index: q.index,
		Total: len(q.questions),
		Score: q.score,
	}
	if q.state != QuizIdle && len(q.questions) > 0 {
		current := q.current()
		s.Question = &current
		s.Answered = q.answered[q.index]
		s.Selected = q.selected[q.index]
		s.Progress = float64(q.index+1) / float64(len(q.questions))
	}
	return s
}

// State implements introspection.Introspectable.
func (q *Quiz) State() any { return q.Snapshot() }

// ComponentType implements introspection.Component.
func (q *Quiz) ComponentType() string { return "quiz-session" }

var (
	_ introspection.Introspectable = (*Quiz)(nil)
	_ introspection.Component      = (*Quiz)(nil)
)
