package quiz

import (
	"fmt"
	"sync"
	"time"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateInProgress means the current question accepts an answer.
	StateInProgress State = iota
	// StateQuestionLocked means the current question is finalized and the
	// session waits for Advance.
	StateQuestionLocked
	// StateComplete is terminal.
	StateComplete
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in_progress"
	case StateQuestionLocked:
		return "question_locked"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Clock supplies the current time. Tests substitute a fake one.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to measure answer times.
func WithClock(c Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// Session drives one attempt at an ordered list of questions.
//
// Selecting an option finalizes the question immediately; there is no
// separate submit step. Each finalized question must be followed by an
// explicit Advance.
type Session struct {
	mu sync.Mutex

	questions []Question
	budget    int
	clock     Clock

	current     int
	state       State
	records     []AnswerRecord
	activatedAt time.Time
	score       int
}

// New creates a session positioned on the first question.
func New(questions []Question, timeBudgetSeconds int, opts ...Option) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if timeBudgetSeconds <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTimeBudget, timeBudgetSeconds)
	}

	seen := make(map[string]struct{}, len(questions))
	qs := make([]Question, len(questions))
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
		qs[i] = q.clone()
	}

	s := &Session{
		questions: qs,
		budget:    timeBudgetSeconds,
		clock:     wallClock{},
		state:     StateInProgress,
		records:   make([]AnswerRecord, 0, len(qs)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.activatedAt = s.clock.Now()
	return s, nil
}

// SelectAnswer finalizes the current question with the given option.
func (s *Session) SelectAnswer(optionIndex int) (AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAnswerable(); err != nil {
		return AnswerRecord{}, err
	}
	q := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return AnswerRecord{}, fmt.Errorf("%w: %d not in [0,%d)",
			ErrInvalidAnswerIndex, optionIndex, len(q.Options))
	}

	selected := optionIndex
	rec := AnswerRecord{
		QuestionID:          q.ID,
		SelectedOptionIndex: &selected,
		IsCorrect:           optionIndex == q.CorrectOptionIndex,
		ElapsedSeconds:      s.elapsed(),
	}
	s.lock(rec)
	return rec.clone(), nil
}

// ExpireCurrentQuestion finalizes the current question as timed out.
func (s *Session) ExpireCurrentQuestion() (AnswerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAnswerable(); err != nil {
		return AnswerRecord{}, err
	}
	rec := AnswerRecord{
		QuestionID:     s.questions[s.current].ID,
		IsCorrect:      false,
		ElapsedSeconds: s.budget,
	}
	s.lock(rec)
	return rec, nil
}

// Advance moves past a locked question. After the last question the session
// becomes complete and the score is fixed.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateQuestionLocked {
		return fmt.Errorf("%w: advance from %s", ErrInvalidStateTransition, s.state)
	}

	s.current++
	if s.current == len(s.questions) {
		s.state = StateComplete
		s.score = Score(s.correctCount(), len(s.questions))
		return nil
	}
	s.state = StateInProgress
	s.activatedAt = s.clock.Now()
	return nil
}

// Result returns the final score and records.
func (s *Session) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateComplete {
		return Result{}, ErrNotComplete
	}
	return Result{
		Score:   s.score,
		Correct: s.correctCount(),
		Total:   len(s.questions),
		Records: s.copyRecords(),
	}, nil
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentIndex returns the index of the current question. It equals Len()
// once the session is complete.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Len returns the number of questions.
func (s *Session) Len() int {
	return len(s.questions)
}

// TimeBudgetSeconds returns the per-question time budget.
func (s *Session) TimeBudgetSeconds() int {
	return s.budget
}

// Questions returns a copy of the questions in order.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = q.clone()
	}
	return out
}

// CurrentQuestion returns the current question, or false when complete.
func (s *Session) CurrentQuestion() (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateComplete {
		return Question{}, false
	}
	return s.questions[s.current].clone(), true
}

// PendingRecord returns the record of the locked current question.
func (s *Session) PendingRecord() (AnswerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQuestionLocked {
		return AnswerRecord{}, false
	}
	return s.records[len(s.records)-1].clone(), true
}

// Records returns a copy of the finalized records so far.
func (s *Session) Records() []AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRecords()
}

func (s *Session) checkAnswerable() error {
	switch s.state {
	case StateInProgress:
		return nil
	case StateQuestionLocked:
		return ErrQuestionAlreadyLocked
	default:
		return fmt.Errorf("%w: session is %s", ErrInvalidStateTransition, s.state)
	}
}

// lock appends the record for the current question. Caller holds mu.
func (s *Session) lock(rec AnswerRecord) {
	s.records = append(s.records, rec)
	s.state = StateQuestionLocked
}

func (s *Session) elapsed() int {
	secs := int(s.clock.Now().Sub(s.activatedAt) / time.Second)
	if secs < 0 {
		return 0
	}
	if secs > s.budget {
		return s.budget
	}
	return secs
}

func (s *Session) correctCount() int {
	n := 0
	for _, r := range s.records {
		if r.IsCorrect {
			n++
		}
	}
	return n
}

func (s *Session) copyRecords() []AnswerRecord {
	out := make([]AnswerRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.clone()
	}
	return out
}
