// Package quiz implements a timed multiple-choice quiz session.
//
// A Session is a small state machine. It never starts timers of its own:
// the caller watches the clock and calls ExpireCurrentQuestion when the
// per-question budget runs out.
package quiz

import "fmt"

// Question is a single multiple-choice question.
type Question struct {
	ID                 string   // Stable identifier within a session
	Prompt             string   // Display text
	Options            []string // Answer choices, at least two
	CorrectOptionIndex int      // Index into Options
	Explanation        string   // Optional text shown after answering
	SpeakableText      string   // Optional text for speech output
}

// Validate checks the question invariants.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidQuestion)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q has %d options, need at least 2",
			ErrInvalidQuestion, q.ID, len(q.Options))
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return fmt.Errorf("%w: question %q correct index %d out of range [0,%d)",
			ErrInvalidQuestion, q.ID, q.CorrectOptionIndex, len(q.Options))
	}
	return nil
}

// SpeechText returns the text to read aloud for the question.
func (q Question) SpeechText() string {
	if q.SpeakableText != "" {
		return q.SpeakableText
	}
	return q.Prompt
}

// clone returns a deep copy so later mutation of the caller's slices cannot
// reach into a running session.
func (q Question) clone() Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// AnswerRecord is the finalized outcome of one question.
type AnswerRecord struct {
	QuestionID          string
	SelectedOptionIndex *int // nil when the question timed out
	IsCorrect           bool
	ElapsedSeconds      int
}

// TimedOut reports whether the question expired without a selection.
func (r AnswerRecord) TimedOut() bool {
	return r.SelectedOptionIndex == nil
}

// Selected returns the selected option index and whether there was one.
func (r AnswerRecord) Selected() (int, bool) {
	if r.SelectedOptionIndex == nil {
		return 0, false
	}
	return *r.SelectedOptionIndex, true
}

func (r AnswerRecord) clone() AnswerRecord {
	if r.SelectedOptionIndex != nil {
		v := *r.SelectedOptionIndex
		r.SelectedOptionIndex = &v
	}
	return r
}

// Result is the final outcome of a completed session.
type Result struct {
	Score   int // Percentage, rounded half up
	Correct int
	Total   int
	Records []AnswerRecord
}

// Score computes round_half_up(100 * correct / total) in integer arithmetic.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*correct + total) / (2 * total)
}
