package ui

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/lingo/internal/quiz"
	"github.com/dgnsrekt/lingo/internal/speech"
)

type fakeSpeaker struct {
	mu     sync.Mutex
	texts  []string
	speeds []float64
}

func (f *fakeSpeaker) Speak(_ context.Context, text string, opts ...speech.Option) error {
	var req speech.Request
	for _, opt := range opts {
		opt(&req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.speeds = append(f.speeds, req.Speed)
	return nil
}

func (f *fakeSpeaker) spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "q1", Prompt: "¿Cómo se dice 'dog'?", Options: []string{"gato", "perro"}, CorrectOptionIndex: 1, Explanation: "*Perro* means dog."},
		{ID: "q2", Prompt: "¿Cómo se dice 'cat'?", Options: []string{"gato", "perro"}, CorrectOptionIndex: 0, SpeakableText: "gato o perro"},
	}
}

func newTestQuiz(t *testing.T, sp Speaker, onComplete func(quiz.Result)) (QuizModel, *quiz.Session) {
	t.Helper()
	s, err := quiz.New(testQuestions(), 30)
	if err != nil {
		t.Fatalf("quiz.New() error = %v", err)
	}
	cfg := Config{Title: "Spanish", GlamourEnabled: false}
	return NewQuizModel(cfg, s, sp, onComplete), s
}

func update(t *testing.T, m QuizModel, msg tea.Msg) (QuizModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	qm, ok := next.(QuizModel)
	if !ok {
		t.Fatalf("Update() returned %T, want QuizModel", next)
	}
	return qm, cmd
}

func TestQuizAnswerAndAdvance(t *testing.T) {
	var got *quiz.Result
	m, s := newTestQuiz(t, nil, func(r quiz.Result) { got = &r })

	m, cmd := update(t, m, runes("2"))
	if cmd == nil {
		t.Error("answer returned nil cmd, want timer stop")
	}
	if s.State() != quiz.StateQuestionLocked {
		t.Fatalf("State() = %v, want %v", s.State(), quiz.StateQuestionLocked)
	}
	if m.status != "Correct!" {
		t.Errorf("status = %q, want %q", m.status, "Correct!")
	}
	if !strings.Contains(m.explanation, "Perro") {
		t.Errorf("explanation = %q, want it to mention Perro", m.explanation)
	}

	// Further answers are ignored while locked.
	m, _ = update(t, m, runes("1"))
	if rec, _ := s.PendingRecord(); !rec.IsCorrect {
		t.Error("locked answer was replaced")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if s.CurrentIndex() != 1 {
		t.Fatalf("CurrentIndex() = %d, want 1", s.CurrentIndex())
	}
	if m.status != "" || m.explanation != "" {
		t.Errorf("status/explanation not cleared: %q %q", m.status, m.explanation)
	}

	m, _ = update(t, m, runes("2"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got == nil {
		t.Fatal("onComplete was not called")
	}
	if got.Score != 50 || got.Correct != 1 || got.Total != 2 {
		t.Errorf("result = %+v, want score 50 with 1 of 2 correct", *got)
	}
	res, ok := m.Result()
	if !ok || res.Score != 50 {
		t.Errorf("Result() = %+v, %v, want score 50", res, ok)
	}
	if view := m.View(); !strings.Contains(view, "1 of 2 correct") {
		t.Errorf("View() = %q, want summary", view)
	}
}

func TestQuizInvalidOption(t *testing.T) {
	m, s := newTestQuiz(t, nil, nil)

	m, _ = update(t, m, runes("9"))
	if s.State() != quiz.StateInProgress {
		t.Errorf("State() = %v, want %v", s.State(), quiz.StateInProgress)
	}
	if m.status != "No option 9" {
		t.Errorf("status = %q, want %q", m.status, "No option 9")
	}
}

func TestQuizTimeout(t *testing.T) {
	m, s := newTestQuiz(t, nil, nil)

	// A timeout from an old timer is ignored.
	m, _ = update(t, m, timer.TimeoutMsg{ID: m.timer.ID() + 1000})
	if s.State() != quiz.StateInProgress {
		t.Fatalf("stale timeout changed state to %v", s.State())
	}

	m, _ = update(t, m, timer.TimeoutMsg{ID: m.timer.ID()})
	if s.State() != quiz.StateQuestionLocked {
		t.Fatalf("State() = %v, want %v", s.State(), quiz.StateQuestionLocked)
	}
	rec, ok := s.PendingRecord()
	if !ok || !rec.TimedOut() {
		t.Errorf("PendingRecord() = %+v, want timed out", rec)
	}
	if m.status != "Time's up!" {
		t.Errorf("status = %q, want %q", m.status, "Time's up!")
	}
}

func TestQuizSpeak(t *testing.T) {
	sp := &fakeSpeaker{}
	m, _ := newTestQuiz(t, sp, nil)

	m, cmd := update(t, m, runes("s"))
	if cmd == nil {
		t.Fatal("speak returned nil cmd")
	}
	if !m.speaking {
		t.Error("speaking = false after speak")
	}

	// Only one utterance at a time.
	if _, again := update(t, m, runes("s")); again != nil {
		t.Error("second speak while speaking returned a cmd")
	}

	msg := cmd()
	if _, ok := msg.(spokeMsg); !ok {
		t.Fatalf("speak cmd returned %T, want spokeMsg", msg)
	}
	m, _ = update(t, m, msg)
	if m.speaking {
		t.Error("speaking = true after spokeMsg")
	}

	// The explanation can only be spoken once the question is locked.
	if _, cmd := update(t, m, runes("e")); cmd != nil {
		t.Error("explain before answering returned a cmd")
	}
	m, _ = update(t, m, runes("1"))
	_, cmd = update(t, m, runes("e"))
	if cmd == nil {
		t.Fatal("explain returned nil cmd")
	}
	cmd()

	want := []string{"¿Cómo se dice 'dog'?", "Perro means dog."}
	got := sp.spoken()
	if len(got) != len(want) {
		t.Fatalf("spoken = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("spoken[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQuizQuit(t *testing.T) {
	m, _ := newTestQuiz(t, nil, nil)

	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("quit returned nil cmd")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit cmd did not return tea.QuitMsg")
	}
}

func TestQuizSpeed(t *testing.T) {
	sp := &fakeSpeaker{}
	m, _ := newTestQuiz(t, sp, nil)

	m, _ = update(t, m, runes("-"))
	m, _ = update(t, m, runes("-"))
	if m.status != "Speed 0.8×" {
		t.Errorf("status = %q, want %q", m.status, "Speed 0.8×")
	}
	m, _ = update(t, m, runes("+"))

	_, cmd := update(t, m, runes("s"))
	if cmd == nil {
		t.Fatal("speak returned nil cmd")
	}
	cmd()

	sp.mu.Lock()
	defer sp.mu.Unlock()
	if len(sp.speeds) != 1 || sp.speeds[0] != 0.9 {
		t.Errorf("speeds = %v, want [0.9]", sp.speeds)
	}
}
