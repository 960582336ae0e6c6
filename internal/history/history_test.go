package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dgnsrekt/lingo/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func intPtr(i int) *int { return &i }

func sampleResult() quiz.Result {
	return quiz.Result{
		Score:   67,
		Correct: 2,
		Total:   3,
		Records: []quiz.AnswerRecord{
			{QuestionID: "q1", SelectedOptionIndex: intPtr(1), IsCorrect: true, ElapsedSeconds: 4},
			{QuestionID: "q2", ElapsedSeconds: 30},
			{QuestionID: "q3", SelectedOptionIndex: intPtr(0), IsCorrect: true, ElapsedSeconds: 12},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	a := NewAttempt("spanish", sampleResult(), started)
	if a.ID == uuid.Nil {
		t.Fatal("NewAttempt() returned nil id")
	}
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != a.ID || got.Deck != "spanish" || got.Score != 67 || got.Correct != 2 || got.Total != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if !got.StartedAt.Equal(started.UTC()) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started.UTC())
	}
	if len(got.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(got.Records))
	}
	if !got.Records[1].TimedOut() || got.Records[1].ElapsedSeconds != 30 {
		t.Errorf("timed out record = %+v", got.Records[1])
	}
	if idx, ok := got.Records[0].Selected(); !ok || idx != 1 || !got.Records[0].IsCorrect {
		t.Errorf("first record = %+v", got.Records[0])
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSaveDuplicate(t *testing.T) {
	s := openTestStore(t)
	a := NewAttempt("spanish", sampleResult(), time.Now())
	if err := s.Save(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), a); err == nil {
		t.Error("Save() of duplicate id error = nil")
	}
}

func TestRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	decks := []string{"spanish", "french", "spanish", "german"}
	for i, d := range decks {
		a := NewAttempt(d, sampleResult(), base)
		a.CompletedAt = base.Add(time.Duration(i) * time.Hour)
		if err := s.Save(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		limit int
		deck  string
		want  []string
	}{
		{"newest first", 10, "", []string{"german", "spanish", "french", "spanish"}},
		{"limit", 2, "", []string{"german", "spanish"}},
		{"deck filter", 10, "spanish", []string{"spanish", "spanish"}},
		{"unknown deck", 10, "italian", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Recent(ctx, tt.limit, tt.deck)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Recent() returned %d attempts, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.Deck != tt.want[i] {
					t.Errorf("attempt %d deck = %q, want %q", i, a.Deck, tt.want[i])
				}
				if len(a.Records) != 3 {
					t.Errorf("attempt %d has %d records, want 3", i, len(a.Records))
				}
			}
		})
	}
}

func TestAttemptDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Attempt{StartedAt: start, CompletedAt: start.Add(90 * time.Second)}
	if got := a.Duration(); got != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", got)
	}
}
