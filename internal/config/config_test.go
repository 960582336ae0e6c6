package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/lingo/internal/speech"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	s, err := Load(newViper(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := s.SpeechConfig()
	want := speech.DefaultConfig()
	if cfg != want {
		t.Errorf("SpeechConfig() = %+v, want %+v", cfg, want)
	}
	if s.Quiz.TimeLimit != 30 {
		t.Errorf("Quiz.TimeLimit = %d, want 30", s.Quiz.TimeLimit)
	}
	if !strings.HasSuffix(s.History.Path, "history.db") {
		t.Errorf("History.Path = %q, want default under data dir", s.History.Path)
	}
	if got := s.CacheConfig().Capacity; got != 100*1024*1024 {
		t.Errorf("CacheConfig().Capacity = %d, want 100MB", got)
	}
}

func TestLoadResolvesDefaultPaths(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG directories are only honored on linux")
	}
	data := t.TempDir()
	cacheHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	s, err := Load(newViper(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"history", s.History.Path, filepath.Join(data, AppName, "history.db")},
		{"cache", s.Speech.Cache.Dir, filepath.Join(cacheHome, AppName, "speech")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s path = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "from-env")
	dir := t.TempDir()

	s, err := Load(newViper(t, `
quiz:
  time_limit: 45
  shuffle: true
speech:
  api_key: from-file
  voice: abc
  stability: 0.2
  timeout: 3s
  requests_per_minute: 5
  cache:
    dir: `+dir+`
    max_size: 10
generate:
  model: gemini-pro
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := s.SpeechConfig()
	checks := []struct {
		name      string
		got, want any
	}{
		{"time limit", s.Quiz.TimeLimit, 45},
		{"shuffle", s.Quiz.Shuffle, true},
		{"api key", cfg.APIKey, "from-file"},
		{"voice", cfg.VoiceID, "abc"},
		{"stability", cfg.VoiceSettings.Stability, 0.2},
		{"timeout", cfg.Timeout, 3 * time.Second},
		{"rpm", cfg.RequestsPerMinute, 5},
		{"cache dir", s.CacheConfig().Dir, dir},
		{"cache size", s.CacheConfig().Capacity, int64(10 * 1024 * 1024)},
		{"generate model", s.Generate.Model, "gemini-pro"},
	}
	for _, tt := range checks {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadAPIKeysFromEnv(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "eleven")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google")

	s, err := Load(newViper(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if s.Speech.APIKey != "eleven" {
		t.Errorf("Speech.APIKey = %q, want eleven", s.Speech.APIKey)
	}
	if s.Generate.APIKey != "google" {
		t.Errorf("Generate.APIKey = %q, want google", s.Generate.APIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero time limit", "quiz:\n  time_limit: 0\n"},
		{"stability above one", "speech:\n  stability: 1.5\n"},
		{"negative rpm", "speech:\n  requests_per_minute: -1\n"},
		{"unknown fallback", "speech:\n  fallback: festival\n"},
		{"cache too small", "speech:\n  cache:\n    max_size: 0\n"},
		{"volume too loud", "speech:\n  volume: 1.5\n"},
		{"speed too slow", "speech:\n  speed: 0.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(newViper(t, tt.yaml)); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Load() error = %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lingo.yml")
	if err := os.WriteFile(path, []byte("width: 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	err := Watch(ctx, path, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.yml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("onChange called for unrelated file")
	case <-time.After(3 * reloadDelay):
	}

	if err := os.WriteFile(path, []byte("width: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called after write")
	}
}
