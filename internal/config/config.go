// Package config turns viper settings into typed configuration for the
// quiz, speech, history and generation components.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/lingo/internal/cache"
	"github.com/dgnsrekt/lingo/internal/generate"
	"github.com/dgnsrekt/lingo/internal/speech"
)

// AppName names the config, cache and data directories.
const AppName = "lingo"

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the full configuration file.
type Settings struct {
	Style string `mapstructure:"style"`
	Width uint   `mapstructure:"width"`
	Mouse bool   `mapstructure:"mouse"`

	Quiz     QuizSettings     `mapstructure:"quiz"`
	Speech   SpeechSettings   `mapstructure:"speech"`
	History  HistorySettings  `mapstructure:"history"`
	Generate GenerateSettings `mapstructure:"generate"`
}

// QuizSettings hold quiz defaults. A deck's own time limit wins over
// TimeLimit.
type QuizSettings struct {
	TimeLimit int  `mapstructure:"time_limit"`
	Shuffle   bool `mapstructure:"shuffle"`
	AutoSpeak bool `mapstructure:"auto_speak"`
}

// SpeechSettings configure the speech client.
type SpeechSettings struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Voice             string        `mapstructure:"voice"`
	Model             string        `mapstructure:"model"`
	OutputFormat      string        `mapstructure:"output_format"`
	Stability         float64       `mapstructure:"stability"`
	SimilarityBoost   float64       `mapstructure:"similarity_boost"`
	Style             float64       `mapstructure:"style"`
	SpeakerBoost      bool          `mapstructure:"speaker_boost"`
	Speed             float64       `mapstructure:"speed"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Fallback          string        `mapstructure:"fallback"`
	Volume            float64       `mapstructure:"volume"`
	Cache             CacheSettings `mapstructure:"cache"`
}

// CacheSettings configure the speech audio cache.
type CacheSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
	MaxSize int    `mapstructure:"max_size"` // megabytes
}

// HistorySettings configure attempt history.
type HistorySettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// GenerateSettings configure deck generation.
type GenerateSettings struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	d := speech.DefaultConfig()

	v.SetDefault("style", "auto")
	v.SetDefault("width", 0)
	v.SetDefault("mouse", false)

	v.SetDefault("quiz.time_limit", 30)
	v.SetDefault("quiz.shuffle", false)
	v.SetDefault("quiz.auto_speak", false)

	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.base_url", d.BaseURL)
	v.SetDefault("speech.voice", d.VoiceID)
	v.SetDefault("speech.model", d.ModelID)
	v.SetDefault("speech.output_format", d.OutputFormat)
	v.SetDefault("speech.stability", d.VoiceSettings.Stability)
	v.SetDefault("speech.similarity_boost", d.VoiceSettings.SimilarityBoost)
	v.SetDefault("speech.style", d.VoiceSettings.Style)
	v.SetDefault("speech.speaker_boost", d.VoiceSettings.UseSpeakerBoost)
	v.SetDefault("speech.speed", speech.NormalSpeed)
	v.SetDefault("speech.timeout", d.Timeout)
	v.SetDefault("speech.requests_per_minute", d.RequestsPerMinute)
	v.SetDefault("speech.fallback", speech.FallbackAuto)
	v.SetDefault("speech.volume", 1.0)
	v.SetDefault("speech.cache.enabled", true)
	v.SetDefault("speech.cache.dir", "")
	v.SetDefault("speech.cache.max_size", 100)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")

	v.SetDefault("generate.api_key", "")
	v.SetDefault("generate.model", generate.DefaultModel)
}

// Load reads settings from v, fills API keys from the conventional
// environment variables when the config leaves them empty, resolves paths
// and validates the result.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unable to decode settings: %w", err)
	}

	if s.Speech.APIKey == "" {
		s.Speech.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if s.Generate.APIKey == "" {
		s.Generate.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}

	scope := gap.NewScope(gap.User, AppName)
	var err error
	if s.Speech.Cache.Dir, err = resolveDir(s.Speech.Cache.Dir, scope.CacheDir, "speech"); err != nil {
		return Settings{}, err
	}
	if s.History.Path, err = resolveDir(s.History.Path, dataDir(scope), "history.db"); err != nil {
		return Settings{}, err
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidSettings}, args...)...))
		}
	}

	check(s.Quiz.TimeLimit > 0 && s.Quiz.TimeLimit <= 3600,
		"quiz.time_limit must be between 1 and 3600 seconds, got %d", s.Quiz.TimeLimit)
	check(inUnit(s.Speech.Stability), "speech.stability must be between 0 and 1, got %.2f", s.Speech.Stability)
	check(inUnit(s.Speech.SimilarityBoost), "speech.similarity_boost must be between 0 and 1, got %.2f", s.Speech.SimilarityBoost)
	check(inUnit(s.Speech.Style), "speech.style must be between 0 and 1, got %.2f", s.Speech.Style)
	check(s.Speech.Speed >= speech.MinSpeed && s.Speech.Speed <= speech.MaxSpeed,
		"speech.speed must be between %.1f and %.1f, got %.2f", speech.MinSpeed, speech.MaxSpeed, s.Speech.Speed)
	check(s.Speech.Timeout >= 0, "speech.timeout must not be negative, got %s", s.Speech.Timeout)
	check(s.Speech.RequestsPerMinute >= 0, "speech.requests_per_minute must not be negative, got %d", s.Speech.RequestsPerMinute)
	check(inUnit(s.Speech.Volume), "speech.volume must be between 0 and 1, got %.2f", s.Speech.Volume)
	check(s.Speech.Cache.MaxSize >= 1 && s.Speech.Cache.MaxSize <= 10000,
		"speech.cache.max_size must be between 1 and 10000 MB, got %d", s.Speech.Cache.MaxSize)

	switch strings.ToLower(s.Speech.Fallback) {
	case "", speech.FallbackAuto, speech.FallbackSay, speech.FallbackEspeak, speech.FallbackNone:
	default:
		check(false, "speech.fallback must be auto, say, espeak or none, got %q", s.Speech.Fallback)
	}

	return errors.Join(errs...)
}

// SpeechConfig converts the speech settings for the client.
func (s Settings) SpeechConfig() speech.Config {
	return speech.Config{
		APIKey:       s.Speech.APIKey,
		BaseURL:      s.Speech.BaseURL,
		VoiceID:      s.Speech.Voice,
		ModelID:      s.Speech.Model,
		OutputFormat: s.Speech.OutputFormat,
		VoiceSettings: speech.VoiceSettings{
			Stability:       s.Speech.Stability,
			SimilarityBoost: s.Speech.SimilarityBoost,
			Style:           s.Speech.Style,
			UseSpeakerBoost: s.Speech.SpeakerBoost,
			Speed:           s.Speech.Speed,
		},
		Timeout:           s.Speech.Timeout,
		RequestsPerMinute: s.Speech.RequestsPerMinute,
	}
}

// CacheConfig converts the cache settings.
func (s Settings) CacheConfig() cache.Config {
	c := cache.DefaultConfig()
	c.Dir = s.Speech.Cache.Dir
	c.Capacity = int64(s.Speech.Cache.MaxSize) * 1024 * 1024
	return c
}

// dataDir adapts DataPath to resolveDir; an empty filename yields the
// directory itself.
func dataDir(scope *gap.Scope) func() (string, error) {
	return func() (string, error) {
		return scope.DataPath("") //nolint:wrapcheck
	}
}

func inUnit(f float64) bool {
	return f >= 0 && f <= 1
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// resolveDir expands p, or joins name onto the scope directory when p is
// empty.
func resolveDir(p string, scopeDir func() (string, error), name string) (string, error) {
	if p != "" {
		expanded, err := homedir.Expand(p)
		if err != nil {
			return "", fmt.Errorf("unable to expand %q: %w", p, err)
		}
		return expanded, nil
	}
	dir, err := scopeDir()
	if err != nil {
		return "", fmt.Errorf("unable to find %s directory: %w", AppName, err)
	}
	return filepath.Join(dir, name), nil
}
