package speech

import (
	"fmt"
	"strings"
	"time"
)

// Provider defaults.
const (
	DefaultBaseURL      = "https://api.elevenlabs.io/v1"
	DefaultVoiceID      = "21m00Tcm4TlvDq8ikWAM"
	DefaultModelID      = "eleven_multilingual_v2"
	DefaultOutputFormat = "pcm_22050"
)

// VoiceSettings tune the provider's voice rendering.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

// cacheTag identifies the rendering settings other than speed, which the
// cache key carries on its own.
func (v VoiceSettings) cacheTag() string {
	return fmt.Sprintf("%.2f/%.2f/%.2f/%t", v.Stability, v.SimilarityBoost, v.Style, v.UseSpeakerBoost)
}

// Config is the client's configuration slot. An empty APIKey puts the client
// in permanent fallback mode.
type Config struct {
	APIKey       string
	BaseURL      string
	VoiceID      string
	ModelID      string
	OutputFormat string

	VoiceSettings VoiceSettings

	// Timeout bounds a single remote request, playback excluded.
	Timeout time.Duration

	// RequestsPerMinute caps remote synthesis calls. Zero disables the cap.
	RequestsPerMinute int
}

// DefaultConfig returns a configuration without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		VoiceID:      DefaultVoiceID,
		ModelID:      DefaultModelID,
		OutputFormat: DefaultOutputFormat,
		VoiceSettings: VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			UseSpeakerBoost: true,
			Speed:           NormalSpeed,
		},
		Timeout:           15 * time.Second,
		RequestsPerMinute: 30,
	}
}

// withDefaults fills empty fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.VoiceID == "" {
		c.VoiceID = d.VoiceID
	}
	if c.ModelID == "" {
		c.ModelID = d.ModelID
	}
	if c.OutputFormat == "" {
		c.OutputFormat = d.OutputFormat
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.RequestsPerMinute < 0 {
		c.RequestsPerMinute = 0
	}
	return c
}

// Request is one utterance, resolved against the configuration snapshot.
type Request struct {
	Text    string
	VoiceID string
	ModelID string
	Speed   float64 // zero keeps the configured rate
}

// Option overrides per-call request fields.
type Option func(*Request)

// WithVoice overrides the configured voice for one call.
func WithVoice(id string) Option {
	return func(r *Request) {
		if id != "" {
			r.VoiceID = id
		}
	}
}

// WithModel overrides the configured model for one call.
func WithModel(id string) Option {
	return func(r *Request) {
		if id != "" {
			r.ModelID = id
		}
	}
}

// WithSpeed sets the speaking rate for one call. It is clamped to
// [MinSpeed, MaxSpeed]; zero keeps the configured rate.
func WithSpeed(speed float64) Option {
	return func(r *Request) {
		if speed != 0 {
			r.Speed = clampSpeed(speed)
		}
	}
}

func (c Config) request(text string, opts ...Option) Request {
	r := Request{Text: text, VoiceID: c.VoiceID, ModelID: c.ModelID, Speed: c.VoiceSettings.Speed}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Voice is a voice offered by the provider.
type Voice struct {
	ID         string            `json:"voice_id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Labels     map[string]string `json:"labels"`
	PreviewURL string            `json:"preview_url"`
}
