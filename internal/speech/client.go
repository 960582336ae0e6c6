// Package speech speaks text through a hosted text-to-speech provider and
// falls back to a local synthesizer whenever the provider cannot be used.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/lingo/internal/audio"
	"github.com/dgnsrekt/lingo/internal/cache"
)

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 512

// AudioCache stores synthesized clips between calls.
type AudioCache interface {
	Get(key cache.Key) ([]byte, bool)
	Put(key cache.Key, pcm []byte) error
}

// snapshot is the immutable state a single call works against.
type snapshot struct {
	cfg     Config
	limiter *rate.Limiter
}

// Client is safe for concurrent use. Configure may be called at any time;
// calls already running keep the configuration they started with.
type Client struct {
	state atomic.Pointer[snapshot]

	httpClient *http.Client
	player     audio.Player
	fallback   Synthesizer
	cache      AudioCache
	logger     *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for provider requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPlayer sets the device remote audio is played on.
func WithPlayer(p audio.Player) ClientOption {
	return func(c *Client) { c.player = p }
}

// WithFallback sets the local synthesizer.
func WithFallback(s Synthesizer) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.fallback = s
		}
	}
}

// WithCache enables the audio cache.
func WithCache(ac AudioCache) ClientOption {
	return func(c *Client) { c.cache = ac }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client. Without WithFallback the fallback only logs the
// text.
func New(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		logger:     log.Default().WithPrefix("speech"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fallback == nil {
		c.fallback = NewLogSynthesizer(c.logger)
	}
	c.Configure(cfg)
	return c
}

// Configure replaces the configuration.
func (c *Client) Configure(cfg Config) {
	cfg = cfg.withDefaults()
	s := &snapshot{cfg: cfg}

	// Keep the limiter's budget across reloads that do not change the rate.
	if old := c.state.Load(); old != nil && old.cfg.RequestsPerMinute == cfg.RequestsPerMinute {
		s.limiter = old.limiter
	} else if cfg.RequestsPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	c.state.Store(s)
}

// Config returns the current configuration.
func (c *Client) Config() Config {
	return c.state.Load().cfg
}

// IsRemoteEnabled reports whether an API key is configured.
func (c *Client) IsRemoteEnabled() bool {
	return c.state.Load().cfg.APIKey != ""
}

// FallbackName returns the name of the local synthesizer.
func (c *Client) FallbackName() string {
	return c.fallback.Name()
}

// Speak says text and returns once it has been spoken. Provider failures
// are logged and answered with the local synthesizer; only ErrEmptyText is
// ever returned.
func (c *Client) Speak(ctx context.Context, text string, opts ...Option) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	snap := c.state.Load()
	req := snap.cfg.request(text, opts...)

	if err := c.speakRemote(ctx, snap, req); err != nil {
		if errors.Is(err, ErrRemoteDisabled) {
			c.logger.Debug("remote speech disabled, using fallback", "fallback", c.fallback.Name())
		} else {
			c.logger.Warn("remote speech failed, using fallback",
				"voice", req.VoiceID, "model", req.ModelID, "err", err)
		}
		c.speakFallback(ctx, req.Text)
	}
	return nil
}

func (c *Client) speakRemote(ctx context.Context, snap *snapshot, req Request) error {
	cfg := snap.cfg
	if cfg.APIKey == "" {
		return ErrRemoteDisabled
	}
	if c.player == nil {
		return ErrNoPlayer
	}

	key := cache.Key{
		Text:     req.Text,
		VoiceID:  req.VoiceID,
		ModelID:  req.ModelID,
		Format:   cfg.OutputFormat,
		Speed:    req.Speed,
		Settings: cfg.VoiceSettings.cacheTag(),
	}
	if c.cache != nil {
		if pcm, ok := c.cache.Get(key); ok {
			c.logger.Debug("speech cache hit", "voice", req.VoiceID, "bytes", len(pcm))
			return c.play(ctx, pcm)
		}
	}

	if snap.limiter != nil && !snap.limiter.Allow() {
		return ErrRateLimited
	}

	pcm, err := c.synthesize(ctx, cfg, req)
	if err != nil {
		return err
	}
	if err := audio.ValidatePCM(pcm); err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(key, pcm); err != nil {
			c.logger.Debug("speech cache put failed", "err", err)
		}
	}
	return c.play(ctx, pcm)
}

func (c *Client) play(ctx context.Context, pcm []byte) error {
	if err := c.player.Play(ctx, pcm); err != nil {
		return fmt.Errorf("play audio: %w", err)
	}
	return nil
}

func (c *Client) speakFallback(ctx context.Context, text string) {
	if err := c.fallback.Speak(ctx, text); err != nil {
		c.logger.Error("fallback speech failed", "fallback", c.fallback.Name(), "err", err)
	}
}

type synthesizeBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// synthesize performs the single remote attempt.
func (c *Client) synthesize(ctx context.Context, cfg Config, req Request) ([]byte, error) {
	settings := cfg.VoiceSettings
	settings.Speed = req.Speed
	body, err := json.Marshal(synthesizeBody{
		Text:          req.Text,
		ModelID:       req.ModelID,
		VoiceSettings: settings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s",
		cfg.BaseURL, url.PathEscape(req.VoiceID), url.QueryEscape(cfg.OutputFormat))

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/pcm")
	httpReq.Header.Set("xi-api-key", cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	if ct := resp.Header.Get("Content-Type"); !isAudio(ct) {
		return nil, fmt.Errorf("%w: %q", ErrNotAudio, ct)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return pcm, nil
}

// ListVoices returns the provider's voices, or an empty slice on any
// failure.
func (c *Client) ListVoices(ctx context.Context) []Voice {
	var out struct {
		Voices []Voice `json:"voices"`
	}
	if err := c.getJSON(ctx, "/voices", &out); err != nil {
		c.logger.Warn("list voices failed", "err", err)
		return []Voice{}
	}
	if out.Voices == nil {
		return []Voice{}
	}
	return out.Voices
}

// RemainingQuota returns the characters left in the current billing period,
// or 0 on any failure.
func (c *Client) RemainingQuota(ctx context.Context) int {
	var out struct {
		Subscription struct {
			CharacterCount int `json:"character_count"`
			CharacterLimit int `json:"character_limit"`
		} `json:"subscription"`
	}
	if err := c.getJSON(ctx, "/user", &out); err != nil {
		c.logger.Warn("quota lookup failed", "err", err)
		return 0
	}
	remaining := out.Subscription.CharacterLimit - out.Subscription.CharacterCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	cfg := c.state.Load().cfg
	if cfg.APIKey == "" {
		return ErrRemoteDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// isAudio accepts audio media types and generic byte streams.
func isAudio(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "audio/") || mt == "application/octet-stream"
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
