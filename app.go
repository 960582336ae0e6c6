package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/lingo/internal/audio"
	"github.com/dgnsrekt/lingo/internal/cache"
	"github.com/dgnsrekt/lingo/internal/config"
	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/history"
	"github.com/dgnsrekt/lingo/internal/speech"
	"github.com/dgnsrekt/lingo/ui"
)

// deckExtensions returns the deck file extensions for shell completion.
func deckExtensions() []string {
	exts := make([]string, len(content.Extensions))
	for i, e := range content.Extensions {
		exts[i] = strings.TrimPrefix(e, "*.")
	}
	return exts
}

// newUIConfig reads the TUI debugging knobs from the environment and merges
// in the command line and config file settings.
func newUIConfig(title string) (ui.Config, error) {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return ui.Config{}, fmt.Errorf("error parsing config: %v", err)
	}

	// use style set in env, or the configured one if unset
	if err := validateStyle(cfg.GlamourStyle); err != nil {
		cfg.GlamourStyle = style
	}

	cfg.Title = title
	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse
	cfg.AutoSpeak = settings.Quiz.AutoSpeak
	cfg.Speed = settings.Speech.Speed
	return cfg, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec
}

// newSpeechClient builds a speech client from the loaded settings. The
// returned func releases the audio device and flushes the cache.
func newSpeechClient() (*speech.Client, func(), error) {
	logger := log.Default().WithPrefix("speech")

	fallback, err := speech.DetectFallback(settings.Speech.Fallback, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to set up fallback speech: %w", err)
	}
	opts := []speech.ClientOption{
		speech.WithFallback(fallback),
		speech.WithLogger(logger),
	}

	var closers []func() error

	pc := audio.DefaultPlayerConfig()
	pc.Volume = settings.Speech.Volume
	if p, err := audio.NewOtoPlayer(pc); err != nil {
		log.Warn("Audio output unavailable, remote speech disabled", "err", err)
	} else {
		opts = append(opts, speech.WithPlayer(p))
		closers = append(closers, p.Close)
	}

	if settings.Speech.Cache.Enabled {
		if dc, err := cache.NewDiskCache(settings.CacheConfig()); err != nil {
			log.Warn("Could not open speech cache", "dir", settings.Speech.Cache.Dir, "err", err)
		} else {
			opts = append(opts, speech.WithCache(dc))
			closers = append(closers, dc.Close)
		}
	}

	client := speech.New(settings.SpeechConfig(), opts...)
	log.Debug("Speech client ready",
		"remote", client.IsRemoteEnabled(),
		"fallback", client.FallbackName())

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Debug("Could not release speech resource", "err", err)
			}
		}
	}
	return client, cleanup, nil
}

// watchSpeechConfig reloads the speech settings into client whenever the
// config file changes, until ctx is done.
func watchSpeechConfig(ctx context.Context, client *speech.Client) {
	path := viper.ConfigFileUsed()
	if path == "" {
		return
	}
	err := config.Watch(ctx, path, func() {
		s, err := reloadSettings(path)
		if err != nil {
			log.Warn("Ignoring configuration change", "path", path, "err", err)
			return
		}
		client.Configure(s.SpeechConfig())
		log.Info("Reloaded speech configuration", "remote", client.IsRemoteEnabled())
	})
	if err != nil {
		log.Debug("Config watch disabled", "err", err)
	}
}

// reloadSettings reads path into a fresh viper so the watcher never touches
// the global instance.
func reloadSettings(path string) (config.Settings, error) {
	v := viper.New()
	config.SetDefaults(v)
	configureEnv(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return config.Settings{}, fmt.Errorf("unable to read config file: %w", err)
	}
	return config.Load(v) //nolint:wrapcheck
}

// openHistory opens the attempt store, or returns nil when history is
// disabled or unavailable.
func openHistory() *history.Store {
	if !settings.History.Enabled {
		return nil
	}
	store, err := history.Open(settings.History.Path)
	if err != nil {
		log.Warn("Could not open history", "path", settings.History.Path, "err", err)
		return nil
	}
	return store
}
