package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# style name or JSON path (default "auto")
style: "auto"
# mouse support
mouse: false
# word-wrap at width (0 detects the terminal width)
width: 0

quiz:
  # seconds per question when a deck does not set time_limit
  time_limit: 30
  # shuffle question order
  shuffle: false
  # read each question aloud when it appears
  auto_speak: false

speech:
  # ElevenLabs API key. Leave empty to use ELEVENLABS_API_KEY, or to speak
  # with the local fallback only.
  api_key: ""
  voice: "21m00Tcm4TlvDq8ikWAM"
  model: "eleven_multilingual_v2"
  output_format: "pcm_22050"
  stability: 0.5
  similarity_boost: 0.75
  style: 0.0
  speaker_boost: true
  # speaking rate (0.7 to 1.2), also adjustable with +/- in the TUI
  speed: 1.0
  timeout: "15s"
  # remote requests allowed per minute (0 disables the limit)
  requests_per_minute: 30
  # local synthesizer: auto, say, espeak or none
  fallback: "auto"
  # playback volume (0.0 to 1.0)
  volume: 1.0
  cache:
    enabled: true
    # dir: "~/.cache/lingo/speech"
    # size cap in MB
    max_size: 100

history:
  enabled: true
  # path: "~/.local/share/lingo/history.db"

generate:
  # Gemini API key. Leave empty to use GEMINI_API_KEY or GOOGLE_API_KEY.
  api_key: ""
  model: "gemini-1.5-flash"
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the lingo config file",
	Long:    paragraph(fmt.Sprintf("\n%s the lingo config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("lingo config\nlingo config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// An invalid config file must stay editable.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Lingo", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
