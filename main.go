// Package main provides the entry point for the lingo CLI application.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/lingo/internal/config"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	style      string
	width      uint
	mouse      bool
	settings   config.Settings

	rootCmd = &cobra.Command{
		Use:   "lingo [DECK]",
		Short: "Practice a language in the terminal, out loud",
		Long: paragraph(
			fmt.Sprintf("\nTimed quizzes and flashcards for language learners, %s!", keyword("read aloud")),
		),
		Example: paragraph("lingo spanish.yaml\nlingo cards verbs.toml\nlingo say \"¿Dónde está la biblioteca?\""),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return deckExtensions(), cobra.ShellCompDirectiveFilterFileExt
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// lingo DECK is shorthand for lingo quiz DECK.
			if len(args) == 0 {
				return cmd.Help()
			}
			return runQuiz(cmd.Context(), args[0])
		},
	}
)

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if style != "auto" && styles.DefaultStyles[style] == nil {
		style, _ = homedir.Expand(style)
		if _, err := os.Stat(style); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	s, err := config.Load(viper.GetViper())
	if err != nil {
		return err //nolint:wrapcheck
	}
	settings = s

	// grab config values from Viper
	width = settings.Width
	mouse = settings.Mouse
	style = settings.Style

	// validate the glamour style
	if err := validateStyle(style); err != nil {
		return err
	}

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	// We want to use a special no-TTY style, when stdout is not a terminal
	// and there was no specific style passed by arg
	if !isTerminal && !cmd.Flags().Changed("style") {
		style = "notty"
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") { //nolint:nestif
		if isTerminal && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}

			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	// A .env in the working directory may carry the API keys. Variables
	// already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not parse .env file", "err", err)
	}

	config.SetDefaults(viper.GetViper())
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringVarP(&style, "style", "s", styles.AutoStyle, "style name or JSON path")
	flags.UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to disable)")
	flags.BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = flags.MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("style", flags.Lookup("style"))
	_ = viper.BindPFlag("width", flags.Lookup("width"))
	_ = viper.BindPFlag("mouse", flags.Lookup("mouse"))

	rootCmd.AddCommand(
		quizCmd,
		cardsCmd,
		sayCmd,
		voicesCmd,
		quotaCmd,
		decksCmd,
		historyCmd,
		generateCmd,
		configCmd,
		manCmd,
	)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, config.AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, config.AppName)}, dirs...)
	}

	if c := os.Getenv("LINGO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(config.AppName)
	viper.SetConfigType("yaml")
	configureEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "lingo.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

// configureEnv maps nested keys to LINGO_ variables, so speech.api_key is
// read from LINGO_SPEECH_API_KEY.
func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix(config.AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}
