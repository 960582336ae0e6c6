package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/speech"
)

var (
	sayVoice    string
	sayModel    string
	sayMarkdown bool

	sayCmd = &cobra.Command{
		Use:     "say [TEXT...]",
		Short:   "Speak text aloud",
		Long:    paragraph(fmt.Sprintf("\n%s text with the configured voice, or with the local fallback when the provider is unavailable. Reads stdin when no text is given.", keyword("Speak"))),
		Example: paragraph("lingo say \"Buenos días\"\necho \"Guten Tag\" | lingo say --voice pNInz6obpgDQGcFmaJgB\nlingo say --markdown < notes.md"),
		RunE:    runSay,
	}
)

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func runSay(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if yes {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("unable to read from stdin: %w", err)
			}
			text = string(b)
		}
	}
	if sayMarkdown {
		text = speech.PlainText(text)
	}

	client, cleanup, err := newSpeechClient()
	if err != nil {
		return err
	}
	defer cleanup()

	if !client.IsRemoteEnabled() {
		fmt.Fprintln(cmd.ErrOrStderr(), faint("No API key configured, speaking with "+client.FallbackName()))
	}

	var opts []speech.Option
	if sayVoice != "" {
		opts = append(opts, speech.WithVoice(sayVoice))
	}
	if sayModel != "" {
		opts = append(opts, speech.WithModel(sayModel))
	}

	if err := client.Speak(cmd.Context(), text, opts...); err != nil {
		if errors.Is(err, speech.ErrEmptyText) {
			return errors.New("nothing to say: pass text or pipe it on stdin")
		}
		return fmt.Errorf("unable to speak: %w", err)
	}
	return nil
}

func init() {
	sayCmd.Flags().StringVar(&sayVoice, "voice", "", "voice id (see lingo voices)")
	sayCmd.Flags().StringVar(&sayModel, "model", "", "model id")
	sayCmd.Flags().BoolVar(&sayMarkdown, "markdown", false, "strip markdown before speaking")
}
