package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/generate"
)

var (
	generateLang   string
	generateCount  int
	generateOutput string

	generateCmd = &cobra.Command{
		Use:     "generate TOPIC",
		Short:   "Generate a quiz deck with Gemini",
		Long:    paragraph(fmt.Sprintf("\n%s a multiple-choice deck about TOPIC. The deck is written to --output, or printed as YAML.", keyword("Generate"))),
		Example: paragraph("lingo generate \"ordering food\" --lang es -n 10 -o food.yaml"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")

			format := content.FormatYAML
			if generateOutput != "" {
				f, err := content.FormatFromPath(generateOutput)
				if err != nil {
					return err //nolint:wrapcheck
				}
				format = f
			}

			g, err := generate.New(cmd.Context(), settings.Generate.APIKey, settings.Generate.Model)
			if errors.Is(err, generate.ErrNoAPIKey) {
				return errors.New("no Gemini API key configured, set generate.api_key or GEMINI_API_KEY")
			} else if err != nil {
				return err //nolint:wrapcheck
			}
			defer g.Close() //nolint:errcheck

			d, err := g.Deck(cmd.Context(), topic, generateLang, generateCount)
			if err != nil {
				return fmt.Errorf("unable to generate deck: %w", err)
			}

			if generateOutput == "" {
				return d.Encode(cmd.OutOrStdout(), format) //nolint:wrapcheck
			}

			f, err := os.OpenFile(generateOutput, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec
			if err != nil {
				return fmt.Errorf("unable to create deck file: %w", err)
			}
			if err := d.Encode(f, format); err != nil {
				_ = f.Close()
				return fmt.Errorf("unable to write deck: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("unable to write deck: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d questions to %s\n", len(d.Questions), keyword(generateOutput))
			return nil
		},
	}
)

func init() {
	generateCmd.Flags().StringVarP(&generateLang, "lang", "l", "es", "language of the questions (BCP 47 tag)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 10, fmt.Sprintf("number of questions (at most %d)", generate.MaxQuestions))
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "write the deck to this file instead of stdout")
}
