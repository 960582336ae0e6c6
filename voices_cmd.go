package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/speech"
)

const nameColumnWidth = 24

var errNoAPIKey = errors.New("no speech API key configured, set speech.api_key or ELEVENLABS_API_KEY")

var (
	voicesFilter string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the provider's voices",
		Example: paragraph("lingo voices\nlingo voices --filter rachel"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := speech.New(settings.SpeechConfig())
			if !client.IsRemoteEnabled() {
				return errNoAPIKey
			}

			voices := filterVoices(client.ListVoices(cmd.Context()), voicesFilter)
			if len(voices) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faint("No voices found."))
				return nil
			}
			for _, v := range voices {
				name := runewidth.FillRight(truncate.StringWithTail(v.Name, nameColumnWidth, "…"), nameColumnWidth)
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", keyword(name), v.ID, faint(v.Category))
			}
			return nil
		},
	}

	quotaCmd = &cobra.Command{
		Use:   "quota",
		Short: "Show the characters left this billing period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := speech.New(settings.SpeechConfig())
			if !client.IsRemoteEnabled() {
				return errNoAPIKey
			}
			n := client.RemainingQuota(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", keyword(humanize.Comma(int64(n))), faint("characters left"))
			return nil
		},
	}
)

// filterVoices returns the voices whose names fuzzy-match pattern, best
// match first. An empty pattern keeps every voice.
func filterVoices(voices []speech.Voice, pattern string) []speech.Voice {
	if pattern == "" {
		return voices
	}
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.Name
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]speech.Voice, len(matches))
	for i, m := range matches {
		out[i] = voices[m.Index]
	}
	return out
}

func init() {
	voicesCmd.Flags().StringVarP(&voicesFilter, "filter", "f", "", "fuzzy filter by name")
}
