package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/history"
)

const deckColumnWidth = 28

var (
	historyLimit int
	historyDeck  string

	historyCmd = &cobra.Command{
		Use:     "history",
		Short:   "Show recent quiz attempts",
		Example: paragraph("lingo history\nlingo history --deck spanish.yaml --limit 5"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !settings.History.Enabled {
				return errors.New("history is disabled, set history.enabled in the config file")
			}
			store, err := history.Open(settings.History.Path)
			if err != nil {
				return fmt.Errorf("unable to open history: %w", err)
			}
			defer store.Close() //nolint:errcheck

			deck := historyDeck
			if deck != "" {
				if _, err := os.Stat(deck); err == nil {
					deck, _ = filepath.Abs(deck)
				}
			}

			attempts, err := store.Recent(cmd.Context(), historyLimit, deck)
			if err != nil {
				return fmt.Errorf("unable to read history: %w", err)
			}
			if len(attempts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faint("No attempts yet."))
				return nil
			}
			for _, a := range attempts {
				fmt.Fprintln(cmd.OutOrStdout(), attemptLine(a))
			}
			return nil
		},
	}
)

func attemptLine(a history.Attempt) string {
	name := filepath.Base(a.Deck)
	name = runewidth.FillRight(truncate.StringWithTail(name, deckColumnWidth, "…"), deckColumnWidth)

	score := fmt.Sprintf("%3d%%", a.Score)
	if a.Score >= 50 {
		score = good(score)
	} else {
		score = bad(score)
	}
	return fmt.Sprintf("%s %s %s %s",
		score,
		name,
		faint(fmt.Sprintf("%d/%d in %s", a.Correct, a.Total, a.Duration().Round(time.Second))),
		faint(humanize.Time(a.CompletedAt)))
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of attempts to show")
	historyCmd.Flags().StringVarP(&historyDeck, "deck", "d", "", "only show attempts at this deck")
}
