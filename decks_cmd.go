package main

import (
	"fmt"
	"path/filepath"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/content"
)

var (
	decksAll    bool
	decksFilter string

	decksCmd = &cobra.Command{
		Use:     "decks [DIR]",
		Short:   "Find deck files",
		Long:    paragraph(fmt.Sprintf("\nFind %s in DIR (default: the working directory). Files ignored by git are skipped unless --all is set.", keyword("deck files"))),
		Example: paragraph("lingo decks\nlingo decks ~/decks --filter spanish"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			entries, err := content.Discover(dir, decksAll)
			if err != nil {
				return err //nolint:wrapcheck
			}
			entries = filterDecks(entries, decksFilter)

			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), faint("No decks found."))
				return nil
			}
			base, _ := filepath.Abs(dir)
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), deckLine(base, e))
			}
			return nil
		},
	}
)

func deckLine(base string, e content.Entry) string {
	path := e.Path
	if rel, err := filepath.Rel(base, e.Path); err == nil {
		path = rel
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s", bad(path), faint(e.Err.Error()))
	}

	desc := fmt.Sprintf("%d questions, %d cards", len(e.Deck.Questions), len(e.Deck.Cards))
	if lang := e.Deck.LanguageName(); lang != "" {
		desc = lang + ", " + desc
	}
	return fmt.Sprintf("%s %s %s", keyword(e.Deck.Title), path, faint(desc))
}

// filterDecks fuzzy-matches pattern against deck titles and paths.
func filterDecks(entries []content.Entry, pattern string) []content.Entry {
	if pattern == "" {
		return entries
	}
	targets := make([]string, len(entries))
	for i, e := range entries {
		targets[i] = e.Deck.Title + " " + filepath.Base(e.Path)
	}
	matches := fuzzy.Find(pattern, targets)
	out := make([]content.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index]
	}
	return out
}

func init() {
	decksCmd.Flags().BoolVarP(&decksAll, "all", "a", false, "include files ignored by git")
	decksCmd.Flags().StringVarP(&decksFilter, "filter", "f", "", "fuzzy filter by title or file name")
}
