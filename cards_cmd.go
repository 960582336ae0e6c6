package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/flashcard"
	"github.com/dgnsrekt/lingo/ui"
)

var (
	cardsShuffle bool

	cardsCmd = &cobra.Command{
		Use:     "cards DECK",
		Short:   "Review flashcards",
		Long:    paragraph(fmt.Sprintf("\nFlip through a deck's %s, marking the ones you know.", keyword("flashcards"))),
		Example: paragraph("lingo cards verbs.toml"),
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return deckExtensions(), cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCards(cmd.Context(), args[0])
		},
	}
)

func runCards(ctx context.Context, path string) error {
	d, err := content.Load(path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("%s has no cards, try %s", d.Path, keyword("lingo quiz"))
	}
	if cardsShuffle {
		d.Shuffle(newRand())
	}

	deck, err := flashcard.New(d.Flashcards())
	if err != nil {
		return fmt.Errorf("unable to build deck: %w", err)
	}

	cfg, err := newUIConfig(d.Title)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client, cleanup, err := newSpeechClient()
	if err != nil {
		return err
	}
	defer cleanup()
	watchSpeechConfig(ctx, client)

	m := ui.NewCardsModel(cfg, deck, client)
	if _, err := ui.NewProgram(cfg, m).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	fmt.Println(paragraph(fmt.Sprintf("\n%s %s",
		keyword(fmt.Sprintf("%d/%d", deck.Known(), deck.Len())),
		faint("cards known"))))
	return nil
}

func init() {
	cardsCmd.Flags().BoolVar(&cardsShuffle, "shuffle", false, "shuffle card order")
}
