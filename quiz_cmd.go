package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/lingo/internal/content"
	"github.com/dgnsrekt/lingo/internal/history"
	"github.com/dgnsrekt/lingo/internal/quiz"
	"github.com/dgnsrekt/lingo/ui"
)

var (
	quizShuffle   bool
	quizTimeLimit int

	quizCmd = &cobra.Command{
		Use:     "quiz DECK",
		Short:   "Take a timed quiz",
		Long:    paragraph(fmt.Sprintf("\nTake a %s multiple-choice quiz. Each question locks when answered or when its time runs out.", keyword("timed"))),
		Example: paragraph("lingo quiz spanish.yaml\nlingo quiz --shuffle --time-limit 10 spanish.yaml"),
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return deckExtensions(), cobra.ShellCompDirectiveFilterFileExt
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(cmd.Context(), args[0])
		},
	}
)

func runQuiz(ctx context.Context, path string) error {
	d, err := content.Load(path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("%s has no questions, try %s", d.Path, keyword("lingo cards"))
	}
	if quizShuffle || settings.Quiz.Shuffle {
		d.Shuffle(newRand())
	}

	budget := d.TimeBudget(settings.Quiz.TimeLimit)
	if quizTimeLimit > 0 {
		budget = quizTimeLimit
	}
	session, err := quiz.New(d.Quiz(), budget)
	if err != nil {
		return fmt.Errorf("unable to start quiz: %w", err)
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

	store := openHistory()
	if store != nil {
		defer store.Close() //nolint:errcheck
	}

	deckPath, err := filepath.Abs(d.Path)
	if err != nil {
		deckPath = d.Path
	}

	startedAt := time.Now()
	var result *quiz.Result
	onComplete := func(res quiz.Result) {
		result = &res
		if store == nil {
			return
		}
		a := history.NewAttempt(deckPath, res, startedAt)
		if err := store.Save(ctx, a); err != nil {
			log.Error("Could not save attempt", "deck", deckPath, "err", err)
			return
		}
		log.Debug("Saved attempt", "id", a.ID, "score", res.Score)
	}

	m := ui.NewQuizModel(cfg, session, client, onComplete)
	if _, err := ui.NewProgram(cfg, m).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	if result != nil {
		fmt.Println(paragraph(fmt.Sprintf("\n%s %s",
			keyword(fmt.Sprintf("%d%%", result.Score)),
			faint(fmt.Sprintf("%d of %d correct", result.Correct, result.Total)))))
	}
	return nil
}

func init() {
	quizCmd.Flags().BoolVar(&quizShuffle, "shuffle", false, "shuffle question order")
	quizCmd.Flags().IntVarP(&quizTimeLimit, "time-limit", "t", 0, "seconds per question (overrides the deck)")
}
