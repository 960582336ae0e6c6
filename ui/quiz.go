package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dgnsrekt/lingo/internal/quiz"
	"github.com/dgnsrekt/lingo/internal/speech"
)

const idColumnWidth = 12

// QuizModel runs a quiz session in the terminal. The session's per-question
// budget is enforced with a countdown; when it runs out the question is
// expired.
type QuizModel struct {
	cfg     Config
	session *quiz.Session
	speaker Speaker

	keys     quizKeyMap
	help     help.Model
	timer    timer.Model
	progress progress.Model

	width int

	speed       *speech.SpeedControl
	speaking    bool
	status      string
	explanation string // rendered explanation of the locked question
	result      *quiz.Result
	onComplete  func(quiz.Result)
}

// NewQuizModel returns a model for s. speaker may be nil. onComplete, when
// set, is called once with the final result.
func NewQuizModel(cfg Config, s *quiz.Session, speaker Speaker, onComplete func(quiz.Result)) QuizModel {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	m := QuizModel{
		cfg:        cfg,
		session:    s,
		speaker:    speaker,
		keys:       newQuizKeyMap(),
		help:       help.New(),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		speed:      newSpeedControl(cfg),
		onComplete: onComplete,
	}
	m.progress.Width = 40
	m.timer = m.newTimer()
	return m
}

// Result returns the final result once the quiz is complete.
func (m QuizModel) Result() (quiz.Result, bool) {
	if m.result == nil {
		return quiz.Result{}, false
	}
	return *m.result, true
}

func (m QuizModel) newTimer() timer.Model {
	budget := time.Duration(m.session.TimeBudgetSeconds()) * time.Second
	return timer.NewWithInterval(budget, m.cfg.TickInterval)
}

// Init starts the countdown for the first question.
func (m QuizModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.timer.Init()}
	if m.cfg.AutoSpeak {
		if q, ok := m.session.CurrentQuestion(); ok {
			cmds = append(cmds, speakCmd(m.speaker, q.SpeechText(), speech.WithSpeed(m.speed.Speed())))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(60, msg.Width-16))
		return m, nil

	case timer.TickMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.StartStopMsg:
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case timer.TimeoutMsg:
		if msg.ID != m.timer.ID() {
			return m, nil
		}
		return m.expire()

	case spokeMsg:
		m.speaking = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m QuizModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Faster):
		m.speed.Faster()
		m.status = "Speed " + m.speed.String()
		return m, nil
	case key.Matches(msg, m.keys.Slower):
		m.speed.Slower()
		m.status = "Speed " + m.speed.String()
		return m, nil
	}

	if m.result != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Answer):
		return m.answer(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Next):
		return m.next()
	case key.Matches(msg, m.keys.Speak):
		if q, ok := m.session.CurrentQuestion(); ok {
			return m.speak(q.SpeechText())
		}
	case key.Matches(msg, m.keys.Explain):
		if q, ok := m.session.CurrentQuestion(); ok && m.session.State() == quiz.StateQuestionLocked {
			return m.speak(speech.PlainText(q.Explanation))
		}
	}
	return m, nil
}

func (m QuizModel) answer(idx int) (tea.Model, tea.Cmd) {
	if m.session.State() != quiz.StateInProgress {
		return m, nil
	}
	rec, err := m.session.SelectAnswer(idx)
	if errors.Is(err, quiz.ErrInvalidAnswerIndex) {
		m.status = fmt.Sprintf("No option %d", idx+1)
		return m, nil
	}
	if err != nil {
		log.Error("select answer", "error", err)
		m.status = err.Error()
		return m, nil
	}
	m.lock(rec)
	return m, m.timer.Stop()
}

func (m QuizModel) expire() (tea.Model, tea.Cmd) {
	if m.session.State() != quiz.StateInProgress {
		return m, nil
	}
	rec, err := m.session.ExpireCurrentQuestion()
	if err != nil {
		log.Error("expire question", "error", err)
		return m, nil
	}
	m.lock(rec)
	return m, nil
}

// lock records the outcome of the current question in the view.
func (m *QuizModel) lock(rec quiz.AnswerRecord) {
	switch {
	case rec.TimedOut():
		m.status = "Time's up!"
	case rec.IsCorrect:
		m.status = "Correct!"
	default:
		m.status = "Not quite."
	}

	m.explanation = ""
	q, ok := m.session.CurrentQuestion()
	if !ok || q.Explanation == "" {
		return
	}
	out, err := renderMarkdown(m.cfg, q.Explanation, m.width)
	if err != nil {
		log.Debug("render explanation", "error", err)
	}
	m.explanation = out
}

func (m QuizModel) next() (tea.Model, tea.Cmd) {
	if m.session.State() != quiz.StateQuestionLocked {
		return m, nil
	}
	if err := m.session.Advance(); err != nil {
		log.Error("advance", "error", err)
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.explanation = ""

	if m.session.State() == quiz.StateComplete {
		res, err := m.session.Result()
		if err != nil {
			log.Error("result", "error", err)
			return m, nil
		}
		m.result = &res
		if m.onComplete != nil {
			m.onComplete(res)
		}
		return m, nil
	}

	m.timer = m.newTimer()
	cmds := []tea.Cmd{m.timer.Init()}
	if m.cfg.AutoSpeak {
		if q, ok := m.session.CurrentQuestion(); ok {
			var cmd tea.Cmd
			m, cmd = m.speak(q.SpeechText())
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// speak starts speech unless something is already being spoken.
func (m QuizModel) speak(text string) (QuizModel, tea.Cmd) {
	if m.speaking || m.speaker == nil || strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.speaking = true
	return m, speakCmd(m.speaker, text, speech.WithSpeed(m.speed.Speed()))
}

// View renders the model.
func (m QuizModel) View() string {
	if m.result != nil {
		return docStyle.Render(m.resultView())
	}

	q, ok := m.session.CurrentQuestion()
	if !ok {
		return ""
	}
	width := wrapWidth(m.cfg, m.width)
	state := m.session.State()

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if state == quiz.StateInProgress {
		budget := time.Duration(m.session.TimeBudgetSeconds()) * time.Second
		b.WriteString(m.progress.ViewAs(float64(m.timer.Timeout) / float64(budget)))
		b.WriteString(" " + counterStyle(m.timer.View()))
	} else if rec, ok := m.session.PendingRecord(); ok && rec.TimedOut() {
		b.WriteString(timeoutStyle("time's up"))
	} else {
		b.WriteString(counterStyle("answered"))
	}
	b.WriteString("\n\n")

	b.WriteString(promptStyle(wordwrap.String(q.Prompt, width)))
	b.WriteString("\n\n")

	rec, locked := m.session.PendingRecord()
	selected, hasSelection := rec.Selected()
	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		switch {
		case !locked:
			b.WriteString(optionStyle("  " + line))
		case i == q.CorrectOptionIndex:
			b.WriteString(correctStyle("✓ " + line))
		case hasSelection && i == selected:
			b.WriteString(wrongStyle("✗ " + line))
		default:
			b.WriteString(optionStyle("  " + faintStyle(line)))
		}
		b.WriteString("\n")
	}

	if m.explanation != "" {
		b.WriteString("\n")
		b.WriteString(m.explanation)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle(m.status))
		if locked {
			b.WriteString(" " + faintStyle("press enter to continue"))
		}
		b.WriteString("\n")
	}
	if m.speaking {
		b.WriteString(speakingStyle("♪ speaking…") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m QuizModel) header() string {
	title := m.cfg.Title
	if title == "" {
		title = "Quiz"
	}
	counter := fmt.Sprintf("Question %d of %d", m.session.CurrentIndex()+1, m.session.Len())
	return titleStyle(title) + "  " + counterStyle(counter)
}

func (m QuizModel) resultView() string {
	res := *m.result
	questions := m.session.Questions()

	var b strings.Builder
	b.WriteString(m.headerComplete())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s  %d of %d correct\n\n", scoreStyle(fmt.Sprintf("%d%%", res.Score)), res.Correct, res.Total)

	for i, r := range res.Records {
		id := runewidth.FillRight(truncate.StringWithTail(r.QuestionID, idColumnWidth, ellipsis), idColumnWidth)

		var mark, answer string
		switch {
		case r.TimedOut():
			mark, answer = timeoutStyle("⏱"), timeoutStyle("timed out")
		case r.IsCorrect:
			mark = correctStyle("✓")
		default:
			mark = wrongStyle("✗")
		}
		if idx, ok := r.Selected(); ok && i < len(questions) {
			answer = questions[i].Options[idx]
		}
		fmt.Fprintf(&b, "%s %s %s %s\n", mark, id, counterStyle(fmt.Sprintf("%3ds", r.ElapsedSeconds)), answer)
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(quitOnlyKeys{m.keys}))
	return b.String()
}

func (m QuizModel) headerComplete() string {
	title := m.cfg.Title
	if title == "" {
		title = "Quiz"
	}
	return titleStyle(title) + "  " + counterStyle("complete")
}

// quitOnlyKeys is the help shown on the result screen.
type quitOnlyKeys struct{ k quizKeyMap }

func (q quitOnlyKeys) ShortHelp() []key.Binding  { return []key.Binding{q.k.Quit} }
func (q quitOnlyKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{q.k.Quit}} }
