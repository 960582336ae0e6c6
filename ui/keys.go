package ui

import "github.com/charmbracelet/bubbles/key"

type quizKeyMap struct {
	Answer  key.Binding
	Next    key.Binding
	Speak   key.Binding
	Explain key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func fasterBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "faster speech"),
	)
}

func slowerBinding() key.Binding {
	return key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "slower speech"),
	)
}

func newQuizKeyMap() quizKeyMap {
	return quizKeyMap{
		Answer: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "answer"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "next"),
		),
		Speak: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "speak question"),
		),
		Explain: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "speak explanation"),
		),
		Faster: fasterBinding(),
		Slower: slowerBinding(),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k quizKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Answer, k.Next, k.Help, k.Quit}
}

func (k quizKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Answer, k.Next},
		{k.Speak, k.Explain},
		{k.Faster, k.Slower},
		{k.Help, k.Quit},
	}
}

type cardKeyMap struct {
	Flip    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Known   key.Binding
	Unknown key.Binding
	Shuffle key.Binding
	Speak   key.Binding
	Copy    key.Binding
	Faster  key.Binding
	Slower  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newCardKeyMap() cardKeyMap {
	return cardKeyMap{
		Flip: key.NewBinding(
			key.WithKeys(" ", "f"),
			key.WithHelp("space", "flip"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←", "prev"),
		),
		Known: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "known"),
		),
		Unknown: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unknown"),
		),
		Shuffle: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "shuffle"),
		),
		Speak: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "speak"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy answer"),
		),
		Faster: fasterBinding(),
		Slower: slowerBinding(),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k cardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Next, k.Known, k.Help, k.Quit}
}

func (k cardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Next, k.Prev},
		{k.Known, k.Unknown, k.Shuffle},
		{k.Speak, k.Copy},
		{k.Faster, k.Slower},
		{k.Help, k.Quit},
	}
}
