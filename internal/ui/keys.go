package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search key.Binding
	Submit key.Binding
	Cancel key.Binding
	Prev   key.Binding
	Next   key.Binding
	Cycle  key.Binding
	Play   key.Binding
	Close  key.Binding
	Clear  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
		Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Cycle:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "move")),
		Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play trailer")),
		Close:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close trailer")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear recent")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Submit, k.Prev, k.Next, k.Play, k.Close, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Submit, k.Cancel},
		{k.Prev, k.Next, k.Cycle},
		{k.Play, k.Close, k.Clear},
		{k.Help, k.Quit},
	}
}
