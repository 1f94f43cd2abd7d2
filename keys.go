package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Flip   key.Binding
	Easy   key.Binding
	Medium key.Binding
	Hard   key.Binding
	Cycle  key.Binding
	Start  key.Binding
	Replay key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Flip:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "flip")),
		Easy:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "easy")),
		Medium: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "medium")),
		Hard:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "hard")),
		Cycle:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "difficulty")),
		Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Replay: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "replay")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Start, k.Replay, k.Cycle, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Flip, k.Start, k.Replay},
		{k.Easy, k.Medium, k.Hard, k.Cycle},
		{k.Help, k.Quit},
	}
}
