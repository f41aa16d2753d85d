package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Send     key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	LineUp   key.Binding
	LineDown key.Binding
	Newest   key.Binding
	Prev     key.Binding
	Next     key.Binding
	Complete key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "older")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "newer")),
		LineUp:   key.NewBinding(key.WithKeys("ctrl+up", "alt+up"), key.WithHelp("ctrl+↑", "scroll up")),
		LineDown: key.NewBinding(key.WithKeys("ctrl+down", "alt+down"), key.WithHelp("ctrl+↓", "scroll down")),
		Newest:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "jump to newest")),
		Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous sent")),
		Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next sent")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete command")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	}
}

// helpText 汇总快捷键，供帮助浮层展示。
func (k keyMap) helpText() string {
	rows := [][]key.Binding{
		{k.Send, k.Prev, k.Next, k.Quit},
		{k.PageUp, k.PageDown, k.LineUp, k.LineDown, k.Newest},
		{k.Complete, k.Help},
	}
	var b strings.Builder
	b.WriteString("Keys\n")
	for _, row := range rows {
		parts := make([]string, 0, len(row))
		for _, binding := range row {
			h := binding.Help()
			parts = append(parts, h.Key+" "+h.Desc)
		}
		b.WriteString(strings.Join(parts, " • "))
		b.WriteString("\n")
	}
	b.WriteString("/copy • /find <text> • /delete [id] • /quit")
	return b.String()
}
