//go:build !gui

package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/flash/internal/reader"
)

type keyMap struct {
	Toggle      key.Binding
	SpeedUp     key.Binding
	SpeedDown   key.Binding
	SkipBack    key.Binding
	SkipForward key.Binding
	Reset       key.Binding
	Help        key.Binding
	Quit        key.Binding

	// Empty state only.
	Submit key.Binding
	Clear  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		SpeedUp: key.NewBinding(
			key.WithKeys("up", "+", "="),
			key.WithHelp("↑", "faster"),
		),
		SpeedDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "slower"),
		),
		SkipBack: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "back"),
		),
		SkipForward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward"),
		),
		Reset: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "new text"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "read"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
	}
}

// command returns the engine command bound to msg, if any.
func (k keyMap) command(msg tea.KeyMsg) reader.Command {
	pairs := []struct {
		binding key.Binding
		cmd     reader.Command
	}{
		{k.Toggle, reader.CmdToggle},
		{k.SpeedUp, reader.CmdSpeedUp},
		{k.SpeedDown, reader.CmdSpeedDown},
		{k.SkipBack, reader.CmdSkipBack},
		{k.SkipForward, reader.CmdSkipForward},
		{k.Reset, reader.CmdReset},
	}
	for _, p := range pairs {
		if key.Matches(msg, p.binding) {
			return p.cmd
		}
	}
	return reader.CmdNone
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.SpeedUp, k.SpeedDown, k.SkipBack, k.SkipForward, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset},
		{k.SpeedUp, k.SpeedDown},
		{k.SkipBack, k.SkipForward},
		{k.Help, k.Quit},
	}
}

type inputKeyMap struct{ keyMap }

func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Clear, k.Quit}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
