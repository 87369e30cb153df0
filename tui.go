//go:build !gui

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/metcalfc/flash/internal/config"
	"github.com/metcalfc/flash/internal/reader"
)

var (
	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	speedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAFF")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	warningTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFAA00")).
				Bold(true)

	warningTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC")).
				Align(lipgloss.Center)
)

type changedMsg struct{}

type model struct {
	reader *reader.Reader
	state  reader.State

	// changed is signalled by the reader; a pending signal already covers
	// any later change because the model re-reads the full state.
	changed chan struct{}

	keys     keyMap
	help     help.Model
	progress progress.Model
	input    textarea.Model
	orpStyle lipgloss.Style

	// warning is shown until the first key press. autoPlay waits for it.
	warning  bool
	autoPlay bool

	quitting bool
	width    int
	height   int
}

func newModel(r *reader.Reader, cfg config.Config) model {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the text to read..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Focus()

	m := model{
		reader:   r,
		state:    r.State(),
		changed:  make(chan struct{}, 1),
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		input:    ta,
		orpStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.HighlightColor)),
		warning:  true,
		autoPlay: cfg.AutoPlay,
		width:    80,
		height:   24,
	}
	m.resize()
	return m
}

// watch forwards reader changes to the model without ever blocking the
// reader.
func (m model) watch() (cancel func()) {
	return m.reader.Subscribe(func(reader.State) {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changed), textarea.Blink)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case changedMsg:
		m.state = m.reader.State()
		return m, waitForChange(m.changed)

	case tea.KeyMsg:
		if m.warning {
			return m.dismissWarning(msg)
		}
		if m.state.Status() == reader.StatusEmpty {
			return m.updateInput(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if cmd := m.keys.command(msg); cmd != reader.CmdNone {
			log.Debug("key command", "key", msg.String(), "command", cmd)
			m.reader.Do(cmd)
			m.state = m.reader.State()
			if cmd == reader.CmdReset {
				m.input.Reset()
				focus := m.input.Focus()
				return m, focus
			}
		}
		return m, nil
	}

	if m.state.Status() == reader.StatusEmpty {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) dismissWarning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}
	m.warning = false
	if m.autoPlay {
		m.reader.Play()
		m.state = m.reader.State()
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		if strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		m.reader.Load(m.input.Value())
		m.state = m.reader.State()
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) resize() {
	m.help.Width = m.width
	m.progress.Width = max(10, m.width-4)
	m.input.SetWidth(max(20, m.width-4))
	m.input.SetHeight(max(3, m.height-6))
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.warning {
		return m.warningView()
	}
	if m.state.Status() == reader.StatusEmpty {
		return m.inputView()
	}

	status := statusStyle.Render(statusLine(m.state))
	controls := m.help.View(m.keys)
	bar := "  " + m.progress.ViewAs(m.state.Progress)

	// Reserve lines for status at top and progress plus help at the bottom.
	footer := lipgloss.Height(controls) + 1
	avail := max(1, m.height-1-footer)
	vPad := avail / 2

	var sb strings.Builder

	sb.WriteString(status)
	sb.WriteString("\n")

	for i := 0; i < vPad; i++ {
		sb.WriteString("\n")
	}

	if m.state.Word != nil {
		w := *m.state.Word
		sb.WriteString(anchorORPText(formatWord(w, m.orpStyle), w, m.width))
	}

	for i := 0; i < avail-vPad; i++ {
		sb.WriteString("\n")
	}

	sb.WriteString(bar)
	sb.WriteString("\n")
	sb.WriteString(controls)

	return sb.String()
}

func (m model) inputView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("flash"))
	sb.WriteString(statusStyle.Render(fmt.Sprintf("%d WPM", m.state.WPM)))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(inputKeyMap{m.keys}))
	return sb.String()
}

func (m model) warningView() string {
	width := min(60, max(20, m.width-4))
	block := lipgloss.JoinVertical(lipgloss.Center,
		warningTitleStyle.Render("⚠ "+warningTitle),
		"",
		warningTextStyle.Width(width).Render(warningBody),
		"",
		statusStyle.Width(width).Align(lipgloss.Center).Render(warningDetail()),
		"",
		pausedStyle.Render("press any key: "+warningAccept),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, block)
}

func statusLine(st reader.State) string {
	line := fmt.Sprintf("Word %s/%s | %d WPM",
		humanize.Comma(int64(st.Index+1)),
		humanize.Comma(int64(st.Count)),
		st.WPM,
	)
	switch {
	case st.SpeedIndicator:
		line += speedStyle.Render(fmt.Sprintf(" [%d WPM]", st.WPM))
	case st.Playing:
	case st.AtEnd():
		line += completeStyle.Render(" Reading complete!")
	default:
		line += pausedStyle.Render(" [PAUSED]")
	}
	return line
}

func formatWord(w reader.Word, orpStyle lipgloss.Style) string {
	return wordStyle.Render(w.Before()) +
		orpStyle.Render(w.Focus()) +
		wordStyle.Render(w.After())
}

// anchorORPText pads text so the ORP character of w lands on the middle
// column.
func anchorORPText(text string, w reader.Word, width int) string {
	anchor := width / 2
	pad := max(0, anchor-runewidth.StringWidth(w.Before()))
	return strings.Repeat(" ", pad) + text
}

// runUI starts the terminal front-end on the photosensitivity warning. An
// empty reader then opens on the text input.
func runUI(r *reader.Reader, cfg config.Config) error {
	m := newModel(r, cfg)
	stop := m.watch()
	defer stop()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}
