//go:build gui

package main

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/metcalfc/flash/internal/config"
	"github.com/metcalfc/flash/internal/reader"
)

// guiCommands maps the desktop keys onto engine commands.
var guiCommands = map[fyne.KeyName]reader.Command{
	fyne.KeySpace:  reader.CmdToggle,
	fyne.KeyUp:     reader.CmdSpeedUp,
	fyne.KeyDown:   reader.CmdSpeedDown,
	fyne.KeyLeft:   reader.CmdSkipBack,
	fyne.KeyRight:  reader.CmdSkipForward,
	fyne.KeyEscape: reader.CmdReset,
}

const guiControls = "SPACE: pause  ↑/↓: speed  ←/→: skip  ESC: new text  ?: help  Q: quit"

const guiExtraHelp = `+/-      font size
F        fullscreen`

// gui is the desktop front-end. Exactly one of its three pages is visible:
// the warning until it is accepted, then the paste page while the reader is
// empty and the word page otherwise.
type gui struct {
	app    fyne.App
	win    fyne.Window
	reader *reader.Reader

	fontSize  float32
	highlight color.Color
	autoPlay  bool
	warning   bool

	warningPage *fyne.Container
	inputPage   *fyne.Container
	readerPage  *fyne.Container

	input         *widget.Entry
	status        *widget.Label
	help          *widget.Label
	progress      *widget.ProgressBar
	wordContainer *fyne.Container
}

func newGUI(a fyne.App, r *reader.Reader, cfg config.Config) *gui {
	g := &gui{
		app:       a,
		win:       a.NewWindow("flash - Speed Reader"),
		reader:    r,
		fontSize:  cfg.FontSize,
		highlight: parseHexColor(cfg.HighlightColor),
		autoPlay:  cfg.AutoPlay,
		warning:   true,
	}

	g.warningPage = g.buildWarningPage()
	g.inputPage = g.buildInputPage()
	g.readerPage = g.buildReaderPage()

	g.win.SetContent(container.NewStack(g.warningPage, g.inputPage, g.readerPage))
	g.win.Canvas().SetOnTypedKey(g.typedKey)
	g.win.Canvas().SetOnTypedRune(g.typedRune)
	g.win.SetOnClosed(r.Close)
	g.win.Resize(fyne.NewSize(800, 600))

	g.refresh()
	return g
}

func (g *gui) buildWarningPage() *fyne.Container {
	title := widget.NewLabelWithStyle("⚠ "+warningTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	body := widget.NewLabel(warningBody)
	body.Alignment = fyne.TextAlignCenter
	body.Wrapping = fyne.TextWrapWord

	detail := widget.NewLabel(warningDetail())
	detail.Alignment = fyne.TextAlignCenter
	detail.Wrapping = fyne.TextWrapWord
	detail.Importance = widget.LowImportance

	accept := widget.NewButton(warningAccept, g.dismissWarning)
	accept.Importance = widget.HighImportance

	return container.NewVBox(
		layout.NewSpacer(),
		title,
		body,
		detail,
		container.NewCenter(accept),
		layout.NewSpacer(),
	)
}

func (g *gui) buildInputPage() *fyne.Container {
	g.input = widget.NewMultiLineEntry()
	g.input.SetPlaceHolder("Paste or type the text to read...")
	g.input.Wrapping = fyne.TextWrapWord
	g.input.OnSubmitted = func(string) { g.submit() }

	title := widget.NewLabelWithStyle("flash", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	read := widget.NewButton("Read", g.submit)
	read.Importance = widget.HighImportance
	clearText := widget.NewButton("Clear", func() { g.input.SetText("") })

	return container.NewBorder(
		title,
		container.NewHBox(layout.NewSpacer(), clearText, read),
		nil, nil,
		g.input,
	)
}

func (g *gui) buildReaderPage() *fyne.Container {
	g.status = widget.NewLabel("")
	g.status.Alignment = fyne.TextAlignCenter

	controls := widget.NewLabel(guiControls)
	controls.Alignment = fyne.TextAlignCenter

	g.help = widget.NewLabel(controlsHelp + "\n" + guiExtraHelp)
	g.help.TextStyle = fyne.TextStyle{Monospace: true}
	g.help.Hide()

	g.progress = widget.NewProgressBar()
	g.progress.TextFormatter = func() string { return "" }

	g.wordContainer = container.NewStack()

	return container.NewBorder(
		g.status,
		container.NewVBox(g.progress, controls),
		nil, nil,
		container.NewStack(g.wordContainer, container.NewCenter(g.help)),
	)
}

// showPage makes p the only visible page.
func (g *gui) showPage(p *fyne.Container) {
	for _, page := range []*fyne.Container{g.warningPage, g.inputPage, g.readerPage} {
		if page == p {
			page.Show()
		} else {
			page.Hide()
		}
	}
}

// refresh redraws the window from the reader state. It must run on the UI
// goroutine.
func (g *gui) refresh() {
	st := g.reader.State()

	switch {
	case g.warning:
		g.showPage(g.warningPage)
		return
	case st.Status() == reader.StatusEmpty:
		entering := !g.inputPage.Visible()
		g.showPage(g.inputPage)
		if entering {
			g.win.Canvas().Focus(g.input)
		}
		return
	}
	g.showPage(g.readerPage)

	canvasWidth := g.win.Canvas().Size().Width
	if canvasWidth <= 0 {
		canvasWidth = 800
	}

	g.wordContainer.Objects = nil
	if st.Word != nil {
		g.wordContainer.Objects = []fyne.CanvasObject{
			createWordDisplay(*st.Word, g.fontSize, canvasWidth, g.highlight),
		}
	}
	g.wordContainer.Refresh()

	g.progress.SetValue(st.Progress)
	g.status.SetText(statusText(st, g.fontSize))
}

func (g *gui) dismissWarning() {
	if !g.warning {
		return
	}
	g.warning = false
	if g.autoPlay {
		g.reader.Play()
	}
	g.refresh()
}

// submit loads the pasted text. Blank text keeps the paste page open.
func (g *gui) submit() {
	if strings.TrimSpace(g.input.Text) == "" {
		return
	}
	g.reader.Load(g.input.Text)
	g.win.Canvas().Unfocus()
	g.refresh()
}

func (g *gui) toggleHelp() {
	if g.help.Visible() {
		g.help.Hide()
	} else {
		g.help.Show()
	}
}

// typedKey handles keys the focused widget did not consume. While the paste
// page is up the entry has focus, so this only sees playback keys.
func (g *gui) typedKey(key *fyne.KeyEvent) {
	if g.warning {
		g.dismissWarning()
		return
	}
	if g.reader.State().Status() == reader.StatusEmpty {
		return
	}

	if cmd, ok := guiCommands[key.Name]; ok {
		log.Debug("key command", "key", key.Name, "command", cmd)
		g.reader.Do(cmd)
		if cmd == reader.CmdReset {
			g.input.SetText("")
		}
		g.refresh()
		return
	}
	switch key.Name {
	case fyne.KeyF:
		g.win.SetFullScreen(!g.win.FullScreen())
	case fyne.KeyQ:
		g.app.Quit()
	}
}

func (g *gui) typedRune(ch rune) {
	if g.warning || g.reader.State().Status() == reader.StatusEmpty {
		return
	}
	switch ch {
	case '?':
		g.toggleHelp()
	case '+', '=':
		if g.fontSize < 200 {
			g.fontSize += 5
			g.refresh()
		}
	case '-':
		if g.fontSize > 20 {
			g.fontSize -= 5
			g.refresh()
		}
	}
}

// parseHexColor reads #RRGGBB, falling back to red.
func parseHexColor(s string) color.Color {
	red := color.RGBA{R: 255, A: 255}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return red
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return red
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func createWordDisplay(w reader.Word, fontSize float32, windowWidth float32, highlight color.Color) *fyne.Container {
	beforeText := canvas.NewText(w.Before(), color.White)
	beforeText.TextSize = fontSize
	beforeText.TextStyle.Bold = true

	focusText := canvas.NewText(w.Focus(), highlight)
	focusText.TextSize = fontSize
	focusText.TextStyle.Bold = true

	afterText := canvas.NewText(w.After(), color.White)
	afterText.TextSize = fontSize
	afterText.TextStyle.Bold = true

	beforeSize := beforeText.MinSize()
	focusSize := focusText.MinSize()

	// Horizontal: anchor ORP at center
	centerX := windowWidth / 2
	beforeX := max(0, centerX-beforeSize.Width)
	focusX := centerX
	afterX := centerX + focusSize.Width

	c := &fyne.Container{
		Layout: &centerVerticalLayout{},
		Objects: []fyne.CanvasObject{
			beforeText,
			focusText,
			afterText,
		},
	}

	beforeText.Move(fyne.NewPos(beforeX, 0))
	focusText.Move(fyne.NewPos(focusX, 0))
	afterText.Move(fyne.NewPos(afterX, 0))

	return c
}

type centerVerticalLayout struct{}

func (l *centerVerticalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(0, maxHeight(objects))
}

func (l *centerVerticalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	y := max(0, (size.Height-maxHeight(objects))/2)

	// X is set when the word is built.
	for _, o := range objects {
		pos := o.Position()
		o.Move(fyne.NewPos(pos.X, y))
		o.Resize(o.MinSize())
	}
}

func maxHeight(objects []fyne.CanvasObject) float32 {
	var h float32
	for _, o := range objects {
		h = max(h, o.MinSize().Height)
	}
	return h
}

func statusText(st reader.State, fontSize float32) string {
	if st.Status() == reader.StatusEmpty {
		return fmt.Sprintf("No text | %d WPM | Font: %.0f", st.WPM, fontSize)
	}
	line := fmt.Sprintf("Word %s/%s | %d WPM | Font: %.0f",
		humanize.Comma(int64(st.Index+1)), humanize.Comma(int64(st.Count)), st.WPM, fontSize)
	switch {
	case st.SpeedIndicator:
		line += fmt.Sprintf(" [%d WPM]", st.WPM)
	case st.Playing:
	case st.AtEnd():
		line += " [DONE]"
	default:
		line += " [PAUSED]"
	}
	return line
}

// runUI starts the desktop front-end on the photosensitivity warning.
func runUI(r *reader.Reader, cfg config.Config) error {
	g := newGUI(app.New(), r, cfg)

	stop := r.Subscribe(func(reader.State) {
		fyne.Do(g.refresh)
	})
	defer stop()

	// Redraw once the window has a size.
	g.app.Lifecycle().SetOnStarted(func() {
		fyne.Do(g.refresh)
	})

	g.win.ShowAndRun()
	return nil
}
