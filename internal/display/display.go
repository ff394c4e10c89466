// Package display provides the terminal panel emulator using Bubble
// Tea.
//
// The [UI] type paints the framebuffer with half-block cells (two
// panel rows per terminal row) above an input prompt. Lines typed at
// the prompt become live-text payloads, making the terminal a fourth
// ingestion source next to USB, NUS, and HTTP.
package display

import (
	"fmt"
	"image/color"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hkmoud/fogsign/internal/panel"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// BannerStyle — muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println] and read from [UI.InputChan] at any time after
// [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	fb      *panel.Framebuffer
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the emulator over the given framebuffer.
func NewUI(fb *panel.Framebuffer) *UI {
	return &UI{
		fb:      fb,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the panel. Thread-safe.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// InputChan returns completed prompt lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	ti := textinput.New()
	ti.Prompt = "text> "
	ti.PromptStyle = promptStyle
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	m := model{
		fb:      u.fb,
		input:   ti,
		inputCh: u.inputCh,
		readyCh: u.readyCh,
	}

	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	fb      *panel.Framebuffer
	input   textinput.Model
	inputCh chan<- string
	readyCh chan struct{}
	frame   []color.RGBA
	level   uint8
}

type frameMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		frameCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

// frameCmd repaints at roughly 30fps — plenty for a phrase board.
func frameCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
			}
			return m, nil
		}

	case frameMsg:
		m.frame = m.fb.Snapshot()
		m.level = m.fb.Brightness()
		return m, frameCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.renderPanel())
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render("enter sends a line to the panel — ctrl+c quits"))
	return b.String()
}

// renderPanel paints two panel rows per terminal row using the upper
// half block, foreground for the top pixel and background for the
// bottom one.
func (m model) renderPanel() string {
	w, h := m.fb.Width(), m.fb.Height()
	if len(m.frame) < w*h {
		return frameStyle.Render("(waiting for first frame)")
	}

	var b strings.Builder
	border := frameStyle.Render("+" + strings.Repeat("-", w) + "+")
	b.WriteString(border)
	b.WriteByte('\n')

	for y := 0; y < h; y += 2 {
		b.WriteString(frameStyle.Render("|"))
		for x := 0; x < w; x++ {
			top := m.scaled(m.frame[y*w+x])
			bottom := panel.Off
			if y+1 < h {
				bottom = m.scaled(m.frame[(y+1)*w+x])
			}
			cell := lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom))
			b.WriteString(cell.Render("▀"))
		}
		b.WriteString(frameStyle.Render("|"))
		b.WriteByte('\n')
	}
	b.WriteString(border)
	return b.String()
}

// scaled applies the panel's global brightness to a pixel.
func (m model) scaled(c color.RGBA) color.RGBA {
	l := uint16(m.level)
	return color.RGBA{
		R: uint8(uint16(c.R) * l / 255),
		G: uint8(uint16(c.G) * l / 255),
		B: uint8(uint16(c.B) * l / 255),
		A: 0xff,
	}
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
