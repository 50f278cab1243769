package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/telnetkit/telnetkit/telnet"
	"github.com/telnetkit/telnetkit/text"
)

var (
	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
	echoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// serverLineMsg carries one decoded line of output from the session's
// Reader up into the bubbletea event loop.
type serverLineMsg string

// sessionClosedMsg reports the session ended, by error or by peer close.
type sessionClosedMsg struct{ err error }

// model is the demo client's TUI: a scrollback viewport over an input
// line, reduced to what a protocol demo needs (a single pane, no slash
// commands, no multi-pane layout).
type model struct {
	vp     viewport.Model
	input  textinput.Model
	lines  []string
	writer *telnet.SessionWriter
	lines_ <-chan string
	errCh  <-chan error
	addr   string
	done   bool
}

func newModel(addr string, writer *telnet.SessionWriter, lineCh <-chan string, errCh <-chan error) model {
	ti := textinput.New()
	ti.Placeholder = "type a line and press enter..."
	ti.Focus()
	ti.Width = 80

	vp := viewport.New(80, 20)

	return model{
		vp:     vp,
		input:  ti,
		writer: writer,
		lines_: lineCh,
		errCh:  errCh,
		addr:   addr,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForLine(m.lines_, m.errCh))
}

func waitForLine(lineCh <-chan string, errCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case line, ok := <-lineCh:
			if !ok {
				return sessionClosedMsg{}
			}
			return serverLineMsg(line)
		case err := <-errCh:
			return sessionClosedMsg{err: err}
		}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = msg.Height - 3
		m.input.Width = msg.Width - 2
		if m.writer != nil {
			m.writer.SendNAWS(telnet.NAWS{Cols: uint16(msg.Width), Rows: uint16(msg.Height)})
		}
		m.refresh()
		return m, nil

	case serverLineMsg:
		m.lines = append(m.lines, text.FilterClearSequences(string(msg)))
		m.refresh()
		return m, waitForLine(m.lines_, m.errCh)

	case sessionClosedMsg:
		m.done = true
		note := "connection closed"
		if msg.err != nil {
			note = fmt.Sprintf("connection closed: %v", msg.err)
		}
		m.lines = append(m.lines, echoStyle.Render(note))
		m.refresh()
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.writer != nil {
				m.writer.Close()
			}
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			if m.writer != nil {
				_ = m.writer.Write(line + "\r\n")
			}
			m.lines = append(m.lines, echoStyle.Render("> "+line))
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refresh() {
	width := m.vp.Width
	if width <= 0 {
		width = 80
	}
	var wrapped []string
	for _, line := range m.lines {
		wrapped = append(wrapped, wrapWide(line, width)...)
	}
	m.vp.SetContent(strings.Join(wrapped, "\n"))
	m.vp.GotoBottom()
}

// wrapWide splits s into lines no wider than width display cells,
// counting CJK/wide runes as two cells rather than one.
func wrapWide(s string, width int) []string {
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if curWidth+rw > width && cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf(" telnetc %s ", m.addr))
	if m.done {
		status = statusStyle.Render(" telnetc (disconnected) ")
	}
	return status + "\n" + m.vp.View() + "\n" + m.input.View()
}
