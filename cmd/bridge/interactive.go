package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/scriptbridge/config"
	"github.com/wippyai/scriptbridge/host"
	"github.com/wippyai/scriptbridge/irc"
)

const maxLines = 500

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// lineBuffer collects host and log output for the TUI.
type lineBuffer struct {
	mu      sync.Mutex
	lines   []string
	partial string
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.partial + string(p)
	parts := strings.Split(text, "\n")
	b.partial = parts[len(parts)-1]
	b.lines = append(b.lines, parts[:len(parts)-1]...)
	if over := len(b.lines) - maxLines; over > 0 {
		b.lines = b.lines[over:]
	}
	return len(p), nil
}

func (b *lineBuffer) tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.lines) {
		n = len(b.lines)
	}
	out := make([]string, n)
	copy(out, b.lines[len(b.lines)-n:])
	return out
}

type interactiveModel struct {
	err     error
	host    *host.Host
	console *console
	out     *lineBuffer
	input   textinput.Model
	height  int
	width   int
}

func newInteractiveModel(h *host.Host, c *console, out *lineBuffer) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "help"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		host:    h,
		console: c,
		out:     out,
		input:   ti,
		height:  24,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "enter":
			line := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(line) == "" {
				return m, nil
			}
			fmt.Fprintln(m.out, "> "+line)
			quit, err := m.console.exec(context.Background(), line)
			m.err = err
			if quit {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Script Bridge"))
	b.WriteString(" ")
	b.WriteString(m.status())
	b.WriteString("\n\n")

	logHeight := m.height - 8
	if logHeight < 5 {
		logHeight = 5
	}
	log := strings.Join(m.out.tail(logHeight), "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, log, "  ", panelStyle.Render(m.dccPanel())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • help commands • ctrl+c quit"))
	return b.String()
}

func (m *interactiveModel) status() string {
	core := m.host.Core()
	return fmt.Sprintf("scripts: %d • commands: %d • dcc: %d • servers: %d",
		len(m.host.Scripts()),
		m.host.Commands().Len(),
		core.Len(irc.KindDCC),
		core.Len(irc.KindServer))
}

func (m *interactiveModel) dccPanel() string {
	if len(m.console.proxies) == 0 {
		return helpStyle.Render("no DCC proxies")
	}
	lines := make([]string, 0, len(m.console.proxies))
	for i, d := range m.console.proxies {
		line := fmt.Sprintf("%d %s", i, describeDCC(d))
		if d.Valid() {
			lines = append(lines, liveStyle.Render(line))
		} else {
			lines = append(lines, deadStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func runInteractive(cfg *config.Config, demo bool) error {
	ctx := context.Background()
	out := &lineBuffer{}

	logger, err := newLogger(cfg.Log, out)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	setLoggers(logger)

	h, c, err := start(ctx, cfg, demo, out)
	if err != nil {
		return err
	}
	defer func() {
		c.close()
		h.Close(ctx)
	}()

	p := tea.NewProgram(newInteractiveModel(h, c, out), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
