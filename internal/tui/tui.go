// Package tui shows a lint report next to the annotated source in a scrollable
// terminal view.
package tui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/r9s-ai/pipelint/pkg/pipeconf"
	"github.com/r9s-ai/pipelint/pkg/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	markStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	gutterStyle = lipgloss.NewStyle().Faint(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

const chromeHeight = 3

type Model struct {
	title   string
	body    string
	vp      viewport.Model
	ready   bool
	width   int
	quitted bool
}

// NewModel builds the browser for one config. source may be empty when loading
// failed; the report then carries the load error.
func NewModel(path, source string, res pipeconf.Result) *Model {
	title := fmt.Sprintf("%s  errors=%d warnings=%d", path, len(res.Errors), len(res.Warnings))
	return &Model{
		title: title,
		body:  renderBody(source, res),
		width: 80,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		h := msg.Height - chromeHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.vp.SetContent(m.body)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = h
		}
		return m, nil
	}
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll  q quit", m.vp.ScrollPercent()*100)))
	return b.String()
}

// Body returns the full scrollable text.
func (m *Model) Body() string {
	return m.body
}

func renderBody(source string, res pipeconf.Result) string {
	var b strings.Builder
	_ = report.Print(&b, res)
	if source == "" {
		return b.String()
	}
	b.WriteString("\n")

	marked := map[int]struct{}{}
	for _, n := range MarkedLines(res) {
		marked[n] = struct{}{}
	}
	lines := strings.Split(strings.TrimRight(source, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))
	for i, line := range lines {
		n := i + 1
		mark := " "
		if _, ok := marked[n]; ok {
			mark = markStyle.Render(">")
		}
		b.WriteString(mark)
		b.WriteString(gutterStyle.Render(fmt.Sprintf(" %*d │ ", width, n)))
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// MarkedLines lists the 1-based lines that carry a finding, ascending.
func MarkedLines(res pipeconf.Result) []int {
	seen := map[int]struct{}{}
	var out []int
	for _, f := range append(append([]pipeconf.Finding{}, res.Errors...), res.Warnings...) {
		if f.Line <= 0 {
			continue
		}
		if _, ok := seen[f.Line]; ok {
			continue
		}
		seen[f.Line] = struct{}{}
		out = append(out, f.Line)
	}
	sort.Ints(out)
	return out
}

// Run validates path and opens the browser on in/out.
func Run(path string, in io.Reader, out io.Writer) error {
	// #nosec G304 -- browsing reads a user-specified path by design.
	b, err := os.ReadFile(path)
	source := ""
	if err == nil {
		source = string(b)
	}
	m := NewModel(path, source, pipeconf.ValidateFile(path))
	p := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}
