package tui

import (
	"strings"

	"github.com/billie-coop/indexrank/internal/report"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// Short labels for the ranking tabs, in section order.
var tabLabels = []string{"Size", "Shards", "Imbalance"}

// chrome is the number of rows taken by the title, tabs and help line.
const chrome = 5

// Model is the bubbletea model for browsing a report one ranking at a time.
type Model struct {
	sections []report.Section
	summary  string
	active   int

	viewport viewport.Model
	keys     KeyMap
	width    int
	height   int
}

// New creates a viewer for rep. Color controls styling of the ranking bodies.
func New(rep *report.Report, color bool) *Model {
	m := &Model{
		sections: report.TextSections(rep, color),
		summary:  report.Summary(rep),
		keys:     DefaultKeyMap(),
		viewport: viewport.New(viewport.WithWidth(80), viewport.WithHeight(20)),
	}
	m.refreshContent()
	return m
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.Select(m.active + 1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.Select(m.active - 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// SetSize resizes the viewport to fit below the tabs.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	m.viewport = viewport.New(
		viewport.WithWidth(width),
		viewport.WithHeight(max(1, height-chrome)),
	)
	m.refreshContent()
}

// Select shows the ranking at i, wrapping around at either end.
func (m *Model) Select(i int) {
	n := len(m.sections)
	if n == 0 {
		return
	}
	m.active = ((i % n) + n) % n
	m.refreshContent()
}

// Active returns the index of the ranking on screen.
func (m *Model) Active() int {
	return m.active
}

func (m *Model) refreshContent() {
	if len(m.sections) == 0 {
		m.viewport.SetContent("")
		return
	}
	body := m.sections[m.active].Body
	if strings.TrimSpace(body) == "" {
		body = helpStyle.Render("No indexes.")
	}
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

// Content renders the full screen as a string.
func (m *Model) Content() string {
	var sb strings.Builder

	title := ""
	if len(m.sections) > 0 {
		title = m.sections[m.active].Title
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.renderTabs())
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.renderHelp())

	return sb.String()
}

// View renders the UI
func (m *Model) View() tea.View {
	return tea.NewView(m.Content())
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, len(m.sections))
	for i := range m.sections {
		label := tabLabels[i%len(tabLabels)]
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.ShortHelp())+1)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	parts = append(parts, m.summary)
	return helpStyle.Render(strings.Join(parts, " • "))
}

// Run starts the viewer on the alternate screen and blocks until it exits.
func Run(rep *report.Report, color bool) error {
	p := tea.NewProgram(New(rep, color), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
