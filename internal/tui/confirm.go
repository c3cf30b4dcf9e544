// Package tui provides the Bubble Tea confirmation prompt.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Submit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Yes:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:     key.NewBinding(key.WithKeys("n", "N", "esc", "ctrl+c", "q"), key.WithHelp("n/esc", "no")),
		Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"), key.WithHelp("←/→", "choose")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	}
}

var (
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1C1C1C")).Background(lipgloss.Color("#C89A3A")).Padding(0, 1)
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// confirmModel is a yes/no question that defaults to no.
type confirmModel struct {
	question string
	keys     keyMap
	selected bool
	accepted bool
	done     bool
}

func newConfirmModel(question string) *confirmModel {
	return &confirmModel{question: question, keys: defaultKeyMap()}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		return m.finish(true)
	case key.Matches(keyMsg, m.keys.No):
		return m.finish(false)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.selected = !m.selected
		return m, nil
	case key.Matches(keyMsg, m.keys.Submit):
		return m.finish(m.selected)
	default:
		return m, nil
	}
}

func (m *confirmModel) finish(accepted bool) (tea.Model, tea.Cmd) {
	m.accepted = accepted
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}
	yes, no := inactiveStyle, activeStyle
	if m.selected {
		yes, no = activeStyle, inactiveStyle
	}
	help := []string{}
	for _, b := range []key.Binding{m.keys.Yes, m.keys.No, m.keys.Toggle, m.keys.Submit} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return questionStyle.Render(m.question) + "  " +
		yes.Render("Yes") + " " + no.Render("No") + "\n" +
		helpStyle.Render(strings.Join(help, " · ")) + "\n"
}
