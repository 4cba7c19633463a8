package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Up   key.Binding
	Down key.Binding
	Run  key.Binding
	All  key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Run, k.All, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Run, k.All, k.Back, k.Quit}}
}

var keys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Run:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "run")),
	All:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "run all")),
	Back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type interactiveModel struct {
	styles   styles
	help     help.Model
	results  []result
	n        int
	selected int
	showing  bool
}

func newInteractiveModel(s styles, n int) *interactiveModel {
	return &interactiveModel{styles: s, help: help.New(), n: n}
}

type ranMsg struct {
	results []result
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) run(list ...scenario) tea.Cmd {
	n := m.n
	return func() tea.Msg {
		results := make([]result, 0, len(list))
		for _, s := range list {
			results = append(results, runScenario(s, n))
		}
		return ranMsg{results: results}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Back):
			m.showing = false
			m.results = nil

		case m.showing:
			m.showing = false
			m.results = nil

		case key.Matches(msg, keys.Up):
			if m.selected > 0 {
				m.selected--
			}

		case key.Matches(msg, keys.Down):
			if m.selected < len(scenarios)-1 {
				m.selected++
			}

		case key.Matches(msg, keys.Run):
			return m, m.run(scenarios[m.selected])

		case key.Matches(msg, keys.All):
			return m, m.run(scenarios...)
		}

	case ranMsg:
		m.results = msg.results
		m.showing = true
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.title.Render("shared pointer scenarios"))
	b.WriteString("\n\n")

	if m.showing {
		for _, res := range m.results {
			s.renderResult(&b, res)
			b.WriteString("\n")
		}
		b.WriteString(s.help.Render("any key to go back • q quit"))
		return b.String()
	}

	for i, sc := range scenarios {
		line := sc.name + "  " + s.desc.Render(sc.desc)
		if i == m.selected {
			b.WriteString(s.cursor.Render("> " + sc.name))
			b.WriteString("  " + s.desc.Render(sc.desc))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func runInteractive(s styles, n int) error {
	p := tea.NewProgram(newInteractiveModel(s, n), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
