package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rodsim/internal/config"
	"github.com/san-kum/rodsim/internal/experiment"
)

type menu struct {
	presets []string
	cursor  int
	live    *Model
	err     error
}

func newMenu() menu {
	return menu{presets: config.ListPresets()}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m menu) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	exp, err := experiment.New(config.GetPreset(name))
	if err != nil {
		m.err = err
		return m, nil
	}
	live := NewModel(name, exp.GetSimulator(), exp.SimConfig())
	m.live = &live
	return m, live.Init()
}

func describe(cfg *config.Config) string {
	p := cfg.Boundary.Params
	switch cfg.Boundary.Kind {
	case "helical_buckling":
		return fmt.Sprintf("%g turns, slack %g over %g", p.Rotations, p.Slack, p.TwistingTime)
	default:
		return strings.ReplaceAll(cfg.Boundary.Kind, "_", " ")
	}
}

func (m menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("RODSIM") + "\n    " + subtleStyle.Render("rod boundary conditions") + "\n    " + subtleStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := describe(config.Presets[name])
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-18s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", itemStyle.Render(fmt.Sprintf("  %-18s", name)), subtleStyle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + itemStyle.Render(" navigate  ") + keyStyle.Render("enter") + itemStyle.Render(" select  ") + keyStyle.Render("q") + itemStyle.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset picker and then the live view.
func RunInteractive() error {
	_, err := tea.NewProgram(newMenu(), tea.WithAltScreen()).Run()
	return err
}
