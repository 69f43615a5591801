package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"moodmix/state"
)

var (
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	muteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	clipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	appStyle  = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	var s string

	mood := "none"
	if p, ok := m.eng.CurrentPreset(); ok {
		mood = p.Name
	}
	s += fmt.Sprintf("%s Mood: %s", m.spinner.View(), mood)
	if m.eng.Transitioning() {
		s += " (transitioning...)"
	}
	s += "\n"
	if m.snapshot.CurrentScene != state.NoScene {
		s += fmt.Sprintf("Scene: %d\n", m.snapshot.CurrentScene+1)
	}
	s += "\n"

	for i, ch := range m.snapshot.Channels {
		s += fmt.Sprintf("Ch %2d %s", i+1, m.meters[i].ViewAs(ch.Volume))
		if ch.Muted {
			s += muteStyle.Render(" M")
		}
		if ch.ActiveClip != state.NoClip {
			s += clipStyle.Render(fmt.Sprintf(" ▶%d", ch.ActiveClip+1))
		}
		s += "\n"
	}

	help := "(r)efresh"
	for _, p := range m.catalog.All() {
		help += fmt.Sprintf(" (%s)%s", p.Name[:1], p.Name[1:])
	}
	s += helpStyle.Render(help + "\n\nPress q to exit\n")

	if m.quitting {
		s += "\n"
	}
	return appStyle.Render(s)
}
