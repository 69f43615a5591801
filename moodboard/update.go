package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "r":
			m.client.RefreshAll()
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		default:
			// mood keys: the first letter of each preset name
			for _, p := range m.catalog.All() {
				if strings.EqualFold(p.Name[:1], key) {
					m.eng.Request(p)
					break
				}
			}
		}
	case tickMsg:
		m.snapshot = m.store.Snapshot()
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}
