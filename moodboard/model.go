package main

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moodmix/engine"
	"moodmix/live"
	"moodmix/preset"
	"moodmix/state"
)

type model struct {
	store   *state.Store
	eng     *engine.Engine
	client  *live.Client
	catalog *preset.Catalog

	spinner  spinner.Model
	meters   []progress.Model // one meter per mirrored channel
	snapshot state.MixerState
	quitting bool
}

func newModel(store *state.Store, eng *engine.Engine, client *live.Client, catalog *preset.Catalog) model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	// prepare a meter per channel
	meters := make([]progress.Model, 0, store.Channels())
	for i := 0; i < store.Channels(); i++ {
		p := progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		)
		meters = append(meters, p)
	}

	return model{
		store:    store,
		eng:      eng,
		client:   client,
		catalog:  catalog,
		spinner:  s,
		meters:   meters,
		snapshot: store.Snapshot(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
