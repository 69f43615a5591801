package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/utils/clock"

	"moodmix/config"
	"moodmix/engine"
	"moodmix/live"
	"moodmix/preset"
	"moodmix/state"
)

// moodboard is a live dashboard over the mixer mirror: channel meters, the
// active mood, and single-key mood switching.
func main() {
	cfg, err := config.NewMoodmixConfig()
	if err != nil {
		fmt.Println("Error creating config:", err)
		os.Exit(1)
	}

	catalog, err := preset.NewCatalog(cfg.Presets...)
	if err != nil {
		fmt.Println("Error building preset catalog:", err)
		os.Exit(1)
	}

	store := state.NewStore(cfg.ChannelCount)
	client := live.NewClient(cfg.AbletonIP, cfg.SendPort, cfg.ChannelCount)
	eng := engine.New(store, client, catalog, clock.RealClock{}, engine.Options{
		OnLevel:   cfg.OnLevel,
		Crossover: cfg.FadeCrossover,
		Duration:  cfg.FadeDuration,
		Steps:     cfg.FadeSteps,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wg := sync.WaitGroup{}

	wg.Add(1)
	go eng.Run(ctx, &wg)
	wg.Add(1)
	go live.ListenWorker(ctx, cfg.ReceivePort, store, &wg)
	wg.Add(1)
	go live.RefreshWorker(ctx, client, cfg.RefreshInterval, &wg)

	if err := tea.NewProgram(newModel(store, eng, client, catalog)).Start(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}

	cancel()
	wg.Wait()
}
