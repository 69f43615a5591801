package main

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"moodmix/config"
	"moodmix/engine"
	"moodmix/live"
	"moodmix/logger"
	"moodmix/poller"
	"moodmix/preset"
	"moodmix/state"
)

func main() {
	// We don't process any CLI flags for now, so just run the app with a context.
	// TODO - add config to the context
	ctx := context.Background()
	Run(ctx)
}

// Run starts the mirror and all of its workers
func Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	// initialize the logger
	log := logger.GetProjectLogger()

	wg := sync.WaitGroup{}

	// initialize the global config
	log.Info("Initializing config...")
	cfg, err := config.NewMoodmixConfig()
	if err != nil {
		log.Fatalf("error creating config. err='%v'", err)
	}

	// initialize the preset catalog
	catalog, err := preset.NewCatalog(cfg.Presets...)
	if err != nil {
		log.Fatalf("error building preset catalog. err='%v'", err)
	}

	// the state mirror and the command client
	store := state.NewStore(cfg.ChannelCount)
	client := live.NewClient(cfg.AbletonIP, cfg.SendPort, cfg.ChannelCount)

	// init the transition engine
	log.Info("Initializing transition engine...")
	eng := engine.New(store, client, catalog, clock.RealClock{}, engine.Options{
		OnLevel:   cfg.OnLevel,
		Crossover: cfg.FadeCrossover,
		Duration:  cfg.FadeDuration,
		Steps:     cfg.FadeSteps,
	})
	wg.Add(1)
	go eng.Run(ctx, &wg)

	// receive notifications and keep the mirror fresh
	wg.Add(1)
	go live.ListenWorker(ctx, cfg.ReceivePort, store, &wg)
	wg.Add(1)
	go live.RefreshWorker(ctx, client, cfg.RefreshInterval, &wg)

	// poll the desired-state source
	pol := poller.New(cfg.PollURL, eng, cfg.PollInterval, cfg.MinPollInterval)
	pol.Start(ctx)

	// interactive operator console
	go console(ctx, cancel, store, catalog, eng, pol, client)

	// handle CTRL+C interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("shutting down moodmix")
	pol.Stop()
	cancel()
	waitTimeout(&wg, 5*time.Second)
}

// waitTimeout waits for the waitgroup with an upper bound, so a wedged
// worker cannot hang shutdown forever.
func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		logger.GetProjectLogger().Warn("workers did not shut down in time")
	}
}

// console reads operator commands from stdin until "q" or EOF.
func console(ctx context.Context, cancel context.CancelFunc, store *state.Store, catalog *preset.Catalog,
	eng *engine.Engine, pol *poller.Poller, client *live.Client) {
	log := logger.GetProjectLogger()

	fmt.Println("\nMoodmix Console")
	fmt.Println("Commands:")
	for _, p := range catalog.All() {
		fmt.Printf("  %s (or %d)  - switch to the %s mood\n", strings.ToLower(p.Name[:1]), p.ID, p.Name)
	}
	fmt.Println("  state          - print current mirror state")
	fmt.Println("  refresh        - force a full state refresh")
	fmt.Println("  poll           - poll the desired-state source once")
	fmt.Println("  start / stop   - control desired-state polling")
	fmt.Println("  interval <dur> - set the polling interval (e.g. 5s)")
	fmt.Println("  fire <scene>   - fire an Ableton scene")
	fmt.Println("  q              - quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(strings.ToLower(scanner.Text()))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			cancel()
			return
		case "state":
			printState(store, eng, pol)
		case "refresh":
			if err := client.RefreshAll(); err != nil {
				log.Warnf("refresh failed: %v", err)
			}
		case "poll":
			pol.PollOnce()
		case "start":
			pol.Start(ctx)
		case "stop":
			pol.Stop()
		case "interval":
			if len(fields) < 2 {
				fmt.Println("usage: interval <duration>")
				continue
			}
			d, err := time.ParseDuration(fields[1])
			if err != nil {
				fmt.Printf("bad duration: %v\n", err)
				continue
			}
			if err := pol.SetInterval(d); err != nil {
				fmt.Printf("rejected: %v\n", err)
			}
		case "fire":
			if len(fields) < 2 {
				fmt.Println("usage: fire <scene|mood>")
				continue
			}
			scene, err := strconv.Atoi(fields[1])
			if err != nil {
				// not a number: resolve a mood name to its scene
				scene = -1
				for _, p := range catalog.All() {
					if strings.EqualFold(p.Name, fields[1]) && p.Scene >= 0 {
						scene = p.Scene
						break
					}
				}
				if scene < 0 {
					fmt.Println("unknown scene")
					continue
				}
			}
			if err := client.FireScene(scene); err != nil {
				log.Warnf("scene fire failed: %v", err)
			}
		default:
			if !requestMood(eng, catalog, fields[0]) {
				fmt.Println("Unknown command")
			}
		}
	}
}

// requestMood resolves a console token to a preset: a numeric id, a mood
// name, or its first letter.
func requestMood(eng *engine.Engine, catalog *preset.Catalog, token string) bool {
	if id, err := strconv.Atoi(token); err == nil {
		if err := eng.RequestByID(id); err != nil {
			fmt.Printf("rejected: %v\n", err)
		}
		return true
	}
	for _, p := range catalog.All() {
		if strings.EqualFold(p.Name, token) || strings.EqualFold(p.Name[:1], token) {
			fmt.Printf("Switching to %s mode...\n", p.Name)
			if err := eng.Request(p); err != nil {
				fmt.Printf("rejected: %v\n", err)
			}
			return true
		}
	}
	return false
}

// printState prints a formatted summary of the mirror, volumes in dB like
// the mixer displays them.
func printState(store *state.Store, eng *engine.Engine, pol *poller.Poller) {
	snap := store.Snapshot()

	fmt.Println("\n=== CURRENT MIXER STATE ===")
	if p, ok := eng.CurrentPreset(); ok {
		fmt.Printf("Mood: %s (transitioning: %v)\n", p.Name, eng.Transitioning())
	} else {
		fmt.Printf("Mood: none (transitioning: %v)\n", eng.Transitioning())
	}
	if snap.CurrentScene != state.NoScene {
		fmt.Printf("Active Scene: %d\n", snap.CurrentScene+1)
	} else {
		fmt.Println("Active Scene: None")
	}
	fmt.Printf("Polling: %v (every %s)\n", pol.Running(), pol.Interval())

	fmt.Println("\nChannel States:")
	for i, ch := range snap.Channels {
		clip := "None"
		if ch.ActiveClip != state.NoClip {
			clip = fmt.Sprintf("Clip %d", ch.ActiveClip+1)
		}
		mute := "Unmuted"
		if ch.Muted {
			mute = "Muted"
		}
		fmt.Printf("  Channel %d: Volume: %s dB, Playing: %s, %s\n", i+1, toDB(ch.Volume), clip, mute)
	}
	fmt.Println("===========================")
}

func toDB(volume float64) string {
	if volume == 0 {
		return "-inf"
	}
	return fmt.Sprintf("%.1f", 20*math.Log10(volume))
}
