package live

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/hypebeast/go-osc/osc"

	"moodmix/logger"
	"moodmix/state"
)

// ListenWorker receives AbletonOSC notifications on the given UDP port and
// routes them through the dispatcher until the context is cancelled. Each
// inbound message is handled as it arrives; nothing downstream of the
// dispatcher blocks on timed work.
func ListenWorker(ctx context.Context, port int, store *state.Store, wg *sync.WaitGroup) error {
	defer wg.Done()

	log := logger.GetProjectLogger()

	addr := fmt.Sprintf(":%d", port)
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		log.Errorf("could not listen for notifications on %s: %v", addr, err)
		return err
	}

	server := &osc.Server{Addr: addr, Dispatcher: NewDispatcher(store)}

	// closing the connection unblocks Serve
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Infof("Listening for Ableton notifications on %s...", addr)
	err = server.Serve(conn)
	if ctx.Err() != nil {
		log.Info("ListenWorker shutdown")
		return ctx.Err()
	}
	return err
}

// Refresher is the slice of the command client the refresh scheduler needs.
type Refresher interface {
	SubscribeAll() error
	RefreshAll() error
}

// RefreshWorker keeps the mirror self-healing: it registers the notification
// subscriptions once at startup, queries the full state immediately, and then
// re-queries on a fixed interval. Drift in the interval is fine, the queries
// are idempotent reads.
func RefreshWorker(ctx context.Context, client Refresher, interval time.Duration, wg *sync.WaitGroup) error {
	defer wg.Done()

	log := logger.GetProjectLogger()

	if err := client.SubscribeAll(); err != nil {
		log.Warnf("subscribe failed, will rely on periodic refresh: %v", err)
	}

	log.Info("Refreshing full Ableton state...")
	if err := client.RefreshAll(); err != nil {
		log.Warnf("initial state refresh failed: %v", err)
	}

	t := time.NewTimer(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("RefreshWorker shutdown")
			return ctx.Err()
		case <-t.C:
			if err := client.RefreshAll(); err != nil {
				log.Warnf("state refresh failed: %v", err)
			}
			t.Reset(interval)
		}
	}
}
