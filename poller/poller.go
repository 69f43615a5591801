// Package poller periodically fetches the desired mood from an external
// HTTP source and feeds it to the transition engine. A bad response never
// corrupts local state and never stops the polling loop.
package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"moodmix/logger"
)

// ErrIntervalTooShort is returned when the requested polling interval is
// below the configured minimum.
var ErrIntervalTooShort = errors.New("polling interval too short")

const stopTimeout = time.Second

// Requester is the slice of the transition engine the poller drives.
type Requester interface {
	RequestByID(id int) error
}

// Poller fetches the desired mood state on a timer. Start and Stop are
// idempotent; the interval is adjustable while running and takes effect on
// the next tick.
type Poller struct {
	sourceURL   string
	client      *http.Client
	engine      Requester
	minInterval time.Duration
	log         *logrus.Entry

	mu       sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a poller against the given desired-state URL.
func New(sourceURL string, engine Requester, interval, minInterval time.Duration) *Poller {
	return &Poller{
		sourceURL:   sourceURL,
		client:      &http.Client{Timeout: 5 * time.Second},
		engine:      engine,
		minInterval: minInterval,
		log:         logger.GetProjectLogger(),
		interval:    interval,
	}
}

// Interval returns the current polling interval.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval adjusts the polling interval. Values below the minimum are
// rejected and leave the previous interval in place.
func (p *Poller) SetInterval(interval time.Duration) error {
	if interval < p.minInterval {
		return fmt.Errorf("%w: %s < %s", ErrIntervalTooShort, interval, p.minInterval)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = interval
	p.log.Infof("polling interval set to %s", interval)
	return nil
}

// Running reports whether the polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Start launches the polling loop. Starting an already-running poller is a
// logged no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.log.Info("poller already running")
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(loopCtx, p.done)
	p.log.Infof("polling desired state every %s", p.interval)
}

// Stop halts the polling loop, waiting briefly for it to wind down. Stopping
// an already-stopped poller is a logged no-op. A transition already handed to
// the engine is unaffected: it runs to completion or supersession.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.cancel == nil {
		p.mu.Unlock()
		p.log.Info("poller already stopped")
		return
	}
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(stopTimeout):
		p.log.Warn("poller did not stop in time")
	}
	p.log.Info("poller stopped")
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTimer(p.Interval())
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.PollOnce()
			// picks up interval changes on the next tick
			t.Reset(p.Interval())
		}
	}
}

// PollOnce fetches the desired state once and, if it names a known preset,
// asks the engine to transition. Every failure mode is logged and discarded:
// the mirror stays untouched and polling continues.
func (p *Poller) PollOnce() {
	id, err := p.fetch()
	if err != nil {
		p.log.Warnf("discarding desired-state poll: %v", err)
		return
	}

	p.log.WithFields(logrus.Fields{"state": id}).Debug("desired state fetched")
	if err := p.engine.RequestByID(id); err != nil {
		p.log.Warnf("desired state %d rejected: %v", id, err)
	}
}

// fetch GETs the desired-state source and parses {"state": <integer>}.
func (p *Poller) fetch() (int, error) {
	u, err := url.Parse(p.sourceURL)
	if err != nil {
		return 0, err
	}
	q := u.Query()
	q.Set("installation", "1")
	u.RawQuery = q.Encode()

	resp, err := p.client.Get(u.String())
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("desired-state source returned %s", resp.Status)
	}

	var body struct {
		State *int `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("malformed desired-state body: %w", err)
	}
	if body.State == nil {
		return 0, errors.New("desired-state body has no state field")
	}
	return *body.State, nil
}
