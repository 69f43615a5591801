// Package engine moves the mixer between mood presets with time-sliced
// volume ramps. A single worker owns the transition state machine; requests
// arrive through a single-slot queue where a newer request cancels and
// replaces whatever ramp is in flight.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fogleman/ease"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"moodmix/logger"
	"moodmix/preset"
	"moodmix/state"
)

// ErrUnknownPreset is returned for a transition request naming a preset id
// the catalog does not know. The engine state is left untouched.
var ErrUnknownPreset = errors.New("unknown preset")

// VolumeSender emits fader writes to the mixer. Sends are fire-and-forget;
// a failed send is logged and the write self-heals on the next refresh.
type VolumeSender interface {
	SetVolume(channel int, volume float64) error
}

// Options tunes the crossfade behavior.
type Options struct {
	// OnLevel is the level an audible channel settles at (0.84, headroom).
	OnLevel float64

	// Crossover is where the outgoing fade hits silence relative to ramp
	// progress (0.92, tuned).
	Crossover float64

	// Duration and Steps slice the ramp: Steps+1 writes over Duration.
	Duration time.Duration
	Steps    int
}

type request struct {
	target      preset.Preset
	requestedAt time.Time

	// fresh is set when this request superseded an in-flight ramp: the fade
	// partition is then computed from the mirrored volumes instead of the
	// stale from-preset.
	fresh bool
}

// Engine is the transition state machine. It is either idle or running a
// single ramp; overlapping requests are serialized by the run loop.
type Engine struct {
	store   *state.Store
	sender  VolumeSender
	catalog *preset.Catalog
	clock   clock.Clock
	opts    Options
	log     *logrus.Entry

	requests chan request

	mu         sync.Mutex
	current    *preset.Preset // last fully applied preset
	active     *preset.Preset // in-flight ramp target, nil when idle
	rampCancel context.CancelFunc
}

// New creates a transition engine over the given store, sender and catalog.
func New(store *state.Store, sender VolumeSender, catalog *preset.Catalog, cl clock.Clock, opts Options) *Engine {
	return &Engine{
		store:    store,
		sender:   sender,
		catalog:  catalog,
		clock:    cl,
		opts:     opts,
		log:      logger.GetProjectLogger(),
		requests: make(chan request, 1),
	}
}

// CurrentPreset returns the last preset a completed transition applied.
func (e *Engine) CurrentPreset() (preset.Preset, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return preset.Preset{}, false
	}
	return *e.current, true
}

// Transitioning reports whether a ramp is in flight.
func (e *Engine) Transitioning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil
}

// RequestByID asks for a transition to the preset with the given id. It
// never blocks on the ramp itself: the request is handed to the run loop.
// A request matching the current (or already in-flight) preset is a no-op.
func (e *Engine) RequestByID(id int) error {
	target, ok := e.catalog.ByID(id)
	if !ok {
		return ErrUnknownPreset
	}
	return e.Request(target)
}

// Request is RequestByID for callers that already hold a catalog preset.
func (e *Engine) Request(target preset.Preset) error {
	e.mu.Lock()

	if e.active != nil && e.active.ID == target.ID {
		e.mu.Unlock()
		e.log.WithFields(logrus.Fields{"preset": target.Name}).Info("transition already in flight, ignoring request")
		return nil
	}
	if e.active == nil && e.current != nil && e.current.ID == target.ID {
		e.mu.Unlock()
		e.log.WithFields(logrus.Fields{"preset": target.Name}).Info("already in requested mood, nothing to do")
		return nil
	}

	req := request{target: target, requestedAt: e.clock.Now()}
	if e.rampCancel != nil {
		// single-slot supersede: cancel the in-flight ramp and start the
		// new one from wherever the faders actually are
		e.log.WithFields(logrus.Fields{"preset": target.Name}).Info("superseding in-flight transition")
		e.rampCancel()
		req.fresh = true
	}
	e.mu.Unlock()

	// drain any queued-but-unstarted request, then take the slot
	select {
	case <-e.requests:
	default:
	}
	e.requests <- req
	return nil
}

// Run executes transitions until the context is cancelled. It owns the
// current-preset field; ramp ticks never block notification handling because
// they happen here, not on the dispatch path.
func (e *Engine) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("transition engine shutdown")
			return
		case req := <-e.requests:
			e.execute(ctx, req)
		}
	}
}

func (e *Engine) execute(ctx context.Context, req request) {
	rampCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	from := e.current
	target := req.target
	e.active = &target
	e.rampCancel = cancel
	e.mu.Unlock()

	completed := e.transition(rampCtx, from, req)

	e.mu.Lock()
	if completed {
		e.current = &target
	}
	e.active = nil
	e.rampCancel = nil
	e.mu.Unlock()
}

// transition runs one full mood change and reports whether it completed.
// A cancelled ramp stops without the final snap; the superseding request
// takes over from the volumes already written.
func (e *Engine) transition(ctx context.Context, from *preset.Preset, req request) bool {
	to := req.target
	e.log.WithFields(logrus.Fields{"to": to.Name, "queued_for": e.clock.Since(req.requestedAt)}).Info("starting transition")

	fadeIn, fadeOut := e.fadePartition(from, to, req.fresh)

	// the very first transition has nothing to fade from, and a
	// zero-length ramp degenerates to a direct set either way
	ramp := len(fadeIn)+len(fadeOut) > 0 && e.opts.Steps > 0 && e.opts.Duration > 0
	if (from != nil || req.fresh) && ramp {
		if !e.runRamp(ctx, fadeIn, fadeOut) {
			e.log.WithFields(logrus.Fields{"to": to.Name}).Info("transition superseded")
			return false
		}
	}

	// unconditional settle: corrects fade rounding drift and covers the
	// channels whose on/off status did not change
	for _, ch := range to.Up {
		e.write(ch, e.opts.OnLevel)
	}
	for _, ch := range to.Down {
		e.write(ch, 0)
	}

	e.log.WithFields(logrus.Fields{"to": to.Name}).Info("transition complete")
	return true
}

// fadePartition picks the channels that ramp rather than jump. Normally that
// is plain set algebra between the old and new presets: only channels whose
// on/off status flips get a crossfade. When a request superseded a ramp the
// old preset no longer describes reality, so the partition falls back to the
// mirrored volumes.
func (e *Engine) fadePartition(from *preset.Preset, to preset.Preset, fresh bool) (fadeIn, fadeOut []int) {
	if fresh {
		for _, ch := range to.Up {
			if c, err := e.store.Get(ch); err == nil && c.Volume < e.opts.OnLevel {
				fadeIn = append(fadeIn, ch)
			}
		}
		for _, ch := range to.Down {
			if c, err := e.store.Get(ch); err == nil && c.Volume > 0 {
				fadeOut = append(fadeOut, ch)
			}
		}
		return fadeIn, fadeOut
	}
	if from == nil {
		return nil, nil
	}

	for _, ch := range to.Up {
		if from.IsDown(ch) {
			fadeIn = append(fadeIn, ch)
		}
	}
	for _, ch := range to.Down {
		if from.IsUp(ch) {
			fadeOut = append(fadeOut, ch)
		}
	}
	return fadeIn, fadeOut
}

// runRamp emits the time-sliced crossfade. It returns false if the context
// was cancelled before the ramp finished.
func (e *Engine) runRamp(ctx context.Context, fadeIn, fadeOut []int) bool {
	steps := e.opts.Steps
	interval := e.opts.Duration / time.Duration(steps)

	t := e.clock.NewTimer(interval)
	defer t.Stop()

	for s := 0; s <= steps; s++ {
		p := float64(s) / float64(steps)

		out := e.fadeOutLevel(p)
		in := e.fadeInLevel(p)
		for _, ch := range fadeOut {
			e.write(ch, out)
		}
		for _, ch := range fadeIn {
			e.write(ch, in)
		}

		if s == steps {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-t.C():
			t.Reset(interval)
		}
	}
	return true
}

// fadeOutLevel is a fast, slightly front-loaded decay that reaches silence
// before the ramp's nominal end: (crossover - p)^2 while p < crossover.
func (e *Engine) fadeOutLevel(p float64) float64 {
	if p >= e.opts.Crossover {
		return 0
	}
	return ease.InQuad(e.opts.Crossover - p)
}

// fadeInLevel is the matching accelerating rise, (crossover * p)^2. The
// asymmetry is deliberate: the new mood is audible before the old one is
// fully gone.
func (e *Engine) fadeInLevel(p float64) float64 {
	return ease.InQuad(e.opts.Crossover * p)
}

// write pushes a volume both into the mirror (optimistically, through the
// same mutator the notification path uses) and out to the mixer.
func (e *Engine) write(channel int, volume float64) {
	if err := e.store.SetVolume(channel, volume); err != nil {
		e.log.Warnf("ramp write to unknown channel %d: %v", channel, err)
		return
	}
	if err := e.sender.SetVolume(channel, volume); err != nil {
		e.log.Warnf("volume send failed for channel %d: %v", channel, err)
	}
}

// SetVolume runs an independent single-channel fade to the given value: a
// simple ease-in over duration/steps ticks, no crossfade. A zero step count
// or non-positive duration means one immediate write.
func (e *Engine) SetVolume(ctx context.Context, channel int, value float64, duration time.Duration, steps int) error {
	if _, err := e.store.Get(channel); err != nil {
		return err
	}

	if steps <= 0 || duration <= 0 {
		e.write(channel, value)
		return nil
	}

	interval := duration / time.Duration(steps)
	t := e.clock.NewTimer(interval)
	defer t.Stop()

	for s := 1; s <= steps; s++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C():
		}
		p := float64(s) / float64(steps)
		e.write(channel, ease.InQuad(p)*value)
		t.Reset(interval)
	}
	return nil
}
