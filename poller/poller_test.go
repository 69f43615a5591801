package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodmix/engine"
)

// fakeRequester records transition requests and rejects unknown ids the way
// the real engine does.
type fakeRequester struct {
	mu       sync.Mutex
	known    map[int]bool
	requests []int
}

func newFakeRequester(known ...int) *fakeRequester {
	f := &fakeRequester{known: make(map[int]bool)}
	for _, id := range known {
		f.known[id] = true
	}
	return f
}

func (f *fakeRequester) RequestByID(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.known[id] {
		return engine.ErrUnknownPreset
	}
	f.requests = append(f.requests, id)
	return nil
}

func (f *fakeRequester) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int{}, f.requests...)
}

func desiredStateServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("installation"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPollOnceRequestsKnownPreset(t *testing.T) {
	t.Parallel()

	srv := desiredStateServer(t, `{"state": 1}`, http.StatusOK)
	requester := newFakeRequester(0, 1)
	p := New(srv.URL, requester, 10*time.Second, time.Second)

	p.PollOnce()

	assert.Equal(t, []int{1}, requester.requested())
}

func TestPollOnceDiscardsUnknownPreset(t *testing.T) {
	t.Parallel()

	srv := desiredStateServer(t, `{"state": 99}`, http.StatusOK)
	requester := newFakeRequester(0, 1)
	p := New(srv.URL, requester, 10*time.Second, time.Second)

	p.PollOnce()
	assert.Empty(t, requester.requested())

	// one bad response never wedges the poller
	p.PollOnce()
	assert.Empty(t, requester.requested())
}

func TestPollOnceDiscardsMalformedResponses(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		body   string
		status int
	}{
		"not json":      {body: `not json at all`, status: http.StatusOK},
		"missing field": {body: `{"other": 1}`, status: http.StatusOK},
		"string state":  {body: `{"state": "day"}`, status: http.StatusOK},
		"float state":   {body: `{"state": 1.5}`, status: http.StatusOK},
		"server error":  {body: `{"state": 1}`, status: http.StatusInternalServerError},
		"not found":     {body: ``, status: http.StatusNotFound},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			srv := desiredStateServer(t, tc.body, tc.status)
			requester := newFakeRequester(0, 1)
			p := New(srv.URL, requester, 10*time.Second, time.Second)

			p.PollOnce()
			assert.Empty(t, requester.requested())
		})
	}
}

func TestSetIntervalRejectsTooShort(t *testing.T) {
	t.Parallel()

	p := New("http://127.0.0.1:0", newFakeRequester(), 10*time.Second, time.Second)

	err := p.SetInterval(500 * time.Millisecond)
	require.ErrorIs(t, err, ErrIntervalTooShort)
	assert.Equal(t, 10*time.Second, p.Interval())

	require.NoError(t, p.SetInterval(2*time.Second))
	assert.Equal(t, 2*time.Second, p.Interval())
}

func TestStartStopAreIdempotent(t *testing.T) {
	t.Parallel()

	srv := desiredStateServer(t, `{"state": 0}`, http.StatusOK)
	requester := newFakeRequester(0)
	p := New(srv.URL, requester, time.Second, time.Second)

	ctx := context.Background()
	p.Start(ctx)
	p.Start(ctx) // no-op
	assert.True(t, p.Running())

	start := time.Now()
	p.Stop()
	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, p.Running())

	p.Stop() // no-op
	assert.False(t, p.Running())
}

func TestPollingLoopTicks(t *testing.T) {
	t.Parallel()

	srv := desiredStateServer(t, `{"state": 1}`, http.StatusOK)
	requester := newFakeRequester(0, 1)
	p := New(srv.URL, requester, time.Second, time.Millisecond)
	require.NoError(t, p.SetInterval(20*time.Millisecond))

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return len(requester.requested()) >= 2
	}, 2*time.Second, 5*time.Millisecond)
}
