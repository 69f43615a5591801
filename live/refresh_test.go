package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	mu         sync.Mutex
	subscribes int
	refreshes  int
}

func (f *fakeRefresher) SubscribeAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	return nil
}

func (f *fakeRefresher) RefreshAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return nil
}

func (f *fakeRefresher) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.refreshes
}

func TestRefreshWorkerSubscribesOnceAndRefreshesPeriodically(t *testing.T) {
	t.Parallel()

	client := &fakeRefresher{}
	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go RefreshWorker(ctx, client, 20*time.Millisecond, wg)

	// startup: one subscription sweep and one immediate refresh, then at
	// least two periodic refreshes
	require.Eventually(t, func() bool {
		_, refreshes := client.counts()
		return refreshes >= 3
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	wg.Wait()

	subscribes, _ := client.counts()
	assert.Equal(t, 1, subscribes)
}
