package enginecache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/opustran/internal/engine"
)

type stubEngine struct {
	id string
}

func (s *stubEngine) ModelID() string { return s.id }

func (s *stubEngine) Run(ctx context.Context, text string) ([]engine.Output, error) {
	return []engine.Output{{TranslationText: text}}, nil
}

func countingLoad(calls *atomic.Int32, id string) LoadFunc {
	return func(ctx context.Context) (engine.Engine, error) {
		calls.Add(1)
		return &stubEngine{id: id}, nil
	}
}

func TestCache_GetOrLoad_MissThenHit(t *testing.T) {
	c := New()
	var calls atomic.Int32

	first, hit, err := c.GetOrLoad(context.Background(), "opus-mt-en-fr", countingLoad(&calls, "opus-mt-en-fr"))
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrLoad(context.Background(), "opus-mt-en-fr", countingLoad(&calls, "opus-mt-en-fr"))
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())
}

func TestCache_GetOrLoad_FailureNotCached(t *testing.T) {
	c := New()
	var calls atomic.Int32
	loadErr := errors.New("download interrupted")

	failing := func(ctx context.Context) (engine.Engine, error) {
		calls.Add(1)
		return nil, loadErr
	}

	_, _, err := c.GetOrLoad(context.Background(), "opus-mt-xx-yy", failing)
	require.ErrorIs(t, err, loadErr)

	_, ok := c.Get("opus-mt-xx-yy")
	assert.False(t, ok, "failed load must not leave an entry")
	assert.Equal(t, 0, c.Len())

	_, _, err = c.GetOrLoad(context.Background(), "opus-mt-xx-yy", failing)
	require.ErrorIs(t, err, loadErr)
	assert.Equal(t, int32(2), calls.Load(), "second call must retry the load")

	eng, hit, err := c.GetOrLoad(context.Background(), "opus-mt-xx-yy", countingLoad(&calls, "opus-mt-xx-yy"))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "opus-mt-xx-yy", eng.ModelID())
}

func TestCache_GetOrLoad_ConcurrentMissLoadsOnce(t *testing.T) {
	c := New()
	var calls atomic.Int32
	release := make(chan struct{})

	slow := func(ctx context.Context) (engine.Engine, error) {
		calls.Add(1)
		<-release
		return &stubEngine{id: "opus-mt-en-de"}, nil
	}

	const callers = 16
	results := make([]engine.Engine, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, _, err := c.GetOrLoad(context.Background(), "opus-mt-en-de", slow)
			assert.NoError(t, err)
			results[i] = e
		}(i)
	}

	// Give every goroutine a chance to join the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, e := range results {
		assert.Same(t, results[0], e)
	}
}

func TestCache_DistinctKeysLoadIndependently(t *testing.T) {
	c := New()
	var calls atomic.Int32

	a, _, err := c.GetOrLoad(context.Background(), "opus-mt-en-fr", countingLoad(&calls, "opus-mt-en-fr"))
	require.NoError(t, err)
	b, _, err := c.GetOrLoad(context.Background(), "opus-mt-fr-en", countingLoad(&calls, "opus-mt-fr-en"))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []string{"opus-mt-en-fr", "opus-mt-fr-en"}, c.Keys())
}

func TestCache_GetOrLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := New()
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var loadCtxErr atomic.Value

	slow := func(ctx context.Context) (engine.Engine, error) {
		calls.Add(1)
		close(started)
		<-release
		loadCtxErr.Store(fmt.Sprint(ctx.Err()))
		return &stubEngine{id: "opus-mt-en-fr"}, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := c.GetOrLoad(ctxA, "opus-mt-en-fr", slow)
		errA <- err
	}()
	<-started

	type result struct {
		eng engine.Engine
		err error
	}
	resB := make(chan result, 1)
	go func() {
		e, _, err := c.GetOrLoad(context.Background(), "opus-mt-en-fr", slow)
		resB <- result{eng: e, err: err}
	}()
	// Let the second caller join the in-flight load.
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting on the load")
	}

	close(release)
	b := <-resB
	require.NoError(t, b.err, "caller with a live context must get the engine")
	assert.Equal(t, "opus-mt-en-fr", b.eng.ModelID())
	assert.Equal(t, "<nil>", loadCtxErr.Load(), "shared load must not see the caller's cancellation")
	assert.Equal(t, int32(1), calls.Load())

	cached, ok := c.Get("opus-mt-en-fr")
	require.True(t, ok)
	assert.Same(t, b.eng, cached)
}

func TestCache_GetOrLoad_CancelledBeforeLoad(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release := make(chan struct{})
	defer close(release)
	_, _, err := c.GetOrLoad(ctx, "opus-mt-en-fr", func(ctx context.Context) (engine.Engine, error) {
		<-release
		return &stubEngine{id: "opus-mt-en-fr"}, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
