package cloud

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gohanzi/ime/pkgs/decoder"
)

func TestQueryDeliversResult(t *testing.T) {
	provider := StaticProvider{Candidates: []decoder.Candidate{{Text: "你好"}}}
	c := NewClient(provider)

	var mu sync.Mutex
	var got []decoder.Candidate
	done := make(chan struct{})

	c.Query(context.Background(), "nihao", func(cands []decoder.Candidate) {
		mu.Lock()
		got = cands
		mu.Unlock()
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onResult was never called")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []decoder.Candidate{{Text: "你好"}}, got)
}

func TestSupersededQueryIsDiscarded(t *testing.T) {
	slow := blockingProvider{release: make(chan struct{})}
	c := NewClient(slow)

	var called atomicBool
	c.Query(context.Background(), "first", func([]decoder.Candidate) {
		called.set(true)
	})

	// Supersede before the slow provider responds.
	c.Cancel()
	close(slow.release)

	time.Sleep(50 * time.Millisecond)
	require.False(t, called.get(), "a superseded query's result must never reach the caller")
}

func TestNoopProviderReturnsNothing(t *testing.T) {
	cands, err := NoopProvider{}.Lookup(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, cands)
}

type blockingProvider struct {
	release chan struct{}
}

func (b blockingProvider) Lookup(ctx context.Context, raw string) ([]decoder.Candidate, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []decoder.Candidate{{Text: "stale"}}, nil
}

type atomicBool struct {
	mu sync.Mutex
	v  bool
}

func (a *atomicBool) set(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.v = v
}

func (a *atomicBool) get() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.v
}
