// Package cloud defines the out-of-core cloud-lookup collaborator: the
// decoder returns promptly with local results, and a Provider may
// deliver additional candidates asynchronously, merged into the session
// on the next update. An input event supersedes any in-flight query for
// the same session; the stale response is discarded via a per-session
// generation counter rather than shared mutable state.
//
// No real network backend ships here, only the interface and a local
// no-op/test double.
package cloud

import (
	"context"
	"sync/atomic"

	"github.com/gohanzi/ime/pkgs/decoder"
)

// Provider looks up cloud candidates for raw input. Implementations must
// respect ctx cancellation promptly; the client never blocks the
// decoder's synchronous local path on a Provider call.
type Provider interface {
	Lookup(ctx context.Context, raw string) ([]decoder.Candidate, error)
}

// NoopProvider is a Provider that never returns results, used when no
// cloud backend is configured.
type NoopProvider struct{}

// Lookup always returns an empty result immediately.
func (NoopProvider) Lookup(context.Context, string) ([]decoder.Candidate, error) {
	return nil, nil
}

// StaticProvider is a test double that returns a fixed candidate set
// regardless of input, useful for exercising the async-merge path in
// Session tests without a real network dependency.
type StaticProvider struct {
	Candidates []decoder.Candidate
}

// Lookup returns the configured candidates.
func (s StaticProvider) Lookup(context.Context, string) ([]decoder.Candidate, error) {
	return s.Candidates, nil
}

// Client wraps a Provider with per-session cancellation: each call to
// Query supersedes any previous in-flight query, and the previous
// query's eventual result (if it arrives after being superseded) is
// dropped by Result without ever reaching the caller.
type Client struct {
	provider Provider
	gen      atomic.Uint64
	cancel   atomic.Pointer[context.CancelFunc]
}

// NewClient builds a Client over provider. A nil provider is replaced
// with NoopProvider.
func NewClient(provider Provider) *Client {
	if provider == nil {
		provider = NoopProvider{}
	}
	return &Client{provider: provider}
}

// Query cancels any in-flight query for this client and starts a new
// one, invoking onResult with the candidates if (and only if) this
// query was not itself superseded before the Provider responded.
// onResult is called on a separate goroutine; callers update session
// state from it the same way they'd merge a timer callback, guarding
// with their own synchronization if the session is touched from
// multiple goroutines.
func (c *Client) Query(ctx context.Context, raw string, onResult func([]decoder.Candidate)) {
	if prev := c.cancel.Load(); prev != nil {
		(*prev)()
	}
	queryCtx, cancel := context.WithCancel(ctx)
	c.cancel.Store(&cancel)

	myGen := c.gen.Add(1)
	go func() {
		cands, err := c.provider.Lookup(queryCtx, raw)
		if err != nil || queryCtx.Err() != nil {
			return
		}
		if c.gen.Load() != myGen {
			return // superseded by a later Query call
		}
		onResult(cands)
	}()
}

// Cancel discards any in-flight query without starting a new one, used
// when the session resets or commits.
func (c *Client) Cancel() {
	if prev := c.cancel.Load(); prev != nil {
		(*prev)()
	}
	c.gen.Add(1)
}
