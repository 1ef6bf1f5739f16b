package apiclient

import (
	"context"
	"sync"

	ierrors "github.com/pawbook/go-admin-client/internal/errors"
)

// refreshGate serializes token refreshes. The state machine has two
// states, idle and refreshing, and the transition is decided under the
// mutex so two 401s can never both start a refresh. Requests that find a
// refresh in flight enqueue a waiter channel; waiters are drained in
// arrival order and every one of them observes the same outcome.
type refreshGate struct {
	lock       sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

type refreshResult struct {
	token string
	err   error
}

// awaitRefresh returns the new access token once exactly one refresh has
// settled. The caller that flips the gate runs the refresh; everyone else
// waits on its outcome or on their own context.
func (c *Client) awaitRefresh(ctx context.Context) (string, error) {
	c.gate.lock.Lock()
	if c.gate.refreshing {
		waiter := make(chan refreshResult, 1)
		c.gate.waiters = append(c.gate.waiters, waiter)
		c.gate.lock.Unlock()

		select {
		case result := <-waiter:
			return result.token, result.err
		case <-ctx.Done():
			// An aborted caller rejects itself rather than hanging the
			// queue; the buffered channel lets the drain complete.
			return "", ctx.Err()
		}
	}
	c.gate.refreshing = true
	c.gate.lock.Unlock()

	result := c.runRefresh()

	c.gate.lock.Lock()
	c.gate.refreshing = false
	waiters := c.gate.waiters
	c.gate.waiters = nil
	c.gate.lock.Unlock()

	for _, waiter := range waiters {
		waiter <- result
	}
	return result.token, result.err
}

// runRefresh performs the single refresh under its own bounded context.
// The trigger request's context is deliberately not used: the outcome is
// shared by every queued request, and a timeout guarantees a hung refresh
// cannot stall the queue forever.
func (c *Client) runRefresh() refreshResult {
	ctx, cancel := context.WithTimeout(context.Background(), c.refreshTimeout)
	defer cancel()

	if !c.session.Refresh(ctx) {
		return refreshResult{err: ierrors.ErrRefreshFailed}
	}
	return refreshResult{token: c.session.AccessToken()}
}
