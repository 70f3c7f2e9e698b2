package httpclient

import (
	"context"
	"errors"
)

var errReplay = errors.New("aborted for replay")

// Cancellation merges the caller's context with an internal abort the client
// uses to interrupt a request so it can be replayed after a credential
// refresh. Either source cancels Context.
type Cancellation struct {
	caller context.Context
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewCancellation derives a Cancellation from the caller's context.
func NewCancellation(caller context.Context) *Cancellation {
	ctx, cancel := context.WithCancelCause(caller)
	return &Cancellation{caller: caller, ctx: ctx, cancel: cancel}
}

// Context is cancelled when either the caller or the client aborts.
func (c *Cancellation) Context() context.Context {
	return c.ctx
}

// Done is closed once the combined context is cancelled.
func (c *Cancellation) Done() <-chan struct{} {
	return c.ctx.Done()
}

// ByCaller reports whether the caller's context has ended. It takes
// precedence over ForReplay.
func (c *Cancellation) ByCaller() bool {
	return c.caller.Err() != nil
}

// ForReplay reports whether the client aborted the request for replay and
// the caller has not cancelled it.
func (c *Cancellation) ForReplay() bool {
	return !c.ByCaller() && errors.Is(context.Cause(c.ctx), errReplay)
}

// Abort interrupts the request so it can be replayed.
func (c *Cancellation) Abort() {
	c.cancel(errReplay)
}

// Release frees the derived context once the request has settled.
func (c *Cancellation) Release() {
	c.cancel(context.Canceled)
}
