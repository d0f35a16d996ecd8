// Package remotetool implements the Remote Tool Connection Manager: a
// lifecycle (connect/disconnect) wrapped around a Caller invoking tools
// on an external tool-protocol server, grounded on runtime/mcp/caller.go's
// Caller/CallRequest/CallResponse contract.
package remotetool

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/sandipan1/hica/hicaerrors"
)

// Caller invokes tools on a remote tool-protocol server. Implementations
// adapt a concrete transport (stdio, HTTP, JSON-RPC) to this interface;
// the concrete server is out of scope for this module.
type Caller interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, name string, arguments json.RawMessage) (CallResult, error)
}

// ToolDescriptor describes a tool offered by the remote server.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// CallResult is the opaque result of a remote tool call. It may carry
// structured content, display content (text blocks), or both; the Tool
// Registry normalizes this into a ToolResult.
type CallResult struct {
	StructuredContent json.RawMessage
	TextContent       []string
}

const (
	disconnected int32 = 0
	connected    int32 = 1
)

// Connection manages the lifecycle of a single remote tool-protocol
// server connection. The zero value is not usable; construct with New.
//
// At most one call is in flight at a time, enforced with a size-1
// semaphore channel rather than a bare sync.Mutex so acquisition honors
// caller-supplied context cancellation per the concurrency model's
// cancellation policy. An optional rate.Limiter additionally throttles
// call throughput when the caller configures one via WithRateLimit.
type Connection struct {
	caller Caller
	state  atomic.Int32
	sem    chan struct{}
	rate   *rate.Limiter
}

// Option configures a Connection at construction time.
type Option func(*Connection)

// WithRateLimit caps the call rate to the remote server at callsPerSecond,
// using a token bucket via golang.org/x/time/rate, independent of the
// single-in-flight-call invariant enforced unconditionally by sem.
func WithRateLimit(callsPerSecond float64, burst int) Option {
	return func(c *Connection) {
		c.rate = rate.NewLimiter(rate.Limit(callsPerSecond), burst)
	}
}

// New constructs a Connection wrapping caller. The connection starts
// disconnected.
func New(caller Caller, opts ...Option) *Connection {
	c := &Connection{caller: caller, sem: make(chan struct{}, 1)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect transitions disconnected -> connected. It is a no-op if already
// connected.
func (c *Connection) Connect(ctx context.Context) error {
	c.state.Store(connected)
	return nil
}

// Disconnect transitions connected -> disconnected. It is a no-op if
// already disconnected.
func (c *Connection) Disconnect(ctx context.Context) error {
	c.state.Store(disconnected)
	return nil
}

// IsConnected reports the current lifecycle state.
func (c *Connection) IsConnected() bool {
	return c.state.Load() == connected
}

// ScopedConnect connects, runs fn, and guarantees Disconnect runs on every
// exit path (success, error, or panic-unwind via defer), mirroring the
// original's MCPConnectionManager context-manager semantics.
func (c *Connection) ScopedConnect(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Disconnect(ctx)
	return fn(ctx)
}

func (c *Connection) acquire(ctx context.Context) error {
	if !c.IsConnected() {
		return hicaerrors.New(hicaerrors.NotConnected, "not connected; call Connect() first")
	}
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	if c.rate != nil {
		if err := c.rate.Wait(ctx); err != nil {
			<-c.sem
			return err
		}
	}
	return nil
}

func (c *Connection) release() {
	<-c.sem
}

// ListTools returns the tools offered by the remote server. Fails with
// NotConnected if called before Connect.
func (c *Connection) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	defer c.release()
	return c.caller.ListTools(ctx)
}

// CallTool invokes a tool on the remote server. Fails with NotConnected
// if called before Connect.
func (c *Connection) CallTool(ctx context.Context, name string, arguments json.RawMessage) (CallResult, error) {
	if err := c.acquire(ctx); err != nil {
		return CallResult{}, err
	}
	defer c.release()
	return c.caller.CallTool(ctx, name, arguments)
}
