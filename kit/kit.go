// Package kit holds the transport-neutral endpoint plumbing shared by the
// tool host: a typed endpoint signature, middleware chaining, context
// carriers for request identity, and the bridge onto an MCP server.
package kit

import "context"

// Endpoint is the transport-neutral unit of work: decode happens before it,
// encode after it, middleware around it.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour (audit, logging).
type Middleware func(Endpoint) Endpoint

// Chain composes middleware so the first argument is outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
