// Package envtool exposes the debug_env diagnostic tool: the process
// environment rendered as NAME=VALUE lines with sensitive values masked.
package envtool

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/leynos/env-debug-mcp/kit"
	"github.com/leynos/env-debug-mcp/redact"
)

// AuditFunc is called after every tool invocation with its outcome.
type AuditFunc func(ctx context.Context, tool string, duration time.Duration, err error)

// Service owns the snapshot source and the hooks around tool calls.
type Service struct {
	snapshot func() []redact.Pair
	logger   *slog.Logger
	audit    AuditFunc
}

// Option configures a Service.
type Option func(*Service)

// WithSnapshot replaces the environment source. Tests inject fixed pairs
// here; production uses the process environment.
func WithSnapshot(fn func() []redact.Pair) Option {
	return func(svc *Service) { svc.snapshot = fn }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) { svc.logger = logger }
}

// WithAudit sets the invocation audit hook.
func WithAudit(fn AuditFunc) Option {
	return func(svc *Service) { svc.audit = fn }
}

// New creates the service. By default it snapshots the live process
// environment on every call.
func New(opts ...Option) *Service {
	svc := &Service{
		snapshot: func() []redact.Pair { return redact.FromEnviron(os.Environ()) },
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// DebugEnv renders the current snapshot with sensitive values masked.
// Total over any snapshot; never returns an error.
func (svc *Service) DebugEnv() string {
	return redact.Render(svc.snapshot())
}

// instrument wraps an endpoint with duration logging and the audit hook.
// The hook runs even when the endpoint fails.
func (svc *Service) instrument(tool string, next kit.Endpoint) kit.Endpoint {
	return func(ctx context.Context, req any) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		duration := time.Since(start)

		svc.logger.Debug("tool call",
			"tool", tool,
			"transport", kit.GetTransport(ctx),
			"session", kit.GetSessionID(ctx),
			"duration_ms", duration.Milliseconds(),
			"ok", err == nil)
		if svc.audit != nil {
			svc.audit(ctx, tool, duration, err)
		}
		return resp, err
	}
}
