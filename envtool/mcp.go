package envtool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/leynos/env-debug-mcp/kit"
)

// RegisterMCP registers the envtool tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerDebugEnv(srv)
}

func (svc *Service) registerDebugEnv(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name: "debug_env",
		Description: "Return the process environment as newline-separated NAME=VALUE lines. " +
			"Values of variables whose name contains KEY, TOKEN, CRED or PASS have " +
			"alphanumeric characters replaced with asterisks.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	endpoint := func(_ context.Context, _ any) (any, error) {
		return svc.DebugEnv(), nil
	}

	kit.RegisterTool(srv, tool, svc.instrument("debug_env", endpoint), nil)
}
