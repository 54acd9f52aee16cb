package kit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestChain_Order(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name+"_before")
				resp, err := next(ctx, req)
				order = append(order, name+"_after")
				return resp, err
			}
		}
	}

	base := func(_ context.Context, _ any) (any, error) {
		order = append(order, "endpoint")
		return "ok", nil
	}

	chained := Chain(mw("outer"), mw("inner"))(base)
	resp, err := chained(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp != "ok" {
		t.Fatalf("response: got %v", resp)
	}

	want := strings.Join([]string{
		"outer_before", "inner_before", "endpoint", "inner_after", "outer_after",
	}, ",")
	if got := strings.Join(order, ","); got != want {
		t.Fatalf("order: got %s, want %s", got, want)
	}
}

func TestChain_ErrorPropagation(t *testing.T) {
	errFail := errors.New("fail")
	base := func(_ context.Context, _ any) (any, error) {
		return nil, errFail
	}

	noop := func(next Endpoint) Endpoint { return next }
	chained := Chain(noop)(base)

	_, err := chained(context.Background(), nil)
	if !errors.Is(err, errFail) {
		t.Fatalf("error: got %v, want %v", err, errFail)
	}
}

func TestContext_Transport_Default(t *testing.T) {
	if v := GetTransport(context.Background()); v != "stdio" {
		t.Fatalf("default transport: got %q, want 'stdio'", v)
	}
}

func TestContext_Transport_Set(t *testing.T) {
	ctx := WithTransport(context.Background(), "quic")
	if v := GetTransport(ctx); v != "quic" {
		t.Fatalf("transport: got %q", v)
	}
}

func TestContext_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	if v := GetSessionID(ctx); v != "" {
		t.Fatalf("session_id default: got %q", v)
	}
	if v := GetRequestID(ctx); v != "" {
		t.Fatalf("request_id default: got %q", v)
	}
	if v := GetRemoteAddr(ctx); v != "" {
		t.Fatalf("remote_addr default: got %q", v)
	}
}

func TestContext_Carriers(t *testing.T) {
	ctx := WithSessionID(context.Background(), "sess_1")
	ctx = WithRequestID(ctx, "req_abc")
	ctx = WithRemoteAddr(ctx, "127.0.0.1:9999")
	if v := GetSessionID(ctx); v != "sess_1" {
		t.Fatalf("session_id: got %q", v)
	}
	if v := GetRequestID(ctx); v != "req_abc" {
		t.Fatalf("request_id: got %q", v)
	}
	if v := GetRemoteAddr(ctx); v != "127.0.0.1:9999" {
		t.Fatalf("remote_addr: got %q", v)
	}
}

var testImpl = &mcp.Implementation{Name: "kit-test", Version: "0.1.0"}

func toolSession(t *testing.T, register func(*mcp.Server)) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testImpl, nil)
	register(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func emptySchema() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func TestRegisterTool_StringResponseIsPlainText(t *testing.T) {
	session := toolSession(t, func(srv *mcp.Server) {
		RegisterTool(srv, &mcp.Tool{
			Name:        "greet",
			Description: "Return a fixed greeting",
			InputSchema: emptySchema(),
		}, func(_ context.Context, _ any) (any, error) {
			return "hello\nworld", nil
		}, nil)
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "greet"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatal("expected TextContent")
	}
	// Strings pass through verbatim — no JSON quoting.
	if tc.Text != "hello\nworld" {
		t.Fatalf("text: got %q", tc.Text)
	}
}

func TestRegisterTool_StructResponseIsJSON(t *testing.T) {
	session := toolSession(t, func(srv *mcp.Server) {
		RegisterTool(srv, &mcp.Tool{
			Name:        "count",
			Description: "Return a count",
			InputSchema: emptySchema(),
		}, func(_ context.Context, _ any) (any, error) {
			return map[string]any{"count": 3}, nil
		}, nil)
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "count"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	tc := result.Content[0].(*mcp.TextContent)
	if !strings.Contains(tc.Text, `"count":3`) {
		t.Fatalf("text: got %q", tc.Text)
	}
}

func TestRegisterTool_EndpointErrorBecomesToolError(t *testing.T) {
	session := toolSession(t, func(srv *mcp.Server) {
		RegisterTool(srv, &mcp.Tool{
			Name:        "boom",
			Description: "Always fails",
			InputSchema: emptySchema(),
		}, func(_ context.Context, _ any) (any, error) {
			return nil, errors.New("it broke")
		}, nil)
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "boom"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	// GetError always returns nil on clients; IsError is what crosses the wire.
	if !result.IsError {
		t.Fatal("expected tool error")
	}
}

func TestDecodeJSON_AbsentArguments(t *testing.T) {
	type req struct {
		Limit int `json:"limit"`
	}
	session := toolSession(t, func(srv *mcp.Server) {
		RegisterTool(srv, &mcp.Tool{
			Name:        "limited",
			Description: "Echo the limit",
			InputSchema: emptySchema(),
		}, func(_ context.Context, r any) (any, error) {
			return map[string]int{"limit": r.(*req).Limit}, nil
		}, DecodeJSON[req]())
	})

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: "limited"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc := result.Content[0].(*mcp.TextContent)
	if !strings.Contains(tc.Text, `"limit":0`) {
		t.Fatalf("text: got %q", tc.Text)
	}
}
