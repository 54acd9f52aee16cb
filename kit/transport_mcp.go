package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DecodeFunc extracts the typed request from MCP call arguments. A nil
// DecodeFunc registers a parameterless tool: the endpoint receives a nil
// request and any supplied arguments are ignored.
type DecodeFunc func(*mcp.CallToolRequest) (any, error)

// RegisterTool registers an Endpoint as an MCP tool on the given server.
//
// Tool failures are reported with CallToolResult.SetError and a nil Go error;
// returning a non-nil error from the handler would surface as a JSON-RPC
// protocol error instead of a tool error. String responses become the literal
// text payload; anything else is marshalled to JSON.
func RegisterTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode DecodeFunc) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var decoded any
		if decode != nil {
			var err error
			decoded, err = decode(req)
			if err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := endpoint(ctx, decoded)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(errors.New(err.Error()))
			return &res, nil
		}

		text, ok := resp.(string)
		if !ok {
			data, err := json.Marshal(resp)
			if err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("marshal: %w", err))
				return &res, nil
			}
			text = string(data)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

// DecodeJSON returns a DecodeFunc that unmarshals the call arguments into a
// fresh *T. Absent arguments decode to the zero value.
func DecodeJSON[T any]() DecodeFunc {
	return func(req *mcp.CallToolRequest) (any, error) {
		r := new(T)
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, r); err != nil {
				return nil, err
			}
		}
		return r, nil
	}
}
