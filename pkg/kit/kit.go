// CLAUDE:SUMMARY Transport-agnostic endpoint kit — Endpoint/Middleware types, request-scoped context values, MCP tool bridge
package kit

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Endpoint is one transport-agnostic operation: decoded request in,
// encodable response out. HTTP handlers and MCP tools both terminate in
// an Endpoint so middleware (audit, tracing) applies uniformly.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

type ctxKey int

const (
	ctxTransport ctxKey = iota
	ctxUserID
	ctxRequestID
)

func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, ctxTransport, transport)
}

func GetTransport(ctx context.Context) string {
	s, _ := ctx.Value(ctxTransport).(string)
	return s
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

func GetUserID(ctx context.Context) string {
	s, _ := ctx.Value(ctxUserID).(string)
	return s
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestID, requestID)
}

func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestID).(string)
	return s
}

// MCPDecodeResult carries the decoded request out of an MCP tool's
// argument decoder.
type MCPDecodeResult struct {
	Request any
}

// RegisterMCPTool binds an Endpoint to an MCP tool: decode arguments,
// mark the transport, run the endpoint, JSON-encode the result. Errors
// surface as MCP tool errors, not protocol failures.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode func(mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx = WithTransport(ctx, "mcp")

		decoded, err := decode(req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resp, err := endpoint(ctx, decoded.Request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}
