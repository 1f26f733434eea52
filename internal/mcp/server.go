// Package mcp registers the council's debate tools on an MCP server so
// any MCP client can open debates, follow them, and pull verdicts.
package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quorumlabs/council/internal/council"
	"github.com/quorumlabs/council/internal/persona"
	"github.com/quorumlabs/council/pkg/audit"
	"github.com/quorumlabs/council/pkg/kit"
)

// NewServer creates an MCPServer with all council tools registered.
func NewServer(manager *council.Manager, auditLog audit.Logger) *server.MCPServer {
	srv := server.NewMCPServer(
		"council",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerStartDebate(srv, manager, auditLog)
	registerGetDebate(srv, manager)
	registerListDebates(srv, manager)
	registerListPersonas(srv)
	registerGenerateVerdict(srv, manager, auditLog)

	return srv
}

// --- start_debate ---

type startDebateReq struct {
	Topic       string   `json:"topic"`
	UserContext string   `json:"user_context"`
	UserProfile string   `json:"user_profile"`
	Topics      []string `json:"topics"`
}

func registerStartDebate(srv *server.MCPServer, manager *council.Manager, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*startDebateReq)
		if r.Topic == "" {
			return nil, errors.New("topic is required")
		}
		sess, err := manager.StartDebate(ctx, r.Topic, r.UserContext, r.UserProfile, persona.AutoStaff(r.Topics))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"id":     sess.ID,
			"agents": sess.Engine.Configs(),
			"status": sess.Engine.Status(),
		}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "start_debate")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic":        map[string]string{"type": "string", "description": "The question to debate"},
			"user_context": map[string]string{"type": "string", "description": "Background about the asker's situation"},
			"user_profile": map[string]string{"type": "string", "description": "How the final verdict should address the asker"},
			"topics":       map[string]any{"type": "array", "items": map[string]string{"type": "string"}, "description": "Staffing hints matched against persona affinities"},
		},
		"required": []string{"topic"},
	})
	tool := mcp.NewToolWithRawSchema("start_debate", "Open a council debate on a topic and begin the turn loop", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		r := &startDebateReq{
			Topic:       stringArg(args, "topic"),
			UserContext: stringArg(args, "user_context"),
			UserProfile: stringArg(args, "user_profile"),
		}
		if topics, ok := args["topics"].([]any); ok {
			for _, v := range topics {
				if s, ok := v.(string); ok {
					r.Topics = append(r.Topics, s)
				}
			}
		}
		return &kit.MCPDecodeResult{Request: r}, nil
	})
}

// --- get_debate ---

type debateIDReq struct {
	ID string `json:"id"`
}

func registerGetDebate(srv *server.MCPServer, manager *council.Manager) {
	var endpoint kit.Endpoint = func(_ context.Context, request any) (any, error) {
		r := request.(*debateIDReq)
		sess := manager.Get(r.ID)
		if sess == nil {
			return nil, council.ErrSessionNotFound
		}
		return map[string]any{
			"id":       sess.ID,
			"topic":    sess.Engine.Topic(),
			"messages": sess.Engine.Messages(),
			"status":   sess.Engine.Status(),
			"verdict":  sess.Engine.Verdict(),
		}, nil
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]string{"type": "string", "description": "Debate session ID"},
		},
		"required": []string{"id"},
	})
	tool := mcp.NewToolWithRawSchema("get_debate", "Fetch a debate's transcript, status, and verdict if concluded", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &debateIDReq{ID: stringArg(req.GetArguments(), "id")}}, nil
	})
}

// --- list_debates ---

func registerListDebates(srv *server.MCPServer, manager *council.Manager) {
	var endpoint kit.Endpoint = func(_ context.Context, _ any) (any, error) {
		sessions := manager.List()
		out := make([]map[string]any, 0, len(sessions))
		for _, s := range sessions {
			out = append(out, map[string]any{
				"id":     s.ID,
				"topic":  s.Engine.Topic(),
				"status": s.Engine.Status(),
			})
		}
		return map[string]any{"debates": out}, nil
	}

	schema, _ := json.Marshal(map[string]any{"type": "object", "properties": map[string]any{}})
	tool := mcp.NewToolWithRawSchema("list_debates", "List live debate sessions, newest first", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	})
}

// --- list_personas ---

func registerListPersonas(srv *server.MCPServer) {
	var endpoint kit.Endpoint = func(_ context.Context, _ any) (any, error) {
		return map[string]any{"personas": persona.List()}, nil
	}

	schema, _ := json.Marshal(map[string]any{"type": "object", "properties": map[string]any{}})
	tool := mcp.NewToolWithRawSchema("list_personas", "List the persona catalog with roles and topic affinities", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	})
}

// --- generate_verdict ---

func registerGenerateVerdict(srv *server.MCPServer, manager *council.Manager, auditLog audit.Logger) {
	var endpoint kit.Endpoint = func(ctx context.Context, request any) (any, error) {
		r := request.(*debateIDReq)
		verdict, err := manager.GenerateVerdict(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"id": r.ID, "verdict": verdict}, nil
	}
	if auditLog != nil {
		endpoint = audit.Middleware(auditLog, "generate_verdict")(endpoint)
	}

	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]string{"type": "string", "description": "Debate session ID"},
		},
		"required": []string{"id"},
	})
	tool := mcp.NewToolWithRawSchema("generate_verdict", "Stop the debate if still running and synthesize the final verdict", schema)

	kit.RegisterMCPTool(srv, tool, endpoint, func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: &debateIDReq{ID: stringArg(req.GetArguments(), "id")}}, nil
	})
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
