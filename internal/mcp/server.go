package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meutreino/skill/internal/coach"
)

type contextKey int

const identityKey contextKey = iota

// IdentityFromContext extracts the identity injected by the transport layer.
func IdentityFromContext(ctx context.Context) (coach.Identity, bool) {
	id, ok := ctx.Value(identityKey).(coach.Identity)
	return id, ok
}

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, id coach.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// New creates an MCP server with the workout tools registered. fallback is
// the identity used when neither the context nor the tool arguments carry one.
func New(turns Dispatcher, fallback coach.Identity, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MeuTreino", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MeuTreino guided workout coach. Launch, start a workout by name, call interval after each set, and stop, resume or end the session. Every tool returns the prompt the voice assistant would speak."),
	)

	h := &handlers{turns: turns, fallback: fallback, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolLaunch, Handler: h.turn(coach.OpLaunch)},
		server.ServerTool{Tool: toolStartWorkout, Handler: h.turn(coach.OpStart)},
		server.ServerTool{Tool: toolInterval, Handler: h.turn(coach.OpInterval)},
		server.ServerTool{Tool: toolResumeWorkout, Handler: h.turn(coach.OpResume)},
		server.ServerTool{Tool: toolStopWorkout, Handler: h.turn(coach.OpStop)},
		server.ServerTool{Tool: toolEndWorkout, Handler: h.turn(coach.OpEnd)},
		server.ServerTool{Tool: toolHelp, Handler: h.turn(coach.OpHelp)},
	)

	if src, ok := turns.(SessionSource); ok {
		h.sessions = src
		s.AddResource(resCurrentSession, h.currentSession)
	}

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	turns    Dispatcher
	sessions SessionSource
	fallback coach.Identity
	log      *slog.Logger
}

var resCurrentSession = mcp.NewResource(
	"meutreino://session",
	"Current Session",
	mcp.WithResourceDescription("In-memory state of the caller's workout session: status, position and held session"),
	mcp.WithMIMEType("application/json"),
)
