package mcp

import (
	"context"
	"encoding/json"

	"github.com/meutreino/skill/internal/coach"
)

// Dispatcher runs turns for MCP tools. Both *coach.Controller (local) and
// HTTPClient (remote via REST API) satisfy this interface.
type Dispatcher interface {
	Dispatch(ctx context.Context, op coach.Operation, req coach.Request) (coach.Prompt, error)
}

// SessionSource returns a JSON view of a user's in-memory session. It is
// optional; the session resource is only registered when the dispatcher
// also implements it.
type SessionSource interface {
	Session(ctx context.Context, userID string) (json.RawMessage, error)
}

// Compile-time check: *coach.Controller satisfies Dispatcher.
var _ Dispatcher = (*coach.Controller)(nil)
