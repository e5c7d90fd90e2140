package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id := h.fallback
	if ctxID, ok := IdentityFromContext(ctx); ok {
		id = ctxID
	}

	data, err := h.sessions.Session(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
