package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meutreino/skill/internal/coach"
)

// --- Tool definitions ---

func identityOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("user_id", mcp.Description("Voice platform user id. Defaults to the server's configured user.")),
		mcp.WithString("email", mcp.Description("Email used to look up the user's workouts. Defaults to the configured email.")),
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)
	return mcp.NewTool(name, append(all, identityOptions()...)...)
}

var toolLaunch = newTool("launch",
	"Open the skill: greets the user and lists the available workouts. Moves any running session aside so it can be resumed.",
)

var toolStartWorkout = newTool("start_workout",
	"Start a workout by its spoken name, discarding any held session. Returns the first exercise.",
	mcp.WithString("workout_name", mcp.Required(), mcp.Description("Workout name as the user said it, e.g. 'Treino A'. Case-insensitive.")),
)

var toolInterval = newTool("interval",
	"Finish the current set: starts the rest interval, schedules the end-of-rest reminder and announces the next set.",
)

var toolResumeWorkout = newTool("resume_workout",
	"Resume the session that was stopped or interrupted.",
)

var toolStopWorkout = newTool("stop_workout",
	"Pause the session so it can be resumed later. The persisted position is kept.",
)

var toolEndWorkout = newTool("end_workout",
	"End the workout for good: clears the saved position and cancels the pending reminder.",
)

var toolHelp = newTool("help",
	"Explain how to use the coach.",
)

// --- Tool handlers ---

// identity resolves the caller: tool arguments override the context, which
// overrides the configured fallback.
func (h *handlers) identity(ctx context.Context, req mcp.CallToolRequest) coach.Identity {
	id := h.fallback
	if ctxID, ok := IdentityFromContext(ctx); ok {
		id = ctxID
	}
	if v := req.GetString("user_id", ""); v != "" {
		id.UserID = v
	}
	if v := req.GetString("email", ""); v != "" {
		id.Email = v
	}
	return id
}

func (h *handlers) turn(op coach.Operation) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		turn := coach.Request{Identity: h.identity(ctx, req)}
		if op == coach.OpStart {
			name, err := req.RequireString("workout_name")
			if err != nil {
				return mcp.NewToolResultError("workout_name parameter is required"), nil
			}
			turn.WorkoutName = name
		}

		prompt, err := h.turns.Dispatch(ctx, op, turn)
		if err != nil {
			h.log.Error("mcp turn", "op", op, "error", err)
			return mcp.NewToolResultError("turn failed: " + err.Error()), nil
		}

		result, err := mcp.NewToolResultJSON(prompt)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		result.IsError = prompt.Kind == coach.PromptFailure
		return result, nil
	}
}
