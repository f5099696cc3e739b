// ABOUTME: MCP tools that dispatch engine intents into the browsing session.
// ABOUTME: One tool per user intent; each returns the resulting state.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
)

// intentTool describes a tool that turns its arguments into one intent.
type intentTool struct {
	name        string
	description string
	schema      string
	build       func(args json.RawMessage) (engine.Intent, error)
}

const emptySchema = `{"type": "object", "properties": {}}`

func noArgs(in engine.Intent) func(json.RawMessage) (engine.Intent, error) {
	return func(json.RawMessage) (engine.Intent, error) { return in, nil }
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}

func direction(d int) error {
	if d != -1 && d != 1 {
		return fmt.Errorf("direction must be -1 or 1, got %d", d)
	}
	return nil
}

var intentTools = []intentTool{
	{
		name:        "set_filter",
		description: "Filter the feed to posts whose highlight, track, or category equals the label. Use \"all\" to clear. Resets pagination.",
		schema: `{
			"type": "object",
			"properties": {
				"category": {"type": "string", "description": "Category label, or \"all\""}
			},
			"required": ["category"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Category string `json:"category"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if args.Category == "" {
				return nil, fmt.Errorf("category is required")
			}
			return engine.SetFilter{Category: args.Category}, nil
		},
	},
	{
		name:        "load_more",
		description: "Append the next page of 12 posts, if any remain.",
		schema:      emptySchema,
		build:       noArgs(engine.LoadMore{}),
	},
	{
		name:        "toggle_view_mode",
		description: "Switch between grid and feed layouts.",
		schema:      emptySchema,
		build:       noArgs(engine.ToggleViewMode{}),
	},
	{
		name:        "open_post",
		description: "Open the detail view for the displayed post at index.",
		schema: `{
			"type": "object",
			"properties": {
				"index": {"type": "number", "description": "Position in the displayed list (0-based)"}
			},
			"required": ["index"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Index int `json:"index"`
			}](raw)
			return engine.OpenPost{Index: args.Index}, err
		},
	},
	{
		name:        "navigate_carousel",
		description: "Move the open post's carousel one slide. Stops at the first and last slide.",
		schema: `{
			"type": "object",
			"properties": {
				"direction": {"type": "number", "enum": [-1, 1], "description": "-1 for previous, 1 for next"}
			},
			"required": ["direction"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Direction int `json:"direction"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if err := direction(args.Direction); err != nil {
				return nil, err
			}
			return engine.NavigateCarousel{Direction: args.Direction}, nil
		},
	},
	{
		name:        "jump_to_slide",
		description: "Show the given slide of the open post.",
		schema: `{
			"type": "object",
			"properties": {
				"index": {"type": "number", "description": "Slide index (0-based)"}
			},
			"required": ["index"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Index int `json:"index"`
			}](raw)
			return engine.JumpToSlide{Index: args.Index}, err
		},
	},
	{
		name:        "close_post",
		description: "Close the post detail view and restore the scroll position.",
		schema:      emptySchema,
		build:       noArgs(engine.ClosePost{}),
	},
	{
		name:        "open_stories",
		description: "Open the story viewer over all stories, starting at index. Stories advance automatically.",
		schema: `{
			"type": "object",
			"properties": {
				"index": {"type": "number", "description": "Starting story (0-based, default 0)"}
			}
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Index int `json:"index"`
			}](raw)
			return engine.OpenStories{Index: args.Index}, err
		},
	},
	{
		name:        "open_highlight",
		description: "Open the story viewer over the stories tagged with a highlight name.",
		schema: `{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Highlight name"}
			},
			"required": ["name"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Name string `json:"name"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if args.Name == "" {
				return nil, fmt.Errorf("name is required")
			}
			return engine.OpenHighlight{Highlight: args.Name}, nil
		},
	},
	{
		name:        "navigate_story",
		description: "Move to the previous or next story. Moving past either end closes the viewer.",
		schema: `{
			"type": "object",
			"properties": {
				"direction": {"type": "number", "enum": [-1, 1], "description": "-1 for previous, 1 for next"}
			},
			"required": ["direction"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Direction int `json:"direction"`
			}](raw)
			if err != nil {
				return nil, err
			}
			if err := direction(args.Direction); err != nil {
				return nil, err
			}
			return engine.NavigateStory{Direction: args.Direction}, nil
		},
	},
	{
		name:        "close_story",
		description: "Close the story viewer and stop its timer.",
		schema:      emptySchema,
		build:       noArgs(engine.CloseStory{}),
	},
	{
		name:        "scroll",
		description: "Report the viewport scroll offset. Used to test scroll restoration around the post detail view.",
		schema: `{
			"type": "object",
			"properties": {
				"offset": {"type": "number", "description": "Scroll offset in viewport units"}
			},
			"required": ["offset"]
		}`,
		build: func(raw json.RawMessage) (engine.Intent, error) {
			args, err := decode[struct {
				Offset int `json:"offset"`
			}](raw)
			return engine.Scrolled{Offset: args.Offset}, err
		},
	},
}

func (s *Server) registerIntentTools() {
	for _, tool := range intentTools {
		s.addTool(&gomcp.Tool{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: json.RawMessage(tool.schema),
		}, s.intentHandler(tool))
	}
}

func (s *Server) intentHandler(tool intentTool) gomcp.ToolHandler {
	return func(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		var raw json.RawMessage
		if req.Params != nil {
			raw = req.Params.Arguments
		}
		intent, err := tool.build(raw)
		if err != nil {
			return toolError("invalid arguments: %v", err), nil
		}

		if snap := s.runtime.Snapshot(); snap.Status != engine.StatusReady {
			return toolError("content is not loaded (status: %s)", snap.Status), nil
		}

		snap, err := s.runtime.Dispatch(ctx, intent)
		if err != nil {
			return toolError("failed to apply %s: %v", intent.Name(), err), nil
		}
		s.logger.Debug("mcp intent applied", "tool", tool.name, "intent", intent.Name())
		return jsonResult(newStateView(snap)), nil
	}
}
