// ABOUTME: MCP tools that read the session: get_state, list_categories, get_diagnostics, reload.
// ABOUTME: Snapshots are flattened into compact JSON views for agents.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takubon0202/if-instagram-auto/internal/engine"
	"github.com/takubon0202/if-instagram-auto/internal/models"
)

const defaultDiagnosticsLimit = 20

func (s *Server) registerStateTools() {
	s.addTool(&gomcp.Tool{
		Name:        "get_state",
		Description: "Return the current browsing state: filter, view mode, displayed posts, pagination flags, and any open overlay.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleGetState)

	s.addTool(&gomcp.Tool{
		Name:        "list_categories",
		Description: "List the category labels available for filtering, and the story highlights.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListCategories)

	s.addTool(&gomcp.Tool{
		Name:        "get_diagnostics",
		Description: "Return the most recent intents applied to the session and the effects each produced.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"limit": {"type": "number", "description": "Maximum number of entries to return (default 20)"}
			}
		}`),
	}, s.handleGetDiagnostics)

	s.addTool(&gomcp.Tool{
		Name:        "reload",
		Description: "Reload posts, stories, highlights, and site config from the content source. Closes any open overlay.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleReload)
}

// postView is the per-post shape returned to agents.
type postView struct {
	Index    int      `json:"index"`
	ID       string   `json:"id"`
	Datetime string   `json:"datetime"`
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Labels   []string `json:"labels"`
	Slides   int      `json:"slides"`
}

type stateView struct {
	Status        string               `json:"status"`
	Error         string               `json:"error,omitempty"`
	Category      string               `json:"category"`
	ViewMode      string               `json:"view_mode"`
	Displayed     []postView           `json:"displayed"`
	FilteredCount int                  `json:"filtered_count"`
	TotalCount    int                  `json:"total_count"`
	Page          int                  `json:"page"`
	Loading       bool                 `json:"loading"`
	EndOfData     bool                 `json:"end_of_data"`
	Overlay       string               `json:"overlay"`
	Post          *engine.CarouselView `json:"post,omitempty"`
	Story         *storyView           `json:"story,omitempty"`
	ScrollOffset  int                  `json:"scroll_offset"`
}

type storyView struct {
	ID          string    `json:"id"`
	Index       int       `json:"index"`
	Count       int       `json:"count"`
	Highlight   string    `json:"highlight,omitempty"`
	Progress    float64   `json:"progress"`
	Bars        []float64 `json:"bars"`
	TextOverlay string    `json:"text_overlay,omitempty"`
	Link        string    `json:"link,omitempty"`
}

func newStateView(snap engine.Snapshot) stateView {
	v := stateView{
		Status:        string(snap.Status),
		Error:         snap.Error,
		Category:      snap.Category,
		ViewMode:      string(snap.ViewMode),
		Displayed:     make([]postView, len(snap.Displayed)),
		FilteredCount: snap.FilteredCount,
		TotalCount:    snap.TotalCount,
		Page:          snap.Page,
		Loading:       snap.Loading,
		EndOfData:     snap.EndOfData,
		Overlay:       string(snap.Overlay),
		Post:          snap.Post,
		ScrollOffset:  snap.ScrollOffset,
	}
	for i, p := range snap.Displayed {
		v.Displayed[i] = newPostView(i, p)
	}
	if st := snap.Story; st != nil {
		v.Story = &storyView{
			ID:          st.Story.ID,
			Index:       st.Index,
			Count:       st.Count,
			Highlight:   st.Highlight,
			Progress:    st.Progress,
			Bars:        st.Bars,
			TextOverlay: st.Story.TextOverlay,
		}
		if st.Story.Link != nil {
			v.Story.Link = st.Story.Link.URL
		}
	}
	return v
}

func newPostView(i int, p models.Post) postView {
	return postView{
		Index:    i,
		ID:       p.ID,
		Datetime: p.Datetime,
		Type:     string(p.Type),
		Title:    p.Title,
		Labels:   p.Labels(),
		Slides:   len(p.Media),
	}
}

// jsonResult marshals v as the tool's text content.
func jsonResult(v any) *gomcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("failed to encode result: %v", err)
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: string(data)}},
	}
}

func (s *Server) handleGetState(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return jsonResult(newStateView(s.runtime.Snapshot())), nil
}

func (s *Server) handleListCategories(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	snap := s.runtime.Snapshot()
	if snap.Status != engine.StatusReady {
		return toolError("content is not loaded (status: %s)", snap.Status), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Categories (%d):\n", len(snap.Categories)))
	sb.WriteString("- " + engine.AllCategories + "\n")
	for _, c := range snap.Categories {
		sb.WriteString("- " + c + "\n")
	}
	if len(snap.Highlights) > 0 {
		sb.WriteString(fmt.Sprintf("\nHighlights (%d):\n", len(snap.Highlights)))
		for _, h := range snap.Highlights {
			n := len(engine.StoriesForHighlight(snap.Stories, h.Name))
			sb.WriteString(fmt.Sprintf("- %s (%d stories)\n", h.Name, n))
		}
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: sb.String()}},
	}, nil
}

func (s *Server) handleGetDiagnostics(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		Limit int `json:"limit"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.Limit <= 0 {
		args.Limit = defaultDiagnosticsLimit
	}

	ring := s.runtime.Diag()
	if ring == nil {
		return toolError("diagnostics are not enabled for this session"), nil
	}
	return jsonResult(map[string]any{
		"session": ring.Session(),
		"counts":  ring.Counts(),
		"entries": ring.Last(args.Limit),
	}), nil
}

func (s *Server) handleReload(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	snap, err := s.runtime.Load(ctx, s.repo)
	if err != nil {
		s.logger.Error("reload failed", "error", err)
		return toolError("failed to reload content: %v", err), nil
	}
	return jsonResult(newStateView(snap)), nil
}

// unmarshalArgs decodes tool arguments, treating an absent payload as empty.
func unmarshalArgs(req *gomcp.CallToolRequest, v any) error {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...any) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
