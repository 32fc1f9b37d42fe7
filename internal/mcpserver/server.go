package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nhl-travel-service/internal/app/picks"
	"nhl-travel-service/internal/logging"
)

const implementationName = "nhl-travel"

// TravelArgs are the inputs for travel_for_date.
type TravelArgs struct {
	Date         string `json:"date,omitempty" jsonschema:"Target date YYYY-MM-DD (default today)"`
	LookbackDays *int   `json:"lookback_days,omitempty" jsonschema:"Days before the target to include (default from config)"`
}

// MatchupArgs are the inputs for the best_matchups tools.
type MatchupArgs struct {
	Date           string   `json:"date,omitempty" jsonschema:"Anchor date YYYY-MM-DD (default today)"`
	When           string   `json:"when,omitempty" jsonschema:"today|tomorrow|future (default today)"`
	LookbackDays   *int     `json:"lookback_days,omitempty" jsonschema:"Travel lookback in days"`
	Threshold      *float64 `json:"threshold_km,omitempty" jsonschema:"Minimum away travel in km"`
	NightStartHour *int     `json:"night_start_hour,omitempty" jsonschema:"Earliest local start hour 0-23"`
}

// ToolInfo names a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server exposes the picks service as MCP tools.
type Server struct {
	picks    *picks.Service
	logger   *slog.Logger
	mcp      *mcp.Server
	registry []ToolInfo
}

// New registers the travel and matchup tools.
func New(picksSvc *picks.Service, version string, logger *slog.Logger) *Server {
	s := &Server{
		picks:  picksSvc,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    implementationName,
			Version: version,
		}, nil),
	}

	addTool(s, &mcp.Tool{
		Name:        "travel_for_date",
		Description: "Kilometers each team playing on a date traveled over the lookback window",
	}, s.travelForDate)
	addTool(s, &mcp.Tool{
		Name:        "best_matchups_strict",
		Description: "Night games where the away team is on the second night of a back-to-back and cleared the strict travel threshold",
	}, s.matchups(picks.Strict))
	addTool(s, &mcp.Tool{
		Name:        "best_matchups_relaxed",
		Description: "Night games where the away team cleared the relaxed travel threshold, rest ignored",
	}, s.matchups(picks.Relaxed))

	return s
}

// Handler serves MCP over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

// Tools lists registered tools in registration order.
func (s *Server) Tools() []ToolInfo {
	return append([]ToolInfo(nil), s.registry...)
}

func (s *Server) travelForDate(ctx context.Context, _ *mcp.CallToolRequest, args TravelArgs) (*mcp.CallToolResult, any, error) {
	resp, err := s.picks.Travel(ctx, picks.Overrides{Date: args.Date, LookbackDays: args.LookbackDays})
	if err != nil {
		return s.toolError(ctx, "travel_for_date", err), nil, nil
	}
	return toolJSON(json.MarshalIndent(resp, "", "  "))
}

func (s *Server) matchups(mode picks.Mode) func(context.Context, *mcp.CallToolRequest, MatchupArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args MatchupArgs) (*mcp.CallToolResult, any, error) {
		whenArg := args.When
		if whenArg == "" {
			whenArg = string(picks.Today)
		}
		when, err := picks.ParseWhen(whenArg)
		if err != nil {
			return s.toolError(ctx, "best_matchups_"+string(mode), err), nil, nil
		}
		list, err := s.picks.Picks(ctx, mode, when, picks.Overrides{
			Date:           args.Date,
			LookbackDays:   args.LookbackDays,
			Threshold:      args.Threshold,
			NightStartHour: args.NightStartHour,
		})
		if err != nil {
			return s.toolError(ctx, "best_matchups_"+string(mode), err), nil, nil
		}
		return toolJSON(json.MarshalIndent(map[string]any{
			"mode":     mode,
			"when":     when,
			"matchups": list,
		}, "", "  "))
	}
}

func (s *Server) toolError(ctx context.Context, tool string, err error) *mcp.CallToolResult {
	logging.Warn(logging.FromContext(ctx, s.logger), "mcp tool failed",
		slog.String("tool", tool),
		slog.Any("err", err),
	)
	return toolError(err)
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.registry = append(s.registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.mcp, tool, handler)
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
