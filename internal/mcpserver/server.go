// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the picker's month grid and the manageData procedure as tools
// for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/calpick/internal/apperr"
	"github.com/starford/calpick/internal/calendar"
	"github.com/starford/calpick/internal/manage"
	"github.com/starford/calpick/internal/picker"
)

// GridFormatURI identifies the grid format resource.
const GridFormatURI = "calpick://grid-format"

// Server wraps the MCP server with calpick tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *manage.Service
	clock   calendar.Clock
	labeler *calendar.Labeler
}

// New creates a new MCP server with all calpick tools registered.
func New(svc *manage.Service, clock calendar.Clock, labeler *calendar.Labeler) *Server {
	s := &Server{svc: svc, clock: clock, labeler: labeler}

	s.mcp = server.NewMCPServer(
		"calpick",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("month_grid",
		mcp.WithDescription("Render the day grid of one month as JSON. "+
			"Read the calpick://grid-format resource for the cell layout."),
		mcp.WithNumber("year", mcp.Description("Four digit year (default: current year)")),
		mcp.WithNumber("month", mcp.Description("Month 1-12 (default: current month)")),
		mcp.WithString("selected", mcp.Description("Optional YYYY-MM-DD date inside the month to mark as selected")),
	), s.monthGrid)

	s.mcp.AddTool(mcp.NewTool("manage_data",
		mcp.WithDescription("Record a picked date and return its weekday, distance from today and how often it was picked."),
		mcp.WithString("selectedDate", mcp.Required(), mcp.Description("Date in YYYY-MM-DD form")),
	), s.manageData)

	s.mcp.AddTool(mcp.NewTool("list_selections",
		mcp.WithDescription("List the most recently picked dates, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 20)")),
	), s.listSelections)

	s.mcp.AddResource(
		mcp.NewResource(GridFormatURI, "Month Grid Format",
			mcp.WithResourceDescription("Layout of the month grid returned by month_grid."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGridFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) monthGrid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := calendar.YearMonthOf(s.clock.Now())
	year := req.GetInt("year", now.Year)
	month := req.GetInt("month", int(now.Month))
	if month < 1 || month > 12 {
		return mcp.NewToolResultError(fmt.Sprintf("month out of range: %d", month)), nil
	}
	if year < 1 || year > 9999 {
		return mcp.NewToolResultError(fmt.Sprintf("year out of range: %d", year)), nil
	}

	ym := calendar.YearMonth{Year: year, Month: time.Month(month)}
	p := picker.New(s.clock, s.labeler, nil, picker.WithDisplayed(ym))
	view := p.View()

	if raw := req.GetString("selected", ""); raw != "" {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		view, err = p.SelectDay(ctx, date)
		if errors.Is(err, apperr.ErrNotSelectable) {
			return mcp.NewToolResultError(fmt.Sprintf("%s is not in %s", date, ym)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return jsonResult(view)
}

func (s *Server) manageData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("selectedDate")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := manage.ValidateDate(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.ManageData(manage.WithSession(ctx, "mcp"), date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) listSelections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Recent(ctx, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no selections recorded"), nil
	}
	return jsonResult(items)
}

func (s *Server) readGridFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GridFormatURI,
			MIMEType: "text/markdown",
			Text:     GridFormatContract,
		},
	}, nil
}
