// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Fehu task matrix as tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/fehu/internal/ledger"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/taskservice"
)

// Server wraps the MCP server with Fehu tools.
type Server struct {
	mcp *server.MCPServer
	svc *taskservice.Service
}

// New creates a new MCP server with all Fehu tools registered.
func New(svc *taskservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Fehu",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("classify_task",
		mcp.WithDescription("Preview how a task text would be classified on the "+
			"energy and money axes, without creating a task. Read the "+
			"fehu://matrix-guide resource for the quadrant framework."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Task text to classify")),
	), s.classifyTask)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a task. Classification runs automatically; "+
			"optional energy/money values override the suggestion and teach the "+
			"classifier when they disagree with it."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes")),
		mcp.WithString("energy", mcp.Description("Override energy side: gives or takes")),
		mcp.WithString("money", mcp.Description("Override money side: makes or takes")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, optionally filtered by quadrant "+
			"(PROTECT, PRIORITIZE, DELETE, DELEGATE) or a search query."),
		mcp.WithString("quadrant", mcp.Description("Optional quadrant filter")),
		mcp.WithString("query", mcp.Description("Optional substring search over title and notes")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task by id. Deleting an unknown id is a harmless no-op."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Task id")),
	), s.deleteTask)

	s.mcp.AddTool(mcp.NewTool("learn_rule",
		mcp.WithDescription("Record a confirmed classification for an exact task title "+
			"so future classifications of the same title reuse it."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title the rule applies to")),
		mcp.WithString("energy", mcp.Required(), mcp.Description("Energy side: gives or takes")),
		mcp.WithString("money", mcp.Required(), mcp.Description("Money side: makes or takes")),
	), s.learnRule)

	s.mcp.AddTool(mcp.NewTool("export_state",
		mcp.WithDescription("Export the full application state (tasks and learned rules) "+
			"as the versioned JSON document."),
	), s.exportState)

	// Resource: the quadrant framework guide.
	s.mcp.AddResource(
		mcp.NewResource("fehu://matrix-guide", "Matrix Guide",
			mcp.WithResourceDescription("The energy/money quadrant framework and classification rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMatrixGuideResource,
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

// optionalString reads a string argument that may be absent.
func optionalString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func parseEnergy(v string) (*models.EnergySide, error) {
	switch v {
	case "":
		return nil, nil
	case string(models.EnergyGives), string(models.EnergyTakes):
		side := models.EnergySide(v)
		return &side, nil
	default:
		return nil, fmt.Errorf("energy must be gives or takes, got %q", v)
	}
}

func parseMoney(v string) (*models.MoneySide, error) {
	switch v {
	case "":
		return nil, nil
	case string(models.MoneyMakes), string(models.MoneyTakes):
		side := models.MoneySide(v)
		return &side, nil
	default:
		return nil, fmt.Errorf("money must be makes or takes, got %q", v)
	}
}

func (s *Server) classifyTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	suggestion := s.svc.Classify(ctx, text)
	out, _ := json.MarshalIndent(map[string]any{
		"suggestion": suggestion,
		"quadrant":   models.QuadrantOf(suggestion.SuggestedEnergy, suggestion.SuggestedMoney),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes := optionalString(req, "notes")

	energy, err := parseEnergy(optionalString(req, "energy"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	money, err := parseMoney(optionalString(req, "money"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := s.svc.AddTask(ctx, title, notes, ledger.Overrides{Energy: energy, Money: money})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add task: %v", err)), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"task":     task,
		"quadrant": task.Quadrant(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := ledger.NewFilter()
	f.Query = optionalString(req, "query")

	if q := optionalString(req, "quadrant"); q != "" {
		switch models.Quadrant(q) {
		case models.QuadrantProtect, models.QuadrantPrioritize,
			models.QuadrantDelete, models.QuadrantDelegate:
			f.Quadrant = models.Quadrant(q)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown quadrant %q", q)), nil
		}
	}

	tasks := s.svc.ListTasks(ctx, f)
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	deleted, err := s.svc.DeleteTask(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("delete task: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultText(fmt.Sprintf("no task with id %s (nothing to do)", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted task %s", id)), nil
}

func (s *Server) learnRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	energyStr, err := req.RequireString("energy")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	moneyStr, err := req.RequireString("money")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	energy, err := parseEnergy(energyStr)
	if err != nil || energy == nil {
		return mcp.NewToolResultError("energy must be gives or takes"), nil
	}
	money, err := parseMoney(moneyStr)
	if err != nil || money == nil {
		return mcp.NewToolResultError("money must be makes or takes"), nil
	}

	if err := s.svc.LearnRule(ctx, title, *energy, *money); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("learn rule: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("learned rule for %q: energy %s, money %s", title, *energy, *money)), nil
}

func (s *Server) exportState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blob, err := s.svc.ExportState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export: %v", err)), nil
	}
	return mcp.NewToolResultText(string(blob)), nil
}

func (s *Server) readMatrixGuideResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     MatrixGuide,
		},
	}, nil
}
