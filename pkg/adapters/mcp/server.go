package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/session"
)

// StepResponse is the unified result of every session tool: the menu to
// continue with, or the finished value on the terminal transition.
type StepResponse struct {
	SessionID string          `json:"session_id" jsonschema_description:"The session this step belongs to"`
	Done      bool            `json:"done" jsonschema_description:"True once the value is finished and the session ended"`
	Value     map[string]any  `json:"value,omitempty" jsonschema_description:"The finished value, present only when done"`
	Options   *domain.Options `json:"options,omitempty" jsonschema_description:"The menu to answer next"`
}

// Server exposes builder sessions as MCP tools, so a model can fill a form
// step by step over stdio.
type Server struct {
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for tool handling events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server over a session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		mcpServer: server.NewMCPServer("espalier-mcp", strings.TrimSpace(espalier.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_session",
		mcp.WithDescription("Start a new form session and return its first menu."),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	optionsTool := mcp.NewTool("get_options",
		mcp.WithDescription("Return the current menu of a session: a prompt plus the accepted choices, and whether free text is accepted."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to inspect")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(optionsTool, mcp.NewStructuredToolHandler(s.handleGetOptions))

	chooseTool := mcp.NewTool("choose",
		mcp.WithDescription("Answer the current menu with one of its choice ids, or with free text where the menu accepts it. Returns the next menu, or the finished value."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to advance")),
		mcp.WithString("choice", mcp.Description("Id of the selected choice (mutually exclusive with text)")),
		mcp.WithString("text", mcp.Description("Free text input (mutually exclusive with choice)")),
		mcp.WithOutputSchema[StepResponse](),
	)
	s.mcpServer.AddTool(chooseTool, mcp.NewStructuredToolHandler(s.handleChoose))

	renderTool := mcp.NewTool("render_tree",
		mcp.WithDescription("Render the complete value built so far as a JSON tree, with missing parts marked."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to render")),
	)
	s.mcpServer.AddTool(renderTool, s.handleRenderTree)

	endTool := mcp.NewTool("end_session",
		mcp.WithDescription("Abandon a session and drop its partial value."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to end")),
	)
	s.mcpServer.AddTool(endTool, s.handleEnd)
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StepResponse, error) {
	id := s.sessions.Create()
	s.logger.Info("mcp session started", "session_id", id)

	resp := StepResponse{SessionID: id}
	err := s.sessions.WithSession(ctx, id, func(e *session.Engine) error {
		opts := e.GetOptions()
		resp.Options = &opts
		return nil
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return resp, nil
}

func (s *Server) handleGetOptions(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StepResponse, error) {
	id, _ := args["session_id"].(string)
	resp := StepResponse{SessionID: id}
	err := s.sessions.WithSession(ctx, id, func(e *session.Engine) error {
		opts := e.GetOptions()
		resp.Options = &opts
		return nil
	})
	if err != nil {
		return StepResponse{}, err
	}
	return resp, nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (StepResponse, error) {
	id, _ := args["session_id"].(string)
	in, err := inputFromArgs(args)
	if err != nil {
		return StepResponse{}, err
	}

	resp := StepResponse{SessionID: id}
	err = s.sessions.WithSession(ctx, id, func(e *session.Engine) error {
		value, err := e.Choose(in)
		if err != nil {
			// Rejected inputs keep the session usable; hand the model the
			// reason together with the unchanged menu.
			opts := e.GetOptions()
			resp.Options = &opts
			return err
		}
		if value != nil {
			resp.Done = true
			resp.Value = *value
			return nil
		}
		opts := e.GetOptions()
		resp.Options = &opts
		return nil
	})
	if err != nil {
		return StepResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	if resp.Done {
		_ = s.sessions.Delete(id)
		s.logger.Info("mcp session finished", "session_id", id)
	}
	return resp, nil
}

func (s *Server) handleRenderTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	var tree domain.Tree
	err := s.sessions.WithSession(ctx, id, func(e *session.Engine) error {
		tree = e.Snapshot()
		return nil
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(tree)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("session_id", "")
	if err := s.sessions.Delete(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("end failed: %v", err)), nil
	}
	s.logger.Info("mcp session abandoned", "session_id", id)
	return mcp.NewToolResultText("session ended"), nil
}

func (s *Server) registerResources() {
	// EXPOSE: espalier://sessions
	s.mcpServer.AddResource(mcp.NewResource("espalier://sessions", "Live Session Ids",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.sessions.List())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "espalier://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func inputFromArgs(args map[string]any) (domain.Input, error) {
	choice, hasChoice := args["choice"].(string)
	text, hasText := args["text"].(string)
	switch {
	case hasChoice && hasText:
		return domain.Input{}, errors.New("choice and text are mutually exclusive")
	case hasChoice:
		return domain.Choice(choice), nil
	case hasText:
		return domain.Text(text), nil
	default:
		return domain.Input{}, errors.New("one of choice or text is required")
	}
}
