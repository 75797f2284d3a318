package server

import (
	"context"
	"errors"
	"net/http"

	"quiver/internal/api"
	"quiver/internal/dispatch"
	"quiver/internal/registry"
	"quiver/pkg/logging"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HTTPServer serves the REST API and, when configured, the MCP endpoint.
type HTTPServer struct {
	echo       *echo.Echo
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	agents     dispatch.AgentSource
	version    string
}

// ExecuteRequest is the body of POST /api/agents/:agent/command.
type ExecuteRequest struct {
	CommandName      string         `json:"command_name"`
	CommandArgs      map[string]any `json:"command_args"`
	ConversationName string         `json:"conversation_name"`
}

// NewHTTPServer wires the routes. mcp may be nil.
func NewHTTPServer(reg *registry.Registry, d *dispatch.Dispatcher, agents dispatch.AgentSource, mcp *MCPServer, version string) *HTTPServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &HTTPServer{echo: e, registry: reg, dispatcher: d, agents: agents, version: version}

	e.GET("/healthz", s.handleHealth)

	g := e.Group("/api")
	g.GET("/extensions", s.handleExtensions)
	g.GET("/extensions/settings", s.handleExtensionSettings)
	g.GET("/commands", s.handleCommands)
	g.GET("/agents/:agent/commands", s.handleAgentCommands)
	g.POST("/agents/:agent/command", s.handleExecute)
	g.GET("/chains/:chain/args", s.handleChainArgs)

	if mcp != nil {
		h := echo.WrapHandler(mcp.Handler())
		e.Any("/mcp", h)
		e.Any("/mcp/*", h)
	}
	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *HTTPServer) Start(addr string) error {
	logging.Info("Server", "Listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, waiting for in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy", "version": s.version})
}

func (s *HTTPServer) handleExtensions(c echo.Context) error {
	extensions, err := s.registry.Extensions()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"extensions": extensions})
}

func (s *HTTPServer) handleExtensionSettings(c echo.Context) error {
	settings, err := s.registry.ExtensionSettings(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"extension_settings": settings})
}

func (s *HTTPServer) handleCommands(c echo.Context) error {
	names, err := s.registry.CommandsList(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"commands": names})
}

func (s *HTTPServer) handleAgentCommands(c echo.Context) error {
	ctx := c.Request().Context()
	agent, err := s.agents.GetAgentConfig(ctx, c.Param("agent"))
	if err != nil {
		return errorResponse(c, err)
	}
	available, err := s.registry.Available(ctx, agent)
	if err != nil {
		return errorResponse(c, err)
	}
	if available == nil {
		available = []api.AvailableCommand{}
	}
	return c.JSON(http.StatusOK, map[string]any{"commands": available})
}

func (s *HTTPServer) handleExecute(c echo.Context) error {
	var req ExecuteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.CommandName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "command_name is required"})
	}

	result, err := s.dispatcher.Execute(c.Request().Context(), dispatch.Call{
		Agent:            c.Param("agent"),
		ConversationName: req.ConversationName,
		Command:          req.CommandName,
		Args:             req.CommandArgs,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"response": result})
}

func (s *HTTPServer) handleChainArgs(c echo.Context) error {
	args, err := s.registry.ChainArgs(c.Request().Context(), c.Param("chain"))
	if err != nil {
		return errorResponse(c, err)
	}
	if args == nil {
		args = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"chain_args": args})
}

func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case api.IsNotFound(err):
		status = http.StatusNotFound
	case api.IsChainCycle(err):
		status = http.StatusUnprocessableEntity
	default:
		logging.Error("Server", err, "%s %s failed", c.Request().Method, c.Path())
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
