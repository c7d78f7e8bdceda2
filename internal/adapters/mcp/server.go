package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
	"github.com/vinarmkumar/HappMeal/internal/core/ports"
)

const (
	ServerName             = "happmeal-images"
	ToolResolveRecipeImage = "resolve_recipe_image"

	maxNameLength = 200
)

// Server exposes the image cascade as an MCP tool.
type Server struct {
	resolver ports.ImageResolver
	mcp      *server.MCPServer
}

func NewServer(resolver ports.ImageResolver, version string) *Server {
	s := &Server{
		resolver: resolver,
		mcp:      server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false)),
	}

	tool := mcp.NewTool(ToolResolveRecipeImage,
		mcp.WithDescription("Find a relevant photo URL for a recipe. Always returns an image, falling back to curated photos when no provider matches."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Recipe name, for example \"Chicken Tikka Masala\""),
		),
		mcp.WithString("cuisine",
			mcp.Description("Optional cuisine used to refine the search, for example \"Indian\""),
		),
	)
	s.mcp.AddTool(tool, s.handleResolve)
	return s
}

func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio blocks until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) handleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return mcp.NewToolResultError("name must not be empty"), nil
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return mcp.NewToolResultError(fmt.Sprintf("name must be at most %d characters", maxNameLength)), nil
	}
	cuisine := strings.TrimSpace(req.GetString("cuisine", ""))

	resolution := s.resolver.Resolve(ctx, domain.SearchRequest{Name: name, Cuisine: cuisine})
	payload, err := json.Marshal(resolution)
	if err != nil {
		slog.Error("mcp_tool_encode_failed", "tool", ToolResolveRecipeImage, "error", err)
		return mcp.NewToolResultError("failed to encode resolution"), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
