// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the plugin to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sonar/internal/host"
	"github.com/starford/sonar/internal/plugin"
)

// RoutesURI addresses the invocation grammar resource.
const RoutesURI = "sonar://routes"

// Server wraps the MCP server with plugin tools.
type Server struct {
	mcp  *server.MCPServer
	inv  host.Invoker
	base string
}

// New creates a new MCP server. base is the plugin address
// (plugin://<addon id>) that item URLs start with.
func New(inv host.Invoker, base, version string) *Server {
	s := &Server{inv: inv, base: base}

	s.mcp = server.NewMCPServer(
		"Sonar",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("browse",
		mcp.WithDescription("Run one plugin invocation and return the listing or side effects as JSON. "+
			"Read "+RoutesURI+" for the route grammar. Item urls from a previous result can be passed as url."),
		mcp.WithString("path", mcp.Description("Route path such as / or /search/ (default /)")),
		mcp.WithString("query", mcp.Description("Raw query string such as action=people&query=lofi")),
		mcp.WithString("url", mcp.Description("Full item url from a previous result; overrides path and query")),
		mcp.WithString("input", mcp.Description("Answer to an input dialog, e.g. the text for a new search")),
	), s.browse)

	s.mcp.AddTool(mcp.NewTool("resolve",
		mcp.WithDescription("Resolve a track to a playable stream URL."),
		mcp.WithString("media_url", mcp.Description("Media locator from a track item")),
		mcp.WithString("track_id", mcp.Description("Track id")),
		mcp.WithString("url", mcp.Description("Public soundcloud.com track URL")),
	), s.resolve)

	s.mcp.AddResource(
		mcp.NewResource(RoutesURI, "Invocation Grammar",
			mcp.WithResourceDescription("Routes, parameters and results of plugin invocations."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRoutesResource,
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

func (s *Server) browse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hreq := host.Request{
		Path:  req.GetString("path", plugin.PathRoot),
		Query: req.GetString("query", ""),
	}
	if raw := req.GetString("url", ""); raw != "" {
		path, query, err := s.split(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hreq.Path, hreq.Query = path, query
	}
	if input, ok := req.GetArguments()["input"].(string); ok {
		hreq.Input = &input
	}

	resp, err := s.inv.Invoke(ctx, hreq)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := url.Values{}
	for _, name := range []string{"media_url", "track_id", "url"} {
		if v := req.GetString(name, ""); v != "" {
			q.Set(name, v)
		}
	}
	if len(q) == 0 {
		return mcp.NewToolResultError("one of media_url, track_id or url is required"), nil
	}

	resp, err := s.inv.Invoke(ctx, host.Request{Path: plugin.PathPlay, Query: q.Encode()})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !resp.Succeeded || resp.Resolved == nil || resp.Resolved.Path == "" {
		return mcp.NewToolResultError("track could not be resolved"), nil
	}
	return mcp.NewToolResultText(resp.Resolved.Path), nil
}

// split turns an item url into route path and query.
func (s *Server) split(raw string) (string, string, error) {
	rest, ok := strings.CutPrefix(raw, s.base)
	if !ok {
		return "", "", fmt.Errorf("url %q does not belong to %s", raw, s.base)
	}
	path, query, _ := strings.Cut(rest, "?")
	if path == "" {
		path = plugin.PathRoot
	}
	return path, query, nil
}

func (s *Server) readRoutesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RoutesURI,
			MIMEType: "text/markdown",
			Text:     RoutesContract,
		},
	}, nil
}
