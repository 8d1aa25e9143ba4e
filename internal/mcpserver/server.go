// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes contentd's catalog to LLM clients via stdio transport.
// All tools are read-only; content is published through the site repo,
// not through this surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aidatafoundation/contentd/internal/catalog"
	"github.com/aidatafoundation/contentd/internal/labs"
	"github.com/aidatafoundation/contentd/internal/resolver"
	"github.com/aidatafoundation/contentd/internal/stars"
)

// Server wraps the MCP server with contentd tools.
type Server struct {
	mcp   *server.MCPServer
	posts *resolver.Resolver
	tools *catalog.Catalog
	stars *stars.Service
	labs  *labs.Service
}

// New creates a new MCP server with all contentd tools registered.
func New(posts *resolver.Resolver, tools *catalog.Catalog, starSvc *stars.Service, labSvc *labs.Service) *Server {
	s := &Server{posts: posts, tools: tools, stars: starSvc, labs: labSvc}

	s.mcp = server.NewMCPServer(
		"contentd",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Search blog posts by title, excerpt, category, or tag."),
		mcp.WithString("query", mcp.Description("Free-text query matched against title and excerpt")),
		mcp.WithString("category", mcp.Description("Exact category filter")),
		mcp.WithString("tag", mcp.Description("Exact tag filter")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read the full markdown body of a blog post by id. "+
			"A degraded result means the origin was unreachable and the body is a placeholder."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Post id from search_posts")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("list_tools",
		mcp.WithDescription("List the AI tools directory, optionally filtered by group (ai, llm, mcp) or free-text query."),
		mcp.WithString("query", mcp.Description("Free-text query matched against title and description")),
		mcp.WithString("group", mcp.Description("Category bucket: ai, llm, or mcp")),
	), s.listTools)

	s.mcp.AddTool(mcp.NewTool("get_stars",
		mcp.WithDescription("Look up GitHub star counts for repositories. "+
			"Unknown readings are reported as unknown, never as zero."),
		mcp.WithString("repos", mcp.Required(), mcp.Description("Comma-separated owner/name keys")),
	), s.getStars)

	s.mcp.AddTool(mcp.NewTool("read_lab",
		mcp.WithDescription("Read a research lab brief by id, or list all labs when id is omitted."),
		mcp.WithString("id", mcp.Description("Lab id (empty to list all labs)")),
	), s.readLab)

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

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := resolver.ListFilter{
		Query:    req.GetString("query", ""),
		Category: req.GetString("category", ""),
		Tag:      req.GetString("tag", ""),
	}
	posts, degraded := s.posts.ListPosts(ctx, f)
	out, _ := json.MarshalIndent(map[string]any{
		"posts":    posts,
		"degraded": degraded,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, outcome, err := s.posts.Resolve(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if outcome == resolver.NotFound {
		return mcp.NewToolResultError(fmt.Sprintf("post not found: %s", id)), nil
	}
	if content.Degraded {
		return mcp.NewToolResultText(fmt.Sprintf("[degraded: origin unreachable]\n\n%s", content.Body)), nil
	}
	return mcp.NewToolResultText(content.Body), nil
}

func (s *Server) listTools(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := catalog.Filter{
		Query: req.GetString("query", ""),
		Group: catalog.Group(req.GetString("group", "")),
	}
	tools, _ := s.tools.List(ctx, f)

	var b strings.Builder
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s (%s): %s [stars: %s]\n",
			t.Title, t.Tag, t.Description, catalog.FormatStarCount(t.Stars))
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("no tools match"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getStars(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("repos")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	counts, starErr := s.stars.GetStars(ctx, strings.Split(raw, ","))

	var b strings.Builder
	for key, sc := range counts {
		fmt.Fprintf(&b, "%s: %s", key, catalog.FormatStarCount(sc))
		if sc.Stale {
			b.WriteString(" (stale)")
		}
		b.WriteString("\n")
	}
	if starErr != nil {
		fmt.Fprintf(&b, "note: %s\n", starErr)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readLab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		out, _ := json.MarshalIndent(s.labs.List(), "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}
	brief, err := s.labs.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if brief.Degraded {
		return mcp.NewToolResultText(fmt.Sprintf("[degraded: brief unreachable]\n\n%s", brief.Body)), nil
	}
	return mcp.NewToolResultText(brief.Body), nil
}
