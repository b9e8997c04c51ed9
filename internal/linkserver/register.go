// Package linkserver exposes the link reader as MCP tools.
package linkserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/reader"
)

// Server holds what the tool handlers share.
type Server struct {
	cfg     engine.Config
	reader  *reader.Reader
	limiter *rate.Limiter
}

// New creates the tool host. limiter may be nil for unthrottled use.
func New(cfg engine.Config, rd *reader.Reader, limiter *rate.Limiter) *Server {
	return &Server{cfg: cfg, reader: rd, limiter: limiter}
}

// RegisterTools registers link_read, link_context and link_status on server.
func (s *Server) RegisterTools(server *mcp.Server) {
	s.registerLinkRead(server)
	s.registerLinkContext(server)
	s.registerLinkStatus(server)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 3

// wait blocks until the limiter admits one resolution.
func (s *Server) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// contentResult builds the MCP content list: text first, then the JPEG.
func contentResult(text string, shot []byte) *mcp.CallToolResult {
	res := &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
	if len(shot) > 0 {
		res.Content = append(res.Content, &mcp.ImageContent{Data: shot, MIMEType: "image/jpeg"})
	}
	return res
}
