package linkserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/toolutil"
)

func (s *Server) registerLinkStatus(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "link_status",
		Description: "Report link reader status: feature switches, headless browser readiness, max content length and which platforms have a cookie configured.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ LinkStatusInput) (*mcp.CallToolResult, LinkStatusOutput, error) {
		out := s.status()
		return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: out.Report}}}, out, nil
	})
}

func (s *Server) status() LinkStatusOutput {
	out := LinkStatusOutput{
		PluginEnabled: s.cfg.EnablePlugin,
		MusicEnabled:  s.cfg.EnableMusic,
		APISearch:     s.cfg.EnableAPISearch,
		RenderReady:   s.reader.CanRender(),
		ArticleMode:   s.cfg.ArticleMode,
		MaxLength:     s.cfg.MaxLength,
		Cookies:       map[string]bool{},
	}

	var sb strings.Builder
	sb.WriteString("[Link Reader status]\n")
	fmt.Fprintf(&sb, "Plugin: %s\n", toolutil.StatusMark(out.PluginEnabled, "enabled", "disabled"))
	fmt.Fprintf(&sb, "Music lyrics: %s\n", toolutil.StatusMark(out.MusicEnabled, "enabled", "disabled"))
	fmt.Fprintf(&sb, "Provider search: %s\n", toolutil.StatusMark(out.APISearch, "enabled", "disabled"))
	fmt.Fprintf(&sb, "Screenshots: %s\n", toolutil.StatusMark(out.RenderReady, "ready (headless Chrome)", "unavailable"))
	fmt.Fprintf(&sb, "Max content length: %d characters\n", out.MaxLength)
	sb.WriteString("\n[Platform cookies]\n")
	for _, p := range engine.CookiePlatforms() {
		configured := s.cfg.Cookies[p] != ""
		out.Cookies[p] = configured
		fmt.Fprintf(&sb, "- %s: %s\n", p, toolutil.StatusMark(configured, "configured", "not configured (guest access)"))
	}
	out.Report = strings.TrimRight(sb.String(), "\n")
	return out
}
