package linkserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_linkreader/internal/toolutil"
)

func (s *Server) registerLinkContext(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "link_context",
		Description: "Find the first link in a chat message, read it, and return a prompt fragment with the page content to append to an LLM request. Returns an empty prompt when the message has no link.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input LinkContextInput) (*mcp.CallToolResult, LinkContextOutput, error) {
		out, shot, err := s.linkContext(ctx, input.Message)
		if err != nil {
			return nil, LinkContextOutput{}, err
		}
		if out.Prompt == "" {
			return nil, out, nil
		}
		return contentResult(out.Prompt, shot), out, nil
	})
}

// linkContext builds the prompt fragment for the first URL in message.
func (s *Server) linkContext(ctx context.Context, message string) (LinkContextOutput, []byte, error) {
	if !s.cfg.EnablePlugin {
		return LinkContextOutput{}, nil, nil
	}
	target := toolutil.ExtractURL(message)
	if target == "" {
		return LinkContextOutput{}, nil, nil
	}
	if err := s.wait(ctx); err != nil {
		return LinkContextOutput{}, nil, err
	}

	content := s.reader.Resolve(ctx, target)
	prompt := toolutil.FormatPrompt(s.cfg.PromptTemplate, content.Text)
	if content.HasScreenshot() {
		prompt += toolutil.ScreenshotNote
	}
	slog.Debug("link_context", slog.String("url", target), slog.Int("prompt_len", len(prompt)))
	return LinkContextOutput{URL: target, Prompt: prompt}, content.Screenshot, nil
}
