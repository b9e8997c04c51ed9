package linkserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerLinkRead(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "link_read",
		Description: "Read a link and return its content as bounded text. Music links (NetEase, QQ Music, Kugou, Kuwo) return filtered lyrics. Social links (Xiaohongshu, Zhihu, Weibo, Bilibili, Douyin, Lofter) are rendered in a headless browser and include a JPEG screenshot when available. Other pages return their cleaned body text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input LinkReadInput) (*mcp.CallToolResult, LinkReadOutput, error) {
		if input.URL == "" {
			return nil, LinkReadOutput{}, fmt.Errorf("url is required")
		}
		if err := s.wait(ctx); err != nil {
			return nil, LinkReadOutput{}, err
		}

		content := s.reader.Resolve(ctx, input.URL)
		out := LinkReadOutput{
			URL:           input.URL,
			Kind:          s.reader.Classify(input.URL).String(),
			Content:       content.Text,
			HasScreenshot: content.HasScreenshot(),
		}
		return contentResult(content.Text, content.Screenshot), out, nil
	})
}
