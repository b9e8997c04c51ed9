// go_linkreader: link content MCP server.
//
// Exposes three MCP tools: link_read, link_context, link_status.
// Music links resolve to filtered lyrics, social links are rendered in a
// headless browser with a screenshot, everything else is fetched as text.
package main

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/linkserver"
	"github.com/anatolykoptev/go_linkreader/internal/reader"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	cfg := loadConfig()
	rd := reader.New(cfg)

	slog.Info("starting go_linkreader",
		slog.String("port", mcpPort),
		slog.Bool("render_ready", rd.CanRender()),
		slog.Int("max_length", cfg.MaxLength),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_linkreader",
		Version: version,
	}, nil)

	limiter := rate.NewLimiter(rate.Limit(env.Float("RATE_LIMIT_RPS", 2)), env.Int("RATE_LIMIT_BURST", 4))
	linkserver.New(cfg, rd, limiter).RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", linkserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_linkreader",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func loadConfig() engine.Config {
	c := engine.DefaultConfig()

	c.MaxLength = env.Int("MAX_LENGTH", c.MaxLength)
	c.MaxLyricChars = env.Int("MAX_LYRIC_CHARS", c.MaxLyricChars)
	c.UserAgent = env.Str("USER_AGENT", c.UserAgent)

	c.RequestTimeout = env.Duration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.GenericTimeout = env.Duration("FETCH_TIMEOUT", c.GenericTimeout)
	c.ShortLinkTimeout = env.Duration("SHORT_LINK_TIMEOUT", c.ShortLinkTimeout)
	c.TitleTimeout = env.Duration("TITLE_TIMEOUT", c.TitleTimeout)
	c.SearchTimeout = env.Duration("LYRIC_SEARCH_TIMEOUT", c.SearchTimeout)
	c.RenderTimeout = env.Duration("RENDER_TIMEOUT", c.RenderTimeout)
	c.RenderSettle = env.Duration("RENDER_SETTLE", c.RenderSettle)
	c.ScreenshotQuality = env.Int("SCREENSHOT_QUALITY", c.ScreenshotQuality)
	c.RenderSessions = env.Int("RENDER_SESSIONS", c.RenderSessions)

	c.EnablePlugin = envBool("ENABLE_PLUGIN", c.EnablePlugin)
	c.EnableMusic = envBool("ENABLE_MUSIC", c.EnableMusic)
	c.EnableRender = envBool("ENABLE_RENDER", c.EnableRender)
	c.EnableAPISearch = envBool("ENABLE_API_SEARCH", c.EnableAPISearch)
	c.ArticleMode = envBool("ARTICLE_MODE", c.ArticleMode)

	c.BrowserWSURL = env.Str("BROWSER_WS_URL", "")
	c.ChromePath = env.Str("CHROME_PATH", "")

	c.StealthDomains = env.List("STEALTH_DOMAINS", strings.Join(c.StealthDomains, ","))
	c.DisabledHeuristics = env.List("DISABLED_HEURISTICS", "")

	c.LyricSearchURL = env.Str("LYRIC_SEARCH_URL", c.LyricSearchURL)
	c.LyricResultSelector = env.Str("LYRIC_RESULT_SELECTOR", c.LyricResultSelector)
	c.LyricContentSelectors = env.List("LYRIC_CONTENT_SELECTORS", strings.Join(c.LyricContentSelectors, ","))
	c.PromptTemplate = env.Str("PROMPT_TEMPLATE", c.PromptTemplate)

	c.Cookies = map[string]string{}
	for _, p := range engine.CookiePlatforms() {
		if v := env.Str("COOKIE_"+strings.ToUpper(p), ""); v != "" {
			c.Cookies[p] = v
		}
	}

	c.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	if len(c.StealthDomains) > 0 {
		bc, err := stealth.NewClient(stealth.WithTimeout(max(1, int(c.GenericTimeout.Seconds()))))
		if err != nil {
			slog.Warn("stealth client init failed, using plain HTTP", slog.Any("error", err))
		} else {
			c.BrowserClient = bc
			slog.Info("stealth browser client initialized", slog.Int("domains", len(c.StealthDomains)))
		}
	}
	return c
}

// envBool reads a boolean switch; unset or unparsable values keep def.
func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(env.Str(key, ""))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
