package engine

import (
	"net/http"
	"strings"
	"time"
)

// UserAgentChrome is the static desktop user agent sent with page fetches.
const UserAgentChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all engine configuration, built once in main and passed by
// value into every constructor. Nothing in the engine mutates it.
type Config struct {
	MaxLength     int // rune bound for Content.Text
	MaxLyricChars int // rune bound for the lyric block of a music answer
	UserAgent     string

	RequestTimeout   time.Duration // music provider API calls
	GenericTimeout   time.Duration // generic page GET
	ShortLinkTimeout time.Duration // redirect-following HEAD
	TitleTimeout     time.Duration // page title GET for keyword extraction
	SearchTimeout    time.Duration // each cross-site lyric search request

	RenderTimeout     time.Duration
	RenderSettle      time.Duration // grace period after network idle
	ViewportWidth     int
	ViewportHeight    int
	ScreenshotQuality int // JPEG quality, 1-100
	RenderSessions    int // concurrent browser sessions

	EnablePlugin    bool
	EnableMusic     bool
	EnableRender    bool
	EnableAPISearch bool // provider keyword search before cross-site search
	ArticleMode     bool // readability + markdown before plain body text

	BrowserWSURL string // remote DevTools endpoint; empty = launch a local browser
	ChromePath   string

	// Cookies maps a platform key (see CookieKey) to an operator-supplied cookie.
	Cookies            map[string]string
	StealthDomains     []string
	DisabledHeuristics []string

	LyricSearchURL        string // fmt pattern with one %s for the escaped keyword
	LyricResultSelector   string
	LyricContentSelectors []string

	PromptTemplate string

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = stealth transport disabled
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		MaxLength:         2000,
		MaxLyricChars:     1500,
		UserAgent:         UserAgentChrome,
		RequestTimeout:    10 * time.Second,
		GenericTimeout:    10 * time.Second,
		ShortLinkTimeout:  8 * time.Second,
		TitleTimeout:      5 * time.Second,
		SearchTimeout:     10 * time.Second,
		RenderTimeout:     30 * time.Second,
		RenderSettle:      2 * time.Second,
		ViewportWidth:     1280,
		ViewportHeight:    800,
		ScreenshotQuality: 60,
		RenderSessions:    2,
		EnablePlugin:      true,
		EnableMusic:       true,
		EnableRender:      true,
		EnableAPISearch:   true,
		StealthDomains:    []string{"zhihu.com", "xiaohongshu.com", "douyin.com"},

		LyricSearchURL:      "https://www.lyrics.com/serp.php?st=%s&qtype=1",
		LyricResultSelector: ".lyric-meta-title a",
		LyricContentSelectors: []string{
			"#lyric-body-text", ".lyric-body", "#lyrics", ".lyrics", "article", "main",
		},
		PromptTemplate: "\n[Linked page content, use it as reference when answering]:\n{content}\n",
	}
}

// cookiePlatforms is the fixed substring table used to pick a cookie for a domain.
var cookiePlatforms = []struct{ needle, key string }{
	{"xiaohongshu", "xiaohongshu"},
	{"zhihu", "zhihu"},
	{"weibo", "weibo"},
	{"bilibili", "bilibili"},
	{"douyin", "douyin"},
	{"tieba.baidu", "tieba"},
	{"lofter", "lofter"},
}

// CookiePlatforms lists the platform keys a cookie can be configured for.
func CookiePlatforms() []string {
	keys := make([]string, 0, len(cookiePlatforms))
	for _, p := range cookiePlatforms {
		keys = append(keys, p.key)
	}
	return keys
}

// CookieKey returns the platform key for a domain, or "" when the domain is
// not on the cookie list.
func CookieKey(domain string) string {
	domain = strings.ToLower(domain)
	for _, p := range cookiePlatforms {
		if strings.Contains(domain, p.needle) {
			return p.key
		}
	}
	return ""
}

// CookieFor returns the configured cookie for a domain, or "".
func (c Config) CookieFor(domain string) string {
	key := CookieKey(domain)
	if key == "" {
		return ""
	}
	return c.Cookies[key]
}

// HeadersFor returns the page-fetch headers for a domain, including the
// operator cookie when one is configured for its platform.
func (c Config) HeadersFor(domain string) http.Header {
	h := BrowserHeaders(c.UserAgent)
	if cookie := c.CookieFor(domain); cookie != "" {
		h.Set("Cookie", cookie)
	}
	return h
}

// heuristicEnabled reports whether a named anchor-slice heuristic is active.
func (c Config) heuristicEnabled(name string) bool {
	for _, d := range c.DisabledHeuristics {
		if strings.EqualFold(strings.TrimSpace(d), name) {
			return false
		}
	}
	return true
}
