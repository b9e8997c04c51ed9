package music

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

// LyricSearcher finds lyrics for a keyword on a lyrics website.
type LyricSearcher interface {
	Search(ctx context.Context, keyword string) (string, error)
}

// SiteSearcher scrapes a configurable lyrics site: search page, first
// result link, then the lyric container on the result page.
type SiteSearcher struct {
	client           *http.Client
	userAgent        string
	timeout          time.Duration
	searchURL        string
	resultSelector   string
	contentSelectors []string
}

// NewSiteSearcher creates a SiteSearcher from the lyric search settings in cfg.
func NewSiteSearcher(cfg engine.Config) *SiteSearcher {
	return &SiteSearcher{
		client:           engine.ClientFor(cfg),
		userAgent:        cfg.UserAgent,
		timeout:          cfg.SearchTimeout,
		searchURL:        cfg.LyricSearchURL,
		resultSelector:   cfg.LyricResultSelector,
		contentSelectors: cfg.LyricContentSelectors,
	}
}

func (s *SiteSearcher) Search(ctx context.Context, keyword string) (string, error) {
	if s.searchURL == "" || s.resultSelector == "" {
		return "", engine.NotFoundf("site search", "lyric search site not configured")
	}
	engine.IncrSiteSearchRequests()

	searchURL := fmt.Sprintf(s.searchURL, url.QueryEscape(keyword))
	doc, err := s.document(ctx, searchURL)
	if err != nil {
		return "", err
	}
	href, ok := doc.Find(s.resultSelector).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return "", engine.NotFoundf("site search", "no result for %q", keyword)
	}

	page, err := s.document(ctx, engine.ResolveRef(searchURL, href))
	if err != nil {
		return "", err
	}
	engine.StripNonContent(page)
	for _, sel := range s.contentSelectors {
		if text := engine.SelectionText(page.Find(sel).First()); text != "" {
			return text, nil
		}
	}
	return "", engine.NotFoundf("site search", "no lyric container for %q", keyword)
}

func (s *SiteSearcher) document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	body, err := engine.Get(ctx, s.client, rawURL, engine.BrowserHeaders(s.userAgent), s.timeout)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &engine.Error{Kind: engine.ParseError, Op: "site search", Err: err}
	}
	return doc, nil
}
