package engine

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// FetchErrorMessage is returned as page text when the generic fetch fails.
const FetchErrorMessage = "Failed to fetch the page content."

// Tags that never carry page content.
const nonContentSelector = "script, style, noscript, iframe, svg, nav, header, footer, aside"

// Readability output shorter than this is not an article; plain body text is used instead.
const minArticleRunes = 200

// Fetcher performs plain HTTP page fetches for the generic path.
type Fetcher struct {
	cfg    Config
	client *http.Client
}

// NewFetcher creates a Fetcher using cfg.HTTPClient when set.
func NewFetcher(cfg Config) *Fetcher {
	return &Fetcher{cfg: cfg, client: ClientFor(cfg)}
}

// FetchGeneric downloads rawURL and returns its cleaned, bounded text.
// Never fails: a fetch error yields FetchErrorMessage.
func (f *Fetcher) FetchGeneric(ctx context.Context, rawURL string) string {
	metrics.FetchRequests.Add(1)
	domain := HostOf(rawURL)

	body, err := f.fetchPage(ctx, rawURL, domain)
	if err != nil {
		metrics.FetchErrors.Add(1)
		slog.Debug("generic fetch failed",
			slog.String("url", rawURL),
			slog.String("kind", KindOf(err).String()),
			slog.Any("error", err))
		return FetchErrorMessage
	}

	text := f.extract(rawURL, body)
	return CleanText(text, f.cfg.MaxLength)
}

func (f *Fetcher) fetchPage(ctx context.Context, rawURL, domain string) ([]byte, error) {
	headers := f.cfg.HeadersFor(domain)
	if f.cfg.BrowserClient != nil && MatchAny(domain, f.cfg.StealthDomains) {
		return f.fetchStealth(ctx, rawURL, headers)
	}
	return Get(ctx, f.client, rawURL, headers, f.cfg.GenericTimeout)
}

// fetchStealth routes the GET through the TLS-fingerprinting browser client.
// The client carries its own timeout (GenericTimeout, set in main).
func (f *Fetcher) fetchStealth(ctx context.Context, rawURL string, headers http.Header) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, Wrap("stealth get", err)
	}
	metrics.StealthRequests.Add(1)
	hm := ChromeHeaders()
	for k := range headers {
		hm[strings.ToLower(k)] = headers.Get(k)
	}
	data, _, status, err := f.cfg.BrowserClient.Do(http.MethodGet, rawURL, hm, nil)
	if err != nil {
		return nil, Wrap("stealth get", err)
	}
	if status < 200 || status >= 300 {
		return nil, Wrap("stealth get", &StatusError{StatusCode: status})
	}
	return decodeBody(data, ""), nil
}

// extract returns readable text from a page body. ArticleMode tries the
// readability + markdown path first.
func (f *Fetcher) extract(rawURL string, body []byte) string {
	if f.cfg.ArticleMode {
		if text, ok := articleText(rawURL, body); ok {
			return text
		}
	}
	return DocumentText(body)
}

// articleText isolates the main article with readability and renders it as markdown.
func articleText(rawURL string, body []byte) (string, bool) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil || utf8.RuneCountInString(strings.TrimSpace(article.TextContent)) < minArticleRunes {
		return "", false
	}
	md, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		md = article.TextContent
	}
	md = strings.TrimSpace(md)
	if article.Title != "" && !strings.HasPrefix(md, "# ") {
		md = "# " + strings.TrimSpace(article.Title) + "\n" + md
	}
	return md, md != ""
}

// DocumentText strips non-content tags from an HTML document and returns the
// body text, one text node per line.
func DocumentText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	StripNonContent(doc)
	sel := doc.Find("body")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return SelectionText(sel)
}

// StripNonContent removes script, style and navigation chrome from doc.
func StripNonContent(doc *goquery.Document) {
	doc.Find(nonContentSelector).Remove()
}

// SelectionText joins every non-blank text node under sel with newlines.
// Unlike Selection.Text it keeps block boundaries apart.
func SelectionText(sel *goquery.Selection) string {
	var lines []string
	for _, n := range sel.Nodes {
		collectText(n, &lines)
	}
	return strings.Join(lines, "\n")
}

func collectText(n *html.Node, lines *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*lines = append(*lines, t)
		}
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}

// PageTitle fetches rawURL and returns its <title>, falling back to og:title.
func PageTitle(ctx context.Context, client *http.Client, rawURL, userAgent string, timeout time.Duration) (string, error) {
	body, err := Get(ctx, client, rawURL, BrowserHeaders(userAgent), timeout)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: ParseError, Op: "title", Err: err}
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		og := opengraph.NewOpenGraph()
		if err := og.ProcessHTML(bytes.NewReader(body)); err == nil {
			title = strings.TrimSpace(og.Title)
		}
	}
	if title == "" {
		return "", NotFoundf("title", "no title in %s", rawURL)
	}
	return title, nil
}

// ResolveRef resolves href against base, returning href unchanged on error.
func ResolveRef(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	r, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(r).String()
}
