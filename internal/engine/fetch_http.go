package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

const maxBodyBytes = 8 << 20

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// ClientFor returns cfg.HTTPClient, or a fresh scraping client when unset.
func ClientFor(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return newFetchClient()
}

// BrowserHeaders returns the static header set sent with page fetches.
func BrowserHeaders(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = UserAgentChrome
	}
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	return h
}

// Get performs a single GET bounded by timeout and returns the body decoded
// to UTF-8. No retries: callers fall through to their next tier instead.
func Get(ctx context.Context, client *http.Client, rawURL string, header http.Header, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: ParseError, Op: "get", Err: err}
	}
	if header != nil {
		req.Header = header.Clone()
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := client.Do(req)
	if err != nil {
		return nil, Wrap("get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, Wrap("get", &StatusError{StatusCode: resp.StatusCode})
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, Wrap("read body", err)
	}
	return decodeBody(body, resp.Header.Get("Content-Type")), nil
}

// GetJSON GETs rawURL and unmarshals the body into v.
func GetJSON(ctx context.Context, client *http.Client, rawURL string, header http.Header, timeout time.Duration, v any) error {
	body, err := Get(ctx, client, rawURL, header, timeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Kind: ParseError, Op: "decode json", Err: err}
	}
	return nil
}

// ResolveRedirect follows redirects with a HEAD request and returns the final URL.
func ResolveRedirect(ctx context.Context, client *http.Client, rawURL, userAgent string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", &Error{Kind: ParseError, Op: "redirect", Err: err}
	}
	req.Header = BrowserHeaders(userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", Wrap("redirect", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", Wrap("redirect", &StatusError{StatusCode: resp.StatusCode})
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return rawURL, nil
	}
	return resp.Request.URL.String(), nil
}

// readResponseBody reads the response body, handling gzip decompression if needed.
func readResponseBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, maxBodyBytes))
}

// decodeBody converts legacy-encoded pages (GBK, Big5, ...) to UTF-8 using the
// declared or sniffed charset. Valid UTF-8 is returned unchanged.
func decodeBody(body []byte, contentType string) []byte {
	if utf8.Valid(body) {
		return body
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
