package engine

import (
	"fmt"
	"net/url"
	"strings"
)

// --- Request / result types ---

// ResolutionRequest is one validated URL to resolve.
type ResolutionRequest struct {
	URL    string
	Domain string // lower-cased host, no port
}

// NewRequest validates rawURL and derives its domain.
func NewRequest(rawURL string) (ResolutionRequest, error) {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil {
		return ResolutionRequest{}, &Error{Kind: ParseError, Op: "request", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ResolutionRequest{}, &Error{Kind: ParseError, Op: "request", Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	domain := HostOf(rawURL)
	if domain == "" {
		return ResolutionRequest{}, &Error{Kind: ParseError, Op: "request", Err: fmt.Errorf("no host in %q", rawURL)}
	}
	return ResolutionRequest{URL: rawURL, Domain: domain}, nil
}

// Content is the final answer for one URL: bounded text and an optional
// JPEG screenshot. Text is never empty on a resolved request.
type Content struct {
	Text       string
	Screenshot []byte
}

// HasScreenshot reports whether a screenshot is attached.
func (c Content) HasScreenshot() bool { return len(c.Screenshot) > 0 }

// RenderedPage is the raw output of the headless browser.
type RenderedPage struct {
	HTML       string
	Screenshot []byte // JPEG
}

// ProviderAttempt records one music provider lookup, for logging.
type ProviderAttempt struct {
	Provider string
	SongID   string
	Payload  string // raw lyric payload before filtering
	Err      ErrorKind
}
