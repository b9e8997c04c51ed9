package music

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

// Lyrics is a provider's raw lyric payload, before filtering.
type Lyrics struct {
	Title       string
	Lyric       string
	Translation string
}

// Provider is one music platform with a direct lyric API.
type Provider interface {
	Name() string
	// Hosts lists the domains whose song pages this provider can read.
	Hosts() []string
	// SongID extracts the platform song identifier from a page URL.
	SongID(u *url.URL) (string, bool)
	FetchLyrics(ctx context.Context, id string) (*Lyrics, error)
}

// Searcher is implemented by providers that expose a keyword search API.
type Searcher interface {
	SearchSong(ctx context.Context, keyword string) (string, error)
}

// DefaultProviders returns the providers in selection priority order.
func DefaultProviders(api APIClient) []Provider {
	return []Provider{
		NewNetease(api),
		NewQQ(api),
		NewKugou(api),
		NewKuwo(api),
	}
}

// APIClient carries the HTTP client and headers shared by provider calls.
type APIClient struct {
	Client    *http.Client
	UserAgent string
	Timeout   time.Duration
}

// NewAPIClient builds an APIClient from the engine configuration.
func NewAPIClient(cfg engine.Config) APIClient {
	return APIClient{Client: engine.ClientFor(cfg), UserAgent: cfg.UserAgent, Timeout: cfg.RequestTimeout}
}

func (c APIClient) headers(referer string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", c.UserAgent)
	h.Set("Accept", "application/json, text/plain, */*")
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}

func (c APIClient) get(ctx context.Context, rawURL, referer string) ([]byte, error) {
	return engine.Get(ctx, c.Client, rawURL, c.headers(referer), c.Timeout)
}

func (c APIClient) getJSON(ctx context.Context, rawURL, referer string, v any) error {
	return engine.GetJSON(ctx, c.Client, rawURL, c.headers(referer), c.Timeout, v)
}

func matchHost(host string, hosts []string) bool {
	return engine.MatchAny(host, hosts)
}

// decodeBase64Lyric decodes a base64 lyric field, returning s itself when it
// is not valid base64 (some endpoints already return plain text).
func decodeBase64Lyric(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(b)
}

// stripJSONP removes a "callback(...)" wrapper around a JSON body.
func stripJSONP(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] == '{' || body[0] == '[' {
		return body
	}
	start := bytes.IndexByte(body, '(')
	end := bytes.LastIndexByte(body, ')')
	if start < 0 || end <= start {
		return body
	}
	return body[start+1 : end]
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func joinTitle(song, artist string) string {
	song, artist = strings.TrimSpace(song), strings.TrimSpace(artist)
	switch {
	case song == "":
		return artist
	case artist == "":
		return song
	default:
		return song + " - " + artist
	}
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
