// Package music resolves music-platform links to filtered lyric text.
package music

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

// NotFoundMessage is returned when no lyrics and no song keyword could be found.
const NotFoundMessage = "Music link recognized, but no lyrics could be found for it."

const notFoundKeywordFmt = "Recognized the song 《%s》, but no clean lyrics could be retrieved."

// lyricHit is one filtered lyric result.
type lyricHit struct {
	source      string
	title       string
	lyrics      string
	translation string
}

func (h lyricHit) isEmpty() bool { return h.lyrics == "" }

func newHit(source string, l *Lyrics) lyricHit {
	return lyricHit{
		source:      source,
		title:       l.Title,
		lyrics:      engine.FilterLyrics(l.Lyric),
		translation: engine.FilterLyrics(l.Translation),
	}
}

// Resolver turns a music URL into a lyric answer through a fixed cascade:
// short link, direct provider API, provider keyword search, lyrics site.
type Resolver struct {
	cfg       engine.Config
	client    *http.Client
	providers []Provider
	site      LyricSearcher
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSearcher replaces the cross-site lyric searcher.
func WithSearcher(s LyricSearcher) Option {
	return func(r *Resolver) { r.site = s }
}

// WithProviders replaces the provider list, in priority order.
func WithProviders(p ...Provider) Option {
	return func(r *Resolver) { r.providers = p }
}

// New creates a Resolver with the default providers and site searcher.
func New(cfg engine.Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:       cfg,
		client:    engine.ClientFor(cfg),
		providers: DefaultProviders(NewAPIClient(cfg)),
		site:      NewSiteSearcher(cfg),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ResolveMusic returns a lyric answer or a not-found message. Never fails.
func (r *Resolver) ResolveMusic(ctx context.Context, rawURL string) string {
	target := r.followShortLink(ctx, rawURL)
	kw := &songKeyword{r: r, url: target}

	hit, tier := engine.FirstNonEmpty(ctx, lyricHit.isEmpty,
		engine.Tier[lyricHit]{Name: "direct", Run: func(ctx context.Context) (lyricHit, error) {
			return r.direct(ctx, target)
		}},
		engine.Tier[lyricHit]{Name: "api-search", Run: func(ctx context.Context) (lyricHit, error) {
			return r.apiSearch(ctx, kw.get(ctx))
		}},
		engine.Tier[lyricHit]{Name: "site-search", Run: func(ctx context.Context) (lyricHit, error) {
			return r.siteSearch(ctx, kw.get(ctx))
		}},
	)
	if tier == "" {
		slog.Debug("music: no lyrics", slog.String("url", target))
		if k := kw.get(ctx); k != "" {
			return fmt.Sprintf(notFoundKeywordFmt, k)
		}
		return NotFoundMessage
	}

	slog.Debug("music: lyrics found", slog.String("url", target), slog.String("tier", tier), slog.String("source", hit.source))
	keyword := kw.keyword
	if hit.title == "" {
		keyword = kw.get(ctx)
	}
	return r.format(hit, keyword)
}

// followShortLink returns the redirect target of a short link, or rawURL.
func (r *Resolver) followShortLink(ctx context.Context, rawURL string) string {
	if !engine.IsShortLink(engine.HostOf(rawURL)) {
		return rawURL
	}
	engine.IncrShortLinkResolves()
	resolved, err := engine.ResolveRedirect(ctx, r.client, rawURL, r.cfg.UserAgent, r.cfg.ShortLinkTimeout)
	if err != nil || resolved == "" {
		slog.Debug("music: short link unresolved", slog.String("url", rawURL), slog.Any("error", err))
		return rawURL
	}
	return resolved
}

func (r *Resolver) providerFor(host string) Provider {
	for _, p := range r.providers {
		if matchHost(host, p.Hosts()) {
			return p
		}
	}
	return nil
}

// direct makes the single provider API attempt for the URL's song id.
func (r *Resolver) direct(ctx context.Context, target string) (lyricHit, error) {
	u, err := url.Parse(target)
	if err != nil {
		return lyricHit{}, &engine.Error{Kind: engine.ParseError, Op: "direct", Err: err}
	}
	p := r.providerFor(strings.ToLower(u.Hostname()))
	if p == nil {
		return lyricHit{}, engine.NotFoundf("direct", "no provider for %s", u.Hostname())
	}
	id, ok := p.SongID(u)
	if !ok {
		return lyricHit{}, engine.NotFoundf("direct", "no %s song id in %s", p.Name(), target)
	}
	return r.lookup(ctx, p, id)
}

// lookup fetches and filters lyrics for one provider song id.
func (r *Resolver) lookup(ctx context.Context, p Provider, id string) (lyricHit, error) {
	attempt := engine.ProviderAttempt{Provider: p.Name(), SongID: id}
	lyr, err := p.FetchLyrics(ctx, id)
	if err != nil {
		attempt.Err = engine.KindOf(err)
		engine.IncrProviderMisses()
		logAttempt(attempt)
		return lyricHit{}, err
	}
	attempt.Payload = lyr.Lyric
	hit := newHit(p.Name(), lyr)
	if hit.isEmpty() {
		attempt.Err = engine.NotFound
		engine.IncrProviderMisses()
	} else {
		engine.IncrProviderHits()
	}
	logAttempt(attempt)
	return hit, nil
}

func logAttempt(a engine.ProviderAttempt) {
	slog.Debug("music: provider attempt",
		slog.String("provider", a.Provider),
		slog.String("song_id", a.SongID),
		slog.Int("payload_len", len(a.Payload)),
		slog.String("kind", a.Err.String()))
}

// apiSearch tries each provider's keyword search in priority order.
func (r *Resolver) apiSearch(ctx context.Context, keyword string) (lyricHit, error) {
	if !r.cfg.EnableAPISearch {
		return lyricHit{}, nil
	}
	if keyword == "" {
		return lyricHit{}, engine.NotFoundf("api search", "no keyword")
	}

	var tiers []engine.Tier[lyricHit]
	for _, p := range r.providers {
		s, ok := p.(Searcher)
		if !ok {
			continue
		}
		tiers = append(tiers, engine.Tier[lyricHit]{Name: p.Name(), Run: func(ctx context.Context) (lyricHit, error) {
			engine.IncrAPISearchRequests()
			id, err := s.SearchSong(ctx, keyword)
			if err != nil {
				return lyricHit{}, err
			}
			return r.lookup(ctx, p, id)
		}})
	}
	hit, _ := engine.FirstNonEmpty(ctx, lyricHit.isEmpty, tiers...)
	return hit, nil
}

func (r *Resolver) siteSearch(ctx context.Context, keyword string) (lyricHit, error) {
	if r.site == nil {
		return lyricHit{}, nil
	}
	if keyword == "" {
		return lyricHit{}, engine.NotFoundf("site search", "no keyword")
	}
	text, err := r.site.Search(ctx, keyword)
	if err != nil {
		return lyricHit{}, err
	}
	return lyricHit{source: "lyrics site", lyrics: engine.FilterLyrics(text)}, nil
}

// format renders the lyric answer, capping lyrics at MaxLyricChars.
func (r *Resolver) format(hit lyricHit, keyword string) string {
	title := hit.title
	if title == "" {
		title = keyword
	}

	body := hit.lyrics
	if hit.translation != "" {
		body += "\n\nTranslation:\n" + hit.translation
	}
	body = engine.Bound(body, r.cfg.MaxLyricChars)

	var sb strings.Builder
	sb.WriteString("[Music]\n")
	if title != "" {
		fmt.Fprintf(&sb, "Song: %s\n", title)
	}
	if keyword != "" && keyword != title {
		fmt.Fprintf(&sb, "Keyword: %s\n", keyword)
	}
	fmt.Fprintf(&sb, "Source: %s\n\nLyrics:\n%s", hit.source, body)
	return sb.String()
}

// songKeyword lazily derives the search keyword from the song page title.
// Only computed once per resolution.
type songKeyword struct {
	r       *Resolver
	url     string
	done    bool
	keyword string
}

func (k *songKeyword) get(ctx context.Context) string {
	if k.done {
		return k.keyword
	}
	k.done = true
	title, err := engine.PageTitle(ctx, k.r.client, k.url, k.r.cfg.UserAgent, k.r.cfg.TitleTimeout)
	if err != nil {
		slog.Debug("music: title fetch failed", slog.String("url", k.url), slog.Any("error", err))
		return ""
	}
	k.keyword = ExtractSongKeyword(title)
	return k.keyword
}
