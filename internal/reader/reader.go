// Package reader is the single entry point that turns a URL into bounded
// text plus an optional screenshot.
package reader

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/engine/music"
)

// InvalidURLMessage is the text returned for input that is not an http(s) URL.
const InvalidURLMessage = "The link is not a valid http(s) URL."

// MusicResolver resolves a music link to a lyric answer. Never fails.
type MusicResolver interface {
	ResolveMusic(ctx context.Context, rawURL string) string
}

// GenericFetcher fetches a page's cleaned text. Never fails.
type GenericFetcher interface {
	FetchGeneric(ctx context.Context, rawURL string) string
}

type handler func(ctx context.Context, req engine.ResolutionRequest) engine.Content

// Reader routes URLs to music, rendered-social or generic acquisition.
type Reader struct {
	cfg        engine.Config
	classifier engine.Classifier
	music      MusicResolver
	fetcher    GenericFetcher
	renderer   engine.PageRenderer
	handlers   map[engine.SiteKind]handler

	rendererSet bool
}

// Option configures a Reader.
type Option func(*Reader)

// WithMusic replaces the music resolver.
func WithMusic(m MusicResolver) Option { return func(r *Reader) { r.music = m } }

// WithFetcher replaces the generic fetcher.
func WithFetcher(f GenericFetcher) Option { return func(r *Reader) { r.fetcher = f } }

// WithRenderer replaces the page renderer. nil disables rendering.
func WithRenderer(p engine.PageRenderer) Option {
	return func(r *Reader) {
		r.renderer = p
		r.rendererSet = true
	}
}

// New builds a Reader. A local or remote browser is used when cfg enables
// rendering and one is reachable.
func New(cfg engine.Config, opts ...Option) *Reader {
	r := &Reader{cfg: cfg}
	for _, o := range opts {
		o(r)
	}
	if r.music == nil {
		r.music = music.New(cfg)
	}
	if r.fetcher == nil {
		r.fetcher = engine.NewFetcher(cfg)
	}
	if !r.rendererSet && engine.RenderAvailable(cfg) {
		r.renderer = engine.NewRenderer(cfg)
	}
	r.classifier = engine.Classifier{CanRender: r.renderer != nil && cfg.EnableRender}

	r.handlers = map[engine.SiteKind]handler{
		engine.SiteGeneric:        r.resolveGeneric,
		engine.SiteMusic:          r.resolveMusic,
		engine.SiteSocialRendered: r.resolveSocial,
	}
	if !cfg.EnableMusic {
		r.handlers[engine.SiteMusic] = r.resolveGeneric
	}
	return r
}

// CanRender reports whether social links are rendered in a browser.
func (r *Reader) CanRender() bool { return r.classifier.CanRender }

// Classify returns the SiteKind a URL would be routed to.
func (r *Reader) Classify(rawURL string) engine.SiteKind { return r.classifier.Classify(rawURL) }

// Resolve returns the content for one URL. Text is never empty and is
// bounded by MaxLength runes plus the truncation marker.
func (r *Reader) Resolve(ctx context.Context, rawURL string) engine.Content {
	req, err := engine.NewRequest(rawURL)
	if err != nil {
		slog.Debug("reader: invalid url", slog.String("url", rawURL), slog.Any("error", err))
		return engine.Content{Text: InvalidURLMessage}
	}

	kind := r.classifier.Classify(req.URL)
	engine.IncrResolve(kind)

	content := r.handlers[kind](ctx, req)

	content.Text = engine.Bound(content.Text, r.cfg.MaxLength)
	if content.Text == "" {
		content.Text = engine.FetchErrorMessage
	}
	slog.Debug("reader: resolved",
		slog.String("url", req.URL),
		slog.String("kind", kind.String()),
		slog.Int("text_len", len(content.Text)),
		slog.Bool("screenshot", content.HasScreenshot()))
	return content
}

func (r *Reader) resolveGeneric(ctx context.Context, req engine.ResolutionRequest) engine.Content {
	return engine.Content{Text: r.fetcher.FetchGeneric(ctx, req.URL)}
}

func (r *Reader) resolveMusic(ctx context.Context, req engine.ResolutionRequest) engine.Content {
	return engine.Content{Text: r.music.ResolveMusic(ctx, req.URL)}
}

// resolveSocial renders the page and extracts the post; the generic fetch
// is the fallback when rendering fails or yields no text.
func (r *Reader) resolveSocial(ctx context.Context, req engine.ResolutionRequest) engine.Content {
	content, _ := engine.FirstNonEmpty(ctx, func(c engine.Content) bool { return c.Text == "" },
		engine.Tier[engine.Content]{Name: "render", Run: func(ctx context.Context) (engine.Content, error) {
			var page *engine.RenderedPage
			err := engine.TrackOperation(ctx, "render", func(ctx context.Context) (err error) {
				page, err = r.renderer.RenderPage(ctx, req.URL)
				return err
			})
			if err != nil {
				return engine.Content{}, err
			}
			text := engine.ExtractSocialText(req.Domain, page.HTML, r.cfg)
			if text == "" {
				return engine.Content{}, nil
			}
			return engine.Content{Text: text, Screenshot: bytes.Clone(page.Screenshot)}, nil
		}},
		engine.Tier[engine.Content]{Name: "generic", Run: func(ctx context.Context) (engine.Content, error) {
			return r.resolveGeneric(ctx, req), nil
		}},
	)
	return content
}
