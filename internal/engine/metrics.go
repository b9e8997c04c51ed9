package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ResolveRequests    atomic.Int64
	MusicRequests      atomic.Int64
	SocialRequests     atomic.Int64
	GenericRequests    atomic.Int64
	FetchRequests      atomic.Int64
	FetchErrors        atomic.Int64
	StealthRequests    atomic.Int64
	RenderRequests     atomic.Int64
	RenderFailures     atomic.Int64
	ShortLinkResolves  atomic.Int64
	ProviderHits       atomic.Int64
	ProviderMisses     atomic.Int64
	APISearchRequests  atomic.Int64
	SiteSearchRequests atomic.Int64
}

var metricKeys = []string{
	"resolve_requests", "music_requests", "social_requests", "generic_requests",
	"fetch_requests", "fetch_errors", "stealth_requests",
	"render_requests", "render_failures",
	"short_link_resolves", "provider_hits", "provider_misses",
	"api_search_requests", "site_search_requests",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"resolve_requests":     metrics.ResolveRequests.Load(),
		"music_requests":       metrics.MusicRequests.Load(),
		"social_requests":      metrics.SocialRequests.Load(),
		"generic_requests":     metrics.GenericRequests.Load(),
		"fetch_requests":       metrics.FetchRequests.Load(),
		"fetch_errors":         metrics.FetchErrors.Load(),
		"stealth_requests":     metrics.StealthRequests.Load(),
		"render_requests":      metrics.RenderRequests.Load(),
		"render_failures":      metrics.RenderFailures.Load(),
		"short_link_resolves":  metrics.ShortLinkResolves.Load(),
		"provider_hits":        metrics.ProviderHits.Load(),
		"provider_misses":      metrics.ProviderMisses.Load(),
		"api_search_requests":  metrics.APISearchRequests.Load(),
		"site_search_requests": metrics.SiteSearchRequests.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// IncrResolve counts one resolution routed to kind.
func IncrResolve(kind SiteKind) {
	metrics.ResolveRequests.Add(1)
	switch kind {
	case SiteMusic:
		metrics.MusicRequests.Add(1)
	case SiteSocialRendered:
		metrics.SocialRequests.Add(1)
	default:
		metrics.GenericRequests.Add(1)
	}
}

// Incrementors for music/ sub-package.
func IncrShortLinkResolves()  { metrics.ShortLinkResolves.Add(1) }
func IncrProviderHits()       { metrics.ProviderHits.Add(1) }
func IncrProviderMisses()     { metrics.ProviderMisses.Add(1) }
func IncrAPISearchRequests()  { metrics.APISearchRequests.Add(1) }
func IncrSiteSearchRequests() { metrics.SiteSearchRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
