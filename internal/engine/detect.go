package engine

import (
	"net/url"
	"strings"
)

// SiteKind determines which acquisition strategy handles a URL.
type SiteKind int

const (
	SiteGeneric        SiteKind = iota // default: plain GET + text extraction
	SiteMusic                          // lyric lookup through music providers
	SiteSocialRendered                 // headless browser render + screenshot
)

func (k SiteKind) String() string {
	switch k {
	case SiteMusic:
		return "music"
	case SiteSocialRendered:
		return "social"
	default:
		return "generic"
	}
}

// Music provider domains, including their short-link hosts.
var musicDomains = []string{
	"music.163.com", "163cn.tv", "163cn.link",
	"y.qq.com", "url.cn",
	"kugou.com",
	"kuwo.cn",
}

// Hosts that only redirect to a music page.
var shortLinkDomains = []string{
	"163cn.tv", "163cn.link", "url.cn", "c6.y.qq.com", "t.kugou.com",
}

// JavaScript-heavy creator platforms, keyed to the platform name used for
// content selectors and anchor-slice heuristics.
var socialDomains = []struct{ domain, platform string }{
	{"xiaohongshu.com", "xiaohongshu"},
	{"xhslink.com", "xiaohongshu"},
	{"zhihu.com", "zhihu"},
	{"weibo.com", "weibo"},
	{"weibo.cn", "weibo"},
	{"bilibili.com", "bilibili"},
	{"b23.tv", "bilibili"},
	{"douyin.com", "douyin"},
	{"lofter.com", "lofter"},
}

// Classifier maps URLs to a SiteKind. CanRender reports whether a headless
// browser is available; without one social platforms are fetched generically.
type Classifier struct {
	CanRender bool
}

// Classify returns the SiteKind for a URL. Pure string matching on the host,
// no IO. Music wins over social; everything else is generic.
func (c Classifier) Classify(rawURL string) SiteKind {
	host := HostOf(rawURL)
	if host == "" {
		return SiteGeneric
	}
	if IsMusicHost(host) {
		return SiteMusic
	}
	if _, ok := SocialPlatform(host); ok && c.CanRender {
		return SiteSocialRendered
	}
	return SiteGeneric
}

// HostOf returns the lower-cased host of a URL without port, or "".
func HostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}

// HostMatches reports whether host is domain or one of its subdomains.
func HostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// MatchAny reports whether host matches any of the domains.
func MatchAny(host string, domains []string) bool {
	for _, d := range domains {
		if HostMatches(host, d) {
			return true
		}
	}
	return false
}

// IsMusicHost reports whether host belongs to a supported music provider.
func IsMusicHost(host string) bool {
	return MatchAny(host, musicDomains)
}

// IsShortLink reports whether host is a known music short-link domain.
func IsShortLink(host string) bool {
	return MatchAny(host, shortLinkDomains)
}

// SocialPlatform returns the platform name for a social host.
func SocialPlatform(host string) (string, bool) {
	for _, s := range socialDomains {
		if HostMatches(host, s.domain) {
			return s.platform, true
		}
	}
	return "", false
}
