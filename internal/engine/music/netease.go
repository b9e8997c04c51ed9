package music

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

const (
	neteaseReferer   = "https://music.163.com/"
	neteaseLyricURL  = "https://music.163.com/api/song/lyric?id=%s&lv=1&kv=1&tv=-1"
	neteaseSearchURL = "https://music.163.com/api/search/get?s=%s&type=1&limit=5"
)

var neteaseIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]id=(\d+)`),
	regexp.MustCompile(`/song/(\d+)`),
}

// Netease reads lyrics from NetEase Cloud Music.
type Netease struct {
	api APIClient
}

func NewNetease(api APIClient) *Netease { return &Netease{api: api} }

func (n *Netease) Name() string    { return "netease" }
func (n *Netease) Hosts() []string { return []string{"music.163.com", "163cn.tv", "163cn.link"} }

// SongID matches both query ids and the "#/song?id=" hash route.
func (n *Netease) SongID(u *url.URL) (string, bool) {
	return firstMatch(neteaseIDPatterns, u.String())
}

type neteaseLyricResp struct {
	Code    int  `json:"code"`
	NoLyric bool `json:"nolyric"`
	Lrc     struct {
		Lyric string `json:"lyric"`
	} `json:"lrc"`
	Tlyric  struct {
		Lyric string `json:"lyric"`
	} `json:"tlyric"`
}

func (n *Netease) FetchLyrics(ctx context.Context, id string) (*Lyrics, error) {
	var resp neteaseLyricResp
	if err := n.api.getJSON(ctx, fmt.Sprintf(neteaseLyricURL, url.QueryEscape(id)), neteaseReferer, &resp); err != nil {
		return nil, err
	}
	if resp.NoLyric || strings.TrimSpace(resp.Lrc.Lyric) == "" {
		return nil, engine.NotFoundf("netease lyric", "no lyric for song %s", id)
	}
	return &Lyrics{Lyric: resp.Lrc.Lyric, Translation: resp.Tlyric.Lyric}, nil
}

type neteaseSearchResp struct {
	Code   int `json:"code"`
	Result struct {
		Songs []struct {
			ID int64 `json:"id"`
		} `json:"songs"`
	} `json:"result"`
}

func (n *Netease) SearchSong(ctx context.Context, keyword string) (string, error) {
	var resp neteaseSearchResp
	if err := n.api.getJSON(ctx, fmt.Sprintf(neteaseSearchURL, url.QueryEscape(keyword)), neteaseReferer, &resp); err != nil {
		return "", err
	}
	if len(resp.Result.Songs) == 0 {
		return "", engine.NotFoundf("netease search", "no song for %q", keyword)
	}
	return itoa(resp.Result.Songs[0].ID), nil
}

func firstMatch(patterns []*regexp.Regexp, s string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
