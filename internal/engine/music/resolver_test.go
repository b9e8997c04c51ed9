package music

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/engine/enginetest"
)

type countingSearcher struct {
	calls    int
	keywords []string
	text     string
	err      error
}

func (s *countingSearcher) Search(_ context.Context, keyword string) (string, error) {
	s.calls++
	s.keywords = append(s.keywords, keyword)
	return s.text, s.err
}

const neteaseSongPage = `<html><head><title>晴天 - 周杰伦 - 单曲 - 网易云音乐</title></head><body></body></html>`

func testResolver(tr *enginetest.Transport, s LyricSearcher, mutate ...func(*engine.Config)) *Resolver {
	cfg := engine.DefaultConfig()
	cfg.HTTPClient = tr.Client()
	for _, m := range mutate {
		m(&cfg)
	}
	return New(cfg, WithSearcher(s))
}

func TestResolveMusicShortLink(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Redirect("HEAD 163cn.tv/xYz", "https://music.163.com/song?id=186016")
	tr.Body("music.163.com/song", "text/html", neteaseSongPage)
	tr.Body("music.163.com/api/song/lyric", "application/json",
		`{"code":200,"lrc":{"lyric":"[00:00.00]作词：周杰伦\n[00:20.00]故事的小黄花\n[00:24.00]从出生那年就飘着"}}`)
	s := &countingSearcher{}

	got := testResolver(tr, s).ResolveMusic(context.Background(), "http://163cn.tv/xYz")

	assert.Contains(t, got, "故事的小黄花\n从出生那年就飘着")
	assert.NotContains(t, got, "作词")
	assert.Contains(t, got, "周杰伦")
	assert.Contains(t, got, "netease")
	assert.Equal(t, 1, tr.Calls("music.163.com/api/song/lyric"))
	assert.Zero(t, s.calls, "site search must not run after a direct hit")
	assert.Zero(t, tr.Calls("music.163.com/api/search/get"), "api search must not run after a direct hit")
}

func TestResolveMusicProviderTitleSkipsPageFetch(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("m.kuwo.cn/newh5/singles/songinfoandlrc", "application/json",
		`{"status":200,"data":{"lrclist":[{"lineLyric":"还记得你说家是唯一的城堡","time":"1.0"}],"songinfo":{"songName":"稻香","artist":"周杰伦"}}}`)
	s := &countingSearcher{}

	got := testResolver(tr, s).ResolveMusic(context.Background(), "https://www.kuwo.cn/play_detail/228908")

	assert.Contains(t, got, "Song: 稻香 - 周杰伦")
	assert.Contains(t, got, "还记得你说家是唯一的城堡")
	assert.Zero(t, tr.Calls("www.kuwo.cn/play_detail/228908"), "song page title is not needed when the provider names the song")
}

func TestResolveMusicAPISearchFallback(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/song", "text/html", neteaseSongPage)
	tr.Body("music.163.com/api/song/lyric", "application/json", `{"code":200,"nolyric":true}`)
	tr.Body("music.163.com/api/search/get", "application/json", `{"code":200,"result":{"songs":[]}}`)
	tr.Body("u.y.qq.com/cgi-bin/musicu.fcg", "application/json",
		`{"req_0":{"code":0,"data":{"body":{"song":{"list":[{"mid":"0039MnYb0qxYhV"}]}}}}}`)
	tr.Body("c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg", "application/json",
		`{"retcode":0,"lyric":"[00:01.00]刮风这天 我试过握着你手"}`)
	s := &countingSearcher{}

	got := testResolver(tr, s).ResolveMusic(context.Background(), "https://music.163.com/song?id=186016")

	assert.Contains(t, got, "刮风这天\n我试过握着你手")
	assert.Contains(t, got, "qq")
	assert.Equal(t, 1, tr.Calls("music.163.com/api/search/get"))
	assert.Zero(t, s.calls)
}

func TestResolveMusicSiteSearchFallback(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/song", "text/html", neteaseSongPage)
	tr.Body("music.163.com/api/song/lyric", "application/json", `{"code":200,"nolyric":true}`)
	s := &countingSearcher{text: "故事的小黄花\n从出生那年就飘着"}

	got := testResolver(tr, s, func(c *engine.Config) { c.EnableAPISearch = false }).
		ResolveMusic(context.Background(), "https://music.163.com/song?id=186016")

	assert.Contains(t, got, "故事的小黄花")
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, []string{"周杰伦"}, s.keywords)
	assert.Zero(t, tr.Calls("music.163.com/api/search/get"))
}

func TestResolveMusicNotFound(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/song", "text/html", neteaseSongPage)
	s := &countingSearcher{err: errors.New("down")}

	got := testResolver(tr, s, func(c *engine.Config) { c.EnableAPISearch = false }).
		ResolveMusic(context.Background(), "https://music.163.com/song?id=186016")

	assert.Contains(t, got, "周杰伦")
	assert.NotEqual(t, NotFoundMessage, got)
}

func TestResolveMusicNotFoundNoKeyword(t *testing.T) {
	tr := enginetest.NewTransport()
	s := &countingSearcher{}

	got := testResolver(tr, s).ResolveMusic(context.Background(), "https://www.kugou.com/mixsong/abc.html")

	assert.Equal(t, NotFoundMessage, got)
	assert.Zero(t, s.calls, "no keyword means no site search")
}

func TestResolveMusicLyricCap(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("m.kuwo.cn/newh5/singles/songinfoandlrc", "application/json",
		`{"status":200,"data":{"lrclist":[{"lineLyric":"还记得你说家是唯一的城堡"},{"lineLyric":"随着稻香河流继续奔跑"},{"lineLyric":"微微笑小时候的梦我知道"}],"songinfo":{"songName":"稻香","artist":"周杰伦"}}}`)

	got := testResolver(tr, &countingSearcher{}, func(c *engine.Config) { c.MaxLyricChars = 10 }).
		ResolveMusic(context.Background(), "https://www.kuwo.cn/play_detail/228908")

	assert.Contains(t, got, "稻香 - 周杰伦")
	assert.Contains(t, got, engine.TruncationMarker)
	assert.NotContains(t, got, "微微笑")
}
