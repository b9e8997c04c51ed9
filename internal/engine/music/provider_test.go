package music

import (
	"context"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
	"github.com/anatolykoptev/go_linkreader/internal/engine/enginetest"
)

func testAPI(tr *enginetest.Transport) APIClient {
	return APIClient{Client: tr.Client(), UserAgent: engine.UserAgentChrome}
}

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func TestSongID(t *testing.T) {
	api := APIClient{}
	tests := []struct {
		provider Provider
		url      string
		want     string
		ok       bool
	}{
		{NewNetease(api), "https://music.163.com/#/song?id=186016", "186016", true},
		{NewNetease(api), "https://music.163.com/song?id=186016&userid=1", "186016", true},
		{NewNetease(api), "https://y.music.163.com/m/song/186016/", "186016", true},
		{NewNetease(api), "https://music.163.com/playlist?pid=1", "", false},
		{NewQQ(api), "https://y.qq.com/n/ryqq/songDetail/0039MnYb0qxYhV", "0039MnYb0qxYhV", true},
		{NewQQ(api), "https://i.y.qq.com/v8/playsong.html?songmid=0039MnYb0qxYhV&type=0", "0039MnYb0qxYhV", true},
		{NewQQ(api), "https://y.qq.com/n/yqq/song/0039MnYb0qxYhV.html", "0039MnYb0qxYhV", true},
		{NewKugou(api), "https://www.kugou.com/song/#hash=5fce4a1b9a8c4f7a2d1e6b3c8f9a0e12&album_id=1", "5FCE4A1B9A8C4F7A2D1E6B3C8F9A0E12", true},
		{NewKugou(api), "https://www.kugou.com/mixsong/abc.html", "", false},
		{NewKuwo(api), "https://www.kuwo.cn/play_detail/228908", "228908", true},
		{NewKuwo(api), "https://m.kuwo.cn/newh5app/play_detail?rid=MUSIC_228908", "228908", true},
		{NewKuwo(api), "https://m.kuwo.cn/x?musicId=228908", "228908", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := tt.provider.SongID(mustURL(t, tt.url))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeteaseFetchLyrics(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/api/song/lyric", "application/json",
		`{"code":200,"lrc":{"lyric":"[00:01.00]故事的小黄花\n"},"tlyric":{"lyric":""}}`)

	lyr, err := NewNetease(testAPI(tr)).FetchLyrics(context.Background(), "186016")
	require.NoError(t, err)
	assert.Equal(t, "[00:01.00]故事的小黄花\n", lyr.Lyric)
}

func TestNeteaseNoLyric(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/api/song/lyric", "application/json", `{"code":200,"nolyric":true}`)

	_, err := NewNetease(testAPI(tr)).FetchLyrics(context.Background(), "1")
	assert.Equal(t, engine.NotFound, engine.KindOf(err))
}

func TestNeteaseSearch(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("music.163.com/api/search/get", "application/json",
		`{"code":200,"result":{"songs":[{"id":186016,"name":"晴天"}]}}`)

	id, err := NewNetease(testAPI(tr)).SearchSong(context.Background(), "晴天")
	require.NoError(t, err)
	assert.Equal(t, "186016", id)
}

func TestQQFetchLyricsJSONP(t *testing.T) {
	lyric := base64.StdEncoding.EncodeToString([]byte("[00:01.00]刮风这天"))
	trans := base64.StdEncoding.EncodeToString([]byte("[00:01.00]windy day"))
	tr := enginetest.NewTransport()
	tr.Body("c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg", "application/javascript",
		`MusicJsonCallback({"retcode":0,"code":0,"lyric":"`+lyric+`","trans":"`+trans+`"})`)

	lyr, err := NewQQ(testAPI(tr)).FetchLyrics(context.Background(), "0039MnYb0qxYhV")
	require.NoError(t, err)
	assert.Equal(t, "[00:01.00]刮风这天", lyr.Lyric)
	assert.Equal(t, "[00:01.00]windy day", lyr.Translation)
}

func TestQQSearch(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("u.y.qq.com/cgi-bin/musicu.fcg", "application/json",
		`{"req_0":{"code":0,"data":{"body":{"song":{"list":[{"mid":"0039MnYb0qxYhV","name":"晴天"}]}}}}}`)

	id, err := NewQQ(testAPI(tr)).SearchSong(context.Background(), "晴天")
	require.NoError(t, err)
	assert.Equal(t, "0039MnYb0qxYhV", id)
}

func TestKugouFetchLyrics(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("[00:01.00]对这个世界如果你有太多的抱怨"))
	tr := enginetest.NewTransport()
	tr.Body("krcs.kugou.com/search", "application/json",
		`{"status":200,"candidates":[{"id":12345,"accesskey":"KEY","song":"稻香","singer":"周杰伦"}]}`)
	tr.Body("lyrics.kugou.com/download", "application/json",
		`{"status":200,"content":"`+content+`"}`)

	lyr, err := NewKugou(testAPI(tr)).FetchLyrics(context.Background(), "5FCE4A1B9A8C4F7A2D1E6B3C8F9A0E12")
	require.NoError(t, err)
	assert.Equal(t, "稻香 - 周杰伦", lyr.Title)
	assert.Equal(t, "[00:01.00]对这个世界如果你有太多的抱怨", lyr.Lyric)
}

func TestKugouNoCandidate(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("krcs.kugou.com/search", "application/json", `{"status":200,"candidates":[]}`)

	_, err := NewKugou(testAPI(tr)).FetchLyrics(context.Background(), "X")
	assert.Equal(t, engine.NotFound, engine.KindOf(err))
	assert.Zero(t, tr.Calls("lyrics.kugou.com/download"))
}

func TestKuwoFetchLyrics(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("m.kuwo.cn/newh5/singles/songinfoandlrc", "application/json",
		`{"status":200,"data":{"lrclist":[{"lineLyric":"还记得你说家是唯一的城堡","time":"1.0"},{"lineLyric":"随着稻香河流继续奔跑","time":"5.0"}],"songinfo":{"songName":"稻香","artist":"周杰伦"}}}`)

	lyr, err := NewKuwo(testAPI(tr)).FetchLyrics(context.Background(), "228908")
	require.NoError(t, err)
	assert.Equal(t, "稻香 - 周杰伦", lyr.Title)
	assert.Equal(t, "还记得你说家是唯一的城堡\n随着稻香河流继续奔跑", lyr.Lyric)
}

func TestKuwoNullData(t *testing.T) {
	tr := enginetest.NewTransport()
	tr.Body("m.kuwo.cn/newh5/singles/songinfoandlrc", "application/json", `{"status":200,"data":null}`)

	_, err := NewKuwo(testAPI(tr)).FetchLyrics(context.Background(), "1")
	assert.Equal(t, engine.NotFound, engine.KindOf(err))
}

func TestDecodeBase64Lyric(t *testing.T) {
	assert.Equal(t, "hello", decodeBase64Lyric(base64.StdEncoding.EncodeToString([]byte("hello"))))
	assert.Equal(t, "not base64!", decodeBase64Lyric("not base64!"))
	assert.Equal(t, "", decodeBase64Lyric("  "))
}
