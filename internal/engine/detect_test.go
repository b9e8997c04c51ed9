package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url       string
		canRender bool
		want      SiteKind
	}{
		{"https://music.163.com/#/song?id=186016", false, SiteMusic},
		{"https://MUSIC.163.COM/song?id=1", false, SiteMusic},
		{"http://163cn.tv/abc", false, SiteMusic},
		{"https://i.y.qq.com/v8/playsong.html?songmid=x", false, SiteMusic},
		{"https://www.kugou.com/song/#hash=abc", false, SiteMusic},
		{"https://www.kuwo.cn/play_detail/123", false, SiteMusic},
		{"https://www.xiaohongshu.com/explore/1", true, SiteSocialRendered},
		{"https://www.xiaohongshu.com/explore/1", false, SiteGeneric},
		{"https://ZHIHU.com/question/1", true, SiteSocialRendered},
		{"https://m.weibo.cn/status/1", true, SiteSocialRendered},
		{"https://b23.tv/xyz", true, SiteSocialRendered},
		{"https://notzhihu.com/a", true, SiteGeneric},
		{"https://example.com/post", true, SiteGeneric},
		{"not a url", true, SiteGeneric},
		{"", false, SiteGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, Classifier{CanRender: tt.canRender}.Classify(tt.url))
		})
	}
}

func TestHostMatches(t *testing.T) {
	assert.True(t, HostMatches("music.163.com", "music.163.com"))
	assert.True(t, HostMatches("y.music.163.com", "music.163.com"))
	assert.False(t, HostMatches("fakemusic.163.com", "music.163.com"))
	assert.True(t, IsShortLink("c6.y.qq.com"))
	assert.False(t, IsShortLink("y.qq.com"))
}

func TestSocialPlatform(t *testing.T) {
	p, ok := SocialPlatform("xhslink.com")
	assert.True(t, ok)
	assert.Equal(t, "xiaohongshu", p)

	_, ok = SocialPlatform("example.com")
	assert.False(t, ok)
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("  https://Example.COM:8443/a?b=1 ")
	assert.NoError(t, err)
	assert.Equal(t, "example.com", req.Domain)
	assert.Equal(t, "https://Example.COM:8443/a?b=1", req.URL)

	for _, bad := range []string{"", "ftp://example.com/x", "https://", "::::"} {
		_, err := NewRequest(bad)
		assert.Error(t, err, bad)
		assert.Equal(t, ParseError, KindOf(err), bad)
	}
}

func TestCookieHeaders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cookies = map[string]string{"tieba": "BDUSS=1", "zhihu": "z_c0=2"}

	assert.Equal(t, "tieba", CookieKey("tieba.baidu.com"))
	assert.Equal(t, "", CookieKey("example.com"))
	assert.Equal(t, "BDUSS=1", cfg.HeadersFor("tieba.baidu.com").Get("Cookie"))
	assert.Equal(t, "z_c0=2", cfg.HeadersFor("www.zhihu.com").Get("Cookie"))
	assert.Empty(t, cfg.HeadersFor("weibo.com").Get("Cookie"))
	assert.Empty(t, cfg.HeadersFor("example.com").Get("Cookie"))
	assert.Equal(t, UserAgentChrome, cfg.HeadersFor("example.com").Get("User-Agent"))
}
