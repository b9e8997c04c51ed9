package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

const (
	qqReferer   = "https://y.qq.com/"
	qqLyricURL  = "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg?songmid=%s&format=json&g_tk=5381"
	qqSearchURL = "https://u.y.qq.com/cgi-bin/musicu.fcg?data=%s"
)

var qqIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/songDetail/([0-9A-Za-z]+)`),
	regexp.MustCompile(`[?&#]songmid=([0-9A-Za-z]+)`),
	regexp.MustCompile(`/song/([0-9A-Za-z]+)\.html`),
}

// QQ reads lyrics from QQ Music.
type QQ struct {
	api APIClient
}

func NewQQ(api APIClient) *QQ { return &QQ{api: api} }

func (q *QQ) Name() string    { return "qq" }
func (q *QQ) Hosts() []string { return []string{"y.qq.com", "url.cn"} }

func (q *QQ) SongID(u *url.URL) (string, bool) {
	return firstMatch(qqIDPatterns, u.String())
}

type qqLyricResp struct {
	RetCode int    `json:"retcode"`
	Code    int    `json:"code"`
	Lyric   string `json:"lyric"`
	Trans   string `json:"trans"`
}

func (q *QQ) FetchLyrics(ctx context.Context, mid string) (*Lyrics, error) {
	body, err := q.api.get(ctx, fmt.Sprintf(qqLyricURL, url.QueryEscape(mid)), qqReferer)
	if err != nil {
		return nil, err
	}
	var resp qqLyricResp
	if err := json.Unmarshal(stripJSONP(body), &resp); err != nil {
		return nil, &engine.Error{Kind: engine.ParseError, Op: "qq lyric", Err: err}
	}
	lyric := decodeBase64Lyric(resp.Lyric)
	if resp.RetCode != 0 || strings.TrimSpace(lyric) == "" {
		return nil, engine.NotFoundf("qq lyric", "no lyric for song %s (retcode %d)", mid, resp.RetCode)
	}
	return &Lyrics{Lyric: lyric, Translation: decodeBase64Lyric(resp.Trans)}, nil
}

type qqSearchReq struct {
	Req0 qqSearchCall `json:"req_0"`
}

type qqSearchCall struct {
	Module string        `json:"module"`
	Method string        `json:"method"`
	Param  qqSearchParam `json:"param"`
}

type qqSearchParam struct {
	Query      string `json:"query"`
	NumPerPage int    `json:"num_per_page"`
	PageNum    int    `json:"page_num"`
	SearchType int    `json:"search_type"`
}

type qqSearchResp struct {
	Req0 struct {
		Code int `json:"code"`
		Data struct {
			Body struct {
				Song struct {
					List []struct {
						Mid  string `json:"mid"`
						Name string `json:"name"`
					} `json:"list"`
				} `json:"song"`
			} `json:"body"`
		} `json:"data"`
	} `json:"req_0"`
}

func (q *QQ) SearchSong(ctx context.Context, keyword string) (string, error) {
	payload, err := json.Marshal(qqSearchReq{Req0: qqSearchCall{
		Module: "music.search.SearchCgiService",
		Method: "DoSearchForQQMusicDesktop",
		Param:  qqSearchParam{Query: keyword, NumPerPage: 5, PageNum: 1},
	}})
	if err != nil {
		return "", err
	}
	var resp qqSearchResp
	if err := q.api.getJSON(ctx, fmt.Sprintf(qqSearchURL, url.QueryEscape(string(payload))), qqReferer, &resp); err != nil {
		return "", err
	}
	for _, s := range resp.Req0.Data.Body.Song.List {
		if s.Mid != "" {
			return s.Mid, nil
		}
	}
	return "", engine.NotFoundf("qq search", "no song for %q", keyword)
}
