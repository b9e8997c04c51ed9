package music

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_linkreader/internal/engine"
)

const kuwoLyricURL = "https://m.kuwo.cn/newh5/singles/songinfoandlrc?musicId=%s&httpsStatus=1"

var kuwoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/play_detail/(\d+)`),
	regexp.MustCompile(`[?&#](?:rid|musicId)=(?:MUSIC_)?(\d+)`),
}

// Kuwo reads line-by-line lyrics from Kuwo Music.
type Kuwo struct {
	api APIClient
}

func NewKuwo(api APIClient) *Kuwo { return &Kuwo{api: api} }

func (k *Kuwo) Name() string    { return "kuwo" }
func (k *Kuwo) Hosts() []string { return []string{"kuwo.cn"} }

func (k *Kuwo) SongID(u *url.URL) (string, bool) {
	return firstMatch(kuwoIDPatterns, u.String())
}

type kuwoResp struct {
	Status int `json:"status"`
	Data   *struct {
		LrcList []struct {
			LineLyric string `json:"lineLyric"`
		} `json:"lrclist"`
		SongInfo struct {
			SongName string `json:"songName"`
			Artist   string `json:"artist"`
		} `json:"songinfo"`
	} `json:"data"`
}

func (k *Kuwo) FetchLyrics(ctx context.Context, rid string) (*Lyrics, error) {
	var resp kuwoResp
	if err := k.api.getJSON(ctx, fmt.Sprintf(kuwoLyricURL, url.QueryEscape(rid)), "https://m.kuwo.cn/", &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || len(resp.Data.LrcList) == 0 {
		return nil, engine.NotFoundf("kuwo lyric", "no lyric for song %s", rid)
	}
	lines := make([]string, 0, len(resp.Data.LrcList))
	for _, l := range resp.Data.LrcList {
		lines = append(lines, l.LineLyric)
	}
	return &Lyrics{
		Title: joinTitle(resp.Data.SongInfo.SongName, resp.Data.SongInfo.Artist),
		Lyric: strings.Join(lines, "\n"),
	}, nil
}
