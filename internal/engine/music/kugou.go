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
	kugouCandidateURL = "https://krcs.kugou.com/search?ver=1&man=yes&client=mobi&hash=%s"
	kugouDownloadURL  = "https://lyrics.kugou.com/download?ver=1&client=pc&id=%s&accesskey=%s&fmt=lrc&charset=utf8"
)

var kugouIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[?&#/]hash=([0-9a-f]{32})`),
}

// Kugou reads lyrics from Kugou Music in two steps: hash -> lyric candidate -> download.
type Kugou struct {
	api APIClient
}

func NewKugou(api APIClient) *Kugou { return &Kugou{api: api} }

func (k *Kugou) Name() string    { return "kugou" }
func (k *Kugou) Hosts() []string { return []string{"kugou.com"} }

func (k *Kugou) SongID(u *url.URL) (string, bool) {
	id, ok := firstMatch(kugouIDPatterns, u.String())
	return strings.ToUpper(id), ok
}

type kugouCandidateResp struct {
	Status     int `json:"status"`
	Candidates []struct {
		ID        flexString `json:"id"`
		AccessKey string     `json:"accesskey"`
		Song      string     `json:"song"`
		Singer    string     `json:"singer"`
	} `json:"candidates"`
}

type kugouDownloadResp struct {
	Status  int    `json:"status"`
	Content string `json:"content"`
}

func (k *Kugou) FetchLyrics(ctx context.Context, hash string) (*Lyrics, error) {
	var cand kugouCandidateResp
	if err := k.api.getJSON(ctx, fmt.Sprintf(kugouCandidateURL, url.QueryEscape(hash)), "", &cand); err != nil {
		return nil, err
	}
	if len(cand.Candidates) == 0 || cand.Candidates[0].ID == "" {
		return nil, engine.NotFoundf("kugou candidate", "no lyric candidate for %s", hash)
	}
	c := cand.Candidates[0]

	var dl kugouDownloadResp
	u := fmt.Sprintf(kugouDownloadURL, url.QueryEscape(string(c.ID)), url.QueryEscape(c.AccessKey))
	if err := k.api.getJSON(ctx, u, "", &dl); err != nil {
		return nil, err
	}
	lyric := decodeBase64Lyric(dl.Content)
	if strings.TrimSpace(lyric) == "" {
		return nil, engine.NotFoundf("kugou lyric", "empty lyric for %s", hash)
	}
	return &Lyrics{Title: joinTitle(c.Song, c.Singer), Lyric: lyric}, nil
}
