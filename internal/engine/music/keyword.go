package music

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Title segments that name the site rather than the song.
var siteMarkers = []string{
	"网易云音乐", "QQ音乐", "酷狗音乐", "酷我音乐", "单曲", "在线试听", "高品质音乐",
}

var (
	titleSeparatorRe = regexp.MustCompile(`\s+[-–—]\s+|_`)
	decorationRe     = regexp.MustCompile(`\([^)]*\)|（[^）]*）|\[[^\]]*\]|【[^】]*】`)
)

// ExtractSongKeyword turns a song page title into a search keyword.
// "晴天 - 周杰伦 - 单曲 - 网易云音乐" keeps the longer of the song/artist
// sides; returns "" when nothing usable remains.
func ExtractSongKeyword(title string) string {
	if i := strings.IndexAny(title, "|｜"); i >= 0 {
		title = title[:i]
	}
	title = strings.NewReplacer("《", "", "》", "").Replace(title)

	var best string
	for _, part := range titleSeparatorRe.Split(title, -1) {
		if isSiteSegment(part) {
			continue
		}
		part = strings.TrimSpace(decorationRe.ReplaceAllString(part, ""))
		part = strings.Join(strings.Fields(part), " ")
		if utf8.RuneCountInString(part) > utf8.RuneCountInString(best) {
			best = part
		}
	}
	return best
}

func isSiteSegment(s string) bool {
	for _, m := range siteMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
