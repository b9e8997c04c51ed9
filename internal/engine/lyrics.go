package engine

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lrcTimestampRe = regexp.MustCompile(`\[\d{1,3}:\d{1,2}(?:[.:]\d{1,3})?\]`)
	latinOnlyRe    = regexp.MustCompile(`^[A-Za-z\s:]+$`)
	digitsOnlyRe   = regexp.MustCompile(`^\d+$`)
)

// Credit lines mentioning one of these are kept.
var lyricMarkers = []string{"Lyric", "LRC", "歌词"}

const (
	creditMaxRunes   = 35
	fragmentMaxRunes = 20
)

// FilterLyrics reduces a raw lyric payload (LRC or plain) to sung text:
// timestamps, metadata tags, credit lines and noise are removed, and
// space-joined short CJK phrases are split onto their own lines.
// Returns "" when nothing remains. FilterLyrics(FilterLyrics(x)) == FilterLyrics(x).
func FilterLyrics(raw string) string {
	raw = strings.ReplaceAll(raw, `\r\n`, "\n")
	raw = strings.ReplaceAll(raw, `\n`, "\n")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	dropLatin := hasCJK(raw)
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		for _, l := range filterLyricLine(line) {
			if utf8.RuneCountInString(l) <= 1 || digitsOnlyRe.MatchString(l) {
				continue
			}
			if dropLatin && latinOnlyRe.MatchString(l) {
				continue
			}
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// filterLyricLine applies the per-line rules and returns zero or more lines.
func filterLyricLine(line string) []string {
	line, ok := cleanLyricLine(line)
	if !ok {
		return nil
	}
	if !strings.ContainsFunc(line, unicode.IsSpace) || !hasCJK(line) {
		return []string{line}
	}
	fields := strings.Fields(line)
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= fragmentMaxRunes {
			return []string{line}
		}
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f, ok := cleanLyricLine(f); ok {
			out = append(out, f)
		}
	}
	return out
}

// cleanLyricLine strips timestamps and rejects empty, tag and credit lines.
func cleanLyricLine(line string) (string, bool) {
	for {
		stripped := lrcTimestampRe.ReplaceAllString(line, "")
		if stripped == line {
			break
		}
		line = stripped
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "[") {
		return "", false
	}
	if isCreditLine(line) {
		return "", false
	}
	return line, true
}

// isCreditLine matches short "作词：X" / "Composer: X" / "A - B" attribution lines.
func isCreditLine(line string) bool {
	if utf8.RuneCountInString(line) >= creditMaxRunes {
		return false
	}
	if !strings.Contains(line, ":") && !strings.Contains(line, "：") && !strings.Contains(line, " - ") {
		return false
	}
	for _, m := range lyricMarkers {
		if strings.Contains(line, m) {
			return false
		}
	}
	return true
}

func hasCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}
