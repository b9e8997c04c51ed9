package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go-kit/strutil"
)

// TruncationMarker is appended when text is cut to its bound.
const TruncationMarker = "\n...(truncated)"

// Lines containing any of these are footer/legal/app-promo boilerplate.
var boilerplateKeywords = []string{
	"ICP备", "ICP证", "公网安备", "网安备", "营业执照",
	"网络文化经营许可证", "增值电信业务经营许可证", "违法和不良信息举报", "违法不良信息举报",
	"版权所有", "Copyright", "copyright", "©", "All Rights Reserved", "All rights reserved",
	"下载APP", "下载App", "下载客户端", "打开APP", "打开App", "扫码下载",
	"用户协议", "隐私政策",
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// Bound caps s at maxLength runes plus TruncationMarker. maxLength <= 0 means unbounded.
func Bound(s string, maxLength int) string {
	if maxLength <= 0 || utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	return TruncateRunes(s, maxLength, TruncationMarker)
}

// CleanText drops blank, one-rune and boilerplate lines, joins the rest with
// newlines and bounds the result to maxLength runes.
func CleanText(raw string, maxLength int) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < 2 || isBoilerplate(line) {
			continue
		}
		kept = append(kept, line)
	}
	return Bound(strings.Join(kept, "\n"), maxLength)
}

func isBoilerplate(line string) bool {
	for _, kw := range boilerplateKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
