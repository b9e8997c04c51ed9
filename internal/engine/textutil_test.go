package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	in := "  标题  \n\n\nx\n正文第一段\n沪ICP备13030189号\nCopyright 2024 Example\n下载APP 看更多\n正文第二段"
	assert.Equal(t, "标题\n正文第一段\n正文第二段", CleanText(in, 2000))
}

func TestCleanTextBounded(t *testing.T) {
	long := strings.Repeat("这是一段很长的正文内容。\n", 500)
	markerLen := utf8.RuneCountInString(TruncationMarker)
	for _, max := range []int{20, 100, 2000} {
		got := CleanText(long, max)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), max+markerLen, "max=%d", max)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestBoundShortUnchanged(t *testing.T) {
	assert.Equal(t, "short", Bound("short", 10))
	assert.Equal(t, "anything", Bound("anything", 0))
}
