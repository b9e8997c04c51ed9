package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterLyrics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"timestamp credit latin", "[00:12.34]你好\n作词：张三\nHello", "你好"},
		{"metadata tags", "[ti:晴天]\n[ar:周杰伦]\n[00:01.00]故事的小黄花", "故事的小黄花"},
		{"escaped newlines", `[00:01.00]第一句\n[00:02.00]第二句`, "第一句\n第二句"},
		{"double timestamp", "[00:01.00][01:20.50]副歌", "副歌"},
		{"split short cjk phrases", "[00:05.00]刮风这天 我试过握着你手", "刮风这天\n我试过握着你手"},
		{"long fragment not split", "这是一句非常非常非常非常长的歌词不会被拆开 好", "这是一句非常非常非常非常长的歌词不会被拆开 好"},
		{"credit with marker kept", "歌词：来自网络的一段话", "歌词：来自网络的一段话"},
		{"dash credit", "周杰伦 - 晴天\n从前从前", "从前从前"},
		{"digits and single runes", "123\n啊\n好的", "好的"},
		{"latin kept without cjk", "[00:01.00]Hello darkness\n[00:02.00]my old friend", "Hello darkness\nmy old friend"},
		{"empty", "", ""},
		{"only noise", "[by:someone]\n作曲：李四\n\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterLyrics(tt.in))
		})
	}
}

func TestFilterLyricsIdempotent(t *testing.T) {
	inputs := []string{
		"[00:12.34]你好\n作词：张三\nHello",
		"[00:05.00]刮风这天 我试过握着你手\n[00:09.00]但偏偏 雨渐渐",
		"[00:01.00]Hello darkness\n[00:02.00]my old friend\n1\n",
		"[ti:晴天]\nOne line\n第二行 Two",
		`line one\nline two\n歌词 by 某人`,
	}
	for _, in := range inputs {
		once := FilterLyrics(in)
		assert.Equal(t, once, FilterLyrics(once), "input %q", in)
	}
}
