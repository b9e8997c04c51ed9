package engine

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content containers per platform, tried in order. The first selector that
// yields text wins; otherwise the whole body is used.
var socialSelectors = map[string][]string{
	"xiaohongshu": {"#detail-desc", "#noteContainer .note-content", ".note-content"},
	"zhihu":       {".RichContent-inner", ".Post-RichTextContainer", ".QuestionAnswer-content", "[class*='RichText']"},
	"weibo":       {"[class*='detail_wbtext']", ".WB_text", "[class*='wbtext']"},
	"bilibili":    {".opus-module-content", ".article-content", ".basic-desc-info", "[class*='desc-info']"},
	"douyin":      {"[data-e2e='video-desc']", "[data-e2e='detail-video-info']", "[data-e2e='note-desc']"},
	"lofter":      {".postinner", ".m-post .content", ".ct .txt"},
}

// AnchorSlice is a named heuristic for pages whose DOM puts sidebar and
// legal text ahead of the post: everything up to and including Marker is cut.
type AnchorSlice struct {
	Name     string
	Platform string
	Marker   string
}

var anchorSlices = []AnchorSlice{
	// Xiaohongshu's left rail ends with the operator's contact line.
	{Name: "xiaohongshu-sidebar", Platform: "xiaohongshu", Marker: "电话：9501-3888"},
	{Name: "douyin-sidebar", Platform: "douyin", Marker: "京ICP备16016397号-3"},
}

// Apply keeps only the text after the first Marker. A missing marker leaves
// text untouched.
func (a AnchorSlice) Apply(text string) string {
	idx := strings.Index(text, a.Marker)
	if idx < 0 {
		return text
	}
	return strings.TrimSpace(text[idx+len(a.Marker):])
}

// ExtractSocialText pulls the post text out of a rendered social page and
// returns it cleaned and bounded by cfg.MaxLength. Returns "" when the page
// has no usable text.
func ExtractSocialText(domain, page string, cfg Config) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}
	StripNonContent(doc)

	platform, _ := SocialPlatform(domain)
	var text string
	for _, sel := range socialSelectors[platform] {
		s := doc.Find(sel)
		if s.Length() == 0 {
			continue
		}
		if text = SelectionText(s); text != "" {
			slog.Debug("social: container matched", slog.String("platform", platform), slog.String("selector", sel))
			break
		}
	}
	if text == "" {
		body := doc.Find("body")
		if body.Length() == 0 {
			body = doc.Selection
		}
		text = SelectionText(body)
	}

	for _, a := range anchorSlices {
		if a.Platform == platform && cfg.heuristicEnabled(a.Name) {
			text = a.Apply(text)
		}
	}
	return CleanText(text, cfg.MaxLength)
}
