// Package toolutil provides shared helper functions for the link reader MCP tools.
package toolutil

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://(?:[-\w.]|(?:%[\da-fA-F]{2}))+[/\w\.-]*\??[\w=&%\.-]*`)

// ScreenshotNote is appended to a prompt when a page screenshot is attached.
const ScreenshotNote = "\n(page screenshot attached for reference)"

// ExtractURL returns the first http(s) URL in text, or "".
func ExtractURL(text string) string {
	return urlPattern.FindString(text)
}

// FormatPrompt substitutes content into the template's {content} placeholder.
// A template without the placeholder gets the content appended.
func FormatPrompt(template, content string) string {
	if !strings.Contains(template, "{content}") {
		return template + content
	}
	return strings.ReplaceAll(template, "{content}", content)
}

// StatusMark renders a boolean as a status word.
func StatusMark(ok bool, on, off string) string {
	if ok {
		return on
	}
	return off
}
