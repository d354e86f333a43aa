package blogservice

import "regexp"

var (
	scriptTagPattern  = regexp.MustCompile(`(?is)<\s*script[^>]*>.*?<\s*/\s*script\s*>`)
	scriptLinkPattern = regexp.MustCompile(`(?i)\]\(\s*javascript:[^)]*\)`)
)

// sanitizeMarkdown strips script blocks and javascript: link targets before
// content is sent to the backend. Rendering sanitizes again.
func sanitizeMarkdown(markdown string) string {
	markdown = scriptTagPattern.ReplaceAllString(markdown, "")
	return scriptLinkPattern.ReplaceAllString(markdown, "](#)")
}
