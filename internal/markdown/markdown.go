// Package markdown renders article content to sanitized HTML.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// sanitizer strips dangerous elements (scripts, event handlers) while
// keeping the tags goldmark produces for regular article content.
var sanitizer = bluemonday.UGCPolicy()

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts Markdown source into sanitized HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// ReadingTime estimates reading time in minutes at 200 words per minute,
// rounding up.
func ReadingTime(source string) int {
	words := len(strings.Fields(source))
	return (words + 199) / 200
}
