// Package htmlsanitize cleans free text typed into schedule cells (materi,
// agenda) before it is stored or sent to the backend. Spreadsheet cells
// copied out of web pages and rich-text editors often carry markup; the
// backend expects plain text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func strict() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText strips every tag, decodes entities and collapses runs of
// whitespace to single spaces.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(strict().Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}
