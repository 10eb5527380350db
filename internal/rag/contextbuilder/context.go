// Package contextbuilder turns qualifying matches into the page-tagged
// text blob handed to the LLM. The [PAGE N] markers ground the page
// citations the prompt demands, so they are never optional.
package contextbuilder

import (
	"fmt"
	"strings"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

const segmentSeparator = "\n\n"

// PageTag renders the marker prefixed to every context segment.
func PageTag(page int) string {
	return fmt.Sprintf("[PAGE %d]", page)
}

// Assemble concatenates the matches in their given order, each prefixed with
// its page marker, then truncates the whole blob to the character budget.
// Truncation happens only at the end - aside from the per-chunk byte cap
// applied at ingestion, no chunk is cut mid-assembly.
func Assemble(matches []commonModels.Match, budget int) string {
	segments := make([]string, 0, len(matches))
	for _, m := range matches {
		segments = append(segments, PageTag(m.Metadata.PageNumber)+" "+m.Metadata.Text)
	}
	return Truncate(strings.Join(segments, segmentSeparator), budget)
}

// Truncate cuts text at the budget boundary. The last segment may end up
// partial; a dangling marker with nothing after it is dropped so it cannot
// misattribute whatever follows downstream.
func Truncate(text string, budget int) string {
	if len(text) <= budget {
		return text
	}
	text = text[:budget]
	if i := strings.LastIndex(text, "[PAGE"); i != -1 {
		tail := text[i:]
		j := strings.Index(tail, "]")
		if j == -1 || strings.TrimSpace(tail[j+1:]) == "" {
			text = text[:i]
		}
	}
	return text
}

// IsDegenerate reports whether the assembled text is too short to be worth
// an LLM call. The caller returns the canned no-information answer instead.
func IsDegenerate(text string) bool {
	return len(strings.TrimSpace(text)) < config.MinContextLength
}
