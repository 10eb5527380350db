// Package answer post-processes LLM completions: the trailing page-citation
// tag is parsed out so the client always gets a clean answer plus a page
// list to jump to.
package answer

import (
	"regexp"
	"strconv"
	"strings"
)

// Prompts ask for [PAGES: ...]; older stored history may carry the
// localized [PAGINE: ...] form, so both are accepted on parse.
var citationTag = regexp.MustCompile(`\s*\[(?:PAGES|PAGINE): ([\d,\s]+)\]`)

// ExtractCitations strips the citation tag from a completion and returns
// the cleaned text with the parsed page numbers. When the model forgot the
// tag, the pages computed at retrieval time are the citation - the user
// should always see some page pointer when the context was non-empty.
func ExtractCitations(completion string, retrievalPages []int) (string, []int) {
	m := citationTag.FindStringSubmatch(completion)
	if m == nil {
		return completion, retrievalPages
	}

	pages := parsePageList(m[1])
	if len(pages) == 0 {
		pages = retrievalPages
	}

	clean := citationTag.ReplaceAllString(completion, "")
	return clean, pages
}

func parsePageList(list string) []int {
	var pages []int
	for _, part := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		pages = append(pages, n)
	}
	return pages
}
