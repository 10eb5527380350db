// Package images cross-references the per-document images-index record
// against the pages surfaced by text retrieval and the keywords of the
// question, deciding which visual artifacts to attach to an answer.
//
// There is one correlation algorithm: keyword-ranked, page-gated. The
// explicit trigger phrases ("show me the chart", ...) only force a
// dedicated images-index fetch when the gated path had nothing to work
// with; they never bypass the ranking itself.
package images

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var logger = logger_i.NewLogger("ImageCorrelator")

var wordSplit = regexp.MustCompile(`\W+`)

// Keywords lowercases the question, splits it on non-word characters and
// drops short tokens and stopwords. An empty result skips keyword
// filtering entirely.
func Keywords(question string) []string {
	var keywords []string
	for _, w := range wordSplit.Split(strings.ToLower(question), -1) {
		if len(w) <= 2 {
			continue
		}
		if isStopword(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

func isStopword(w string) bool {
	for _, s := range config.Stopwords {
		if w == s {
			return true
		}
	}
	return false
}

// WantsVisuals reports whether the question explicitly asks for an image,
// figure, chart or table.
func WantsVisuals(question string) bool {
	q := strings.ToLower(question)
	for _, phrase := range config.TriggerPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

// FindIndexMatch locates the single images-index record in a raw match
// list. Its absence is normal, not an error.
func FindIndexMatch(raw []commonModels.Match) (commonModels.Match, bool) {
	for _, m := range raw {
		if m.Metadata.Type == commonModels.ChunkTypeImagesIndex {
			return m, true
		}
	}
	return commonModels.Match{}, false
}

// Parse decodes the serialized image list off an images-index match.
// Malformed data degrades to an empty list - it is logged, never allowed
// to fail the text-answer path.
func Parse(indexMatch commonModels.Match) []commonModels.ImageRecord {
	if indexMatch.Metadata.Images == "" {
		return nil
	}
	var records []commonModels.ImageRecord
	if err := json.Unmarshal([]byte(indexMatch.Metadata.Images), &records); err != nil {
		logger.Error("Unparsable images-index payload, attaching no images", "error", err)
		return nil
	}
	return records
}

// Correlate picks the images to attach: page-gate against the pages text
// retrieval already selected, then keyword-filter and rank by total
// keyword occurrences in the OCR text, descending. Equal counts keep
// their original relative order.
func Correlate(raw []commonModels.Match, pages []int, question string) []commonModels.ImageRecord {
	indexMatch, found := FindIndexMatch(raw)
	if !found {
		return nil
	}
	return Rank(Parse(indexMatch), pages, Keywords(question))
}

// Rank applies the page gate and keyword ranking to an already-parsed
// candidate list. The trigger path reuses it with a nil page gate.
func Rank(candidates []commonModels.ImageRecord, pages []int, keywords []string) []commonModels.ImageRecord {
	var gated []commonModels.ImageRecord
	for _, img := range candidates {
		if pages == nil || containsPage(pages, img.Page) {
			gated = append(gated, img)
		}
	}

	if len(keywords) == 0 {
		return gated
	}

	var filtered []commonModels.ImageRecord
	for _, img := range gated {
		if occurrences(img.OCRText, keywords) > 0 {
			filtered = append(filtered, img)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return occurrences(filtered[i].OCRText, keywords) > occurrences(filtered[j].OCRText, keywords)
	})
	return filtered
}

func occurrences(ocrText string, keywords []string) int {
	text := strings.ToLower(ocrText)
	count := 0
	for _, kw := range keywords {
		count += strings.Count(text, kw)
	}
	return count
}

func containsPage(pages []int, page int) bool {
	for _, p := range pages {
		if p == page {
			return true
		}
	}
	return false
}
