package ingest

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

// Layout-based table detection. No OCR pass runs during ingestion, so tables
// are spotted from the extracted text itself: rows tend to come out as lines
// with pipe, tab or wide-gap column separators.

var multiSpaceColumns = regexp.MustCompile(`\S+( {2,}\S+){2,}`)

const minTableLines = 3
const tableLineRatio = 0.3

func looksLikeTableRow(line string) bool {
	if strings.Count(line, "|") >= 2 || strings.Contains(line, "\t") {
		return true
	}
	return multiSpaceColumns.MatchString(line)
}

// detectTables scans each page for a block of table-shaped lines. A page
// qualifies when at least minTableLines of its lines look tabular and those
// make up tableLineRatio of the page.
func detectTables(pages []rawPage) []commonModels.ImageRecord {
	var records []commonModels.ImageRecord

	for _, page := range pages {
		lines := strings.Split(page.Content, "\n")
		var tableLines []string
		var nonEmpty int

		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			nonEmpty++
			if looksLikeTableRow(trimmed) {
				tableLines = append(tableLines, trimmed)
			}
		}

		if nonEmpty == 0 || len(tableLines) < minTableLines {
			continue
		}
		if float64(len(tableLines))/float64(nonEmpty) < tableLineRatio {
			continue
		}

		records = append(records, commonModels.ImageRecord{
			Page:    page.Number,
			Type:    "table",
			OCRText: strings.Join(tableLines, "\n"),
		})
	}
	return records
}

// buildImagesIndexChunk serializes the detected visual artifacts into the
// single per-document index chunk. Its text is a fixed phrase so the
// trigger-path query embeds close to it.
func buildImagesIndexChunk(pages []rawPage, doc commonModels.Document) (commonModels.DocChunk, bool) {
	records := detectTables(pages)
	if len(records) == 0 {
		return commonModels.DocChunk{}, false
	}

	serialized, err := json.Marshal(records)
	if err != nil {
		logger.Error("Error serializing images index", "error", err)
		return commonModels.DocChunk{}, false
	}

	text := "Images, tables and charts found in " + doc.Name
	return commonModels.DocChunk{
		Doc:     doc,
		ChunkId: chunkID(doc.Key, 0, 0, string(commonModels.ChunkTypeImagesIndex)),
		Chunk:   text,
		PageNum: 0,
		Type:    commonModels.ChunkTypeImagesIndex,
		Images:  string(serialized),
	}, true
}
