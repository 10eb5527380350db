package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/google/uuid"
)

//splitter

func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	// If text is already small enough, just return it
	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " ", ""}

	var splitChar string
	found := false
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			found = true
			break
		}
	}

	if !found {
		// Hard cut if no separator found (rare)
		return []string{text[:limit]}
	}

	parts := strings.Split(text, splitChar)
	var currentChunk strings.Builder

	for _, part := range parts {
		// If adding the part exceeds the limit
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// Handle overlap: start the next chunk with the end of the previous one
			// (Simple version: take last N chars)
			overlapContent := ""
			if currentChunk.Len() > overlap {
				overlapContent = currentChunk.String()[currentChunk.Len()-overlap:]
			}

			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}

	return chunks
}

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX:
		return extractdocxTxtRtf(path)

	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

// chunkID hashes the chunk position and content into a stable UUID. The
// index keys points by id, so re-ingesting the same document replaces its
// points instead of piling up duplicates.
func chunkID(fileKey string, page int, order int, text string) string {
	seed := fmt.Sprintf("%s|%d|%d|%s", fileKey, page, order, text)
	return uuid.NewMD5(uuid.NameSpaceURL, []byte(seed)).String()
}

func capChunkText(text string) string {
	if len(text) <= config.ChunkTextByteCap {
		return text
	}
	return text[:config.ChunkTextByteCap]
}

func PrepareChunks(pages []rawPage, doc commonModels.Document) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		if strings.TrimSpace(page.Content) == "" {
			continue
		}

		stringChunks := splitTextIntoChunks(page.Content, config.ChunkSizeLimit, config.ChunkOverlap)

		for i, text := range stringChunks {
			text = capChunkText(text)
			allChunks = append(allChunks, commonModels.DocChunk{
				Doc:            doc,
				ChunkId:        chunkID(doc.Key, page.Number, i, text),
				Chunk:          text,
				PageNum:        page.Number,
				ChunkPageOrder: i,
				Type:           commonModels.ChunkTypeText,
			})
		}
	}

	return allChunks
}

func BatchIngest(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectorDB vectorDB.DataProcessor, embedder embedding.Embedder) error {
	logger = logger_i.NewLogger("Batch Ingestion ")
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string))

	batchSize := config.IngestBatchSize
	isHugeDataSet := false

	if len(chunks) > 1000000 { //we only want to do this if there is a huge document
		isHugeDataSet = true
		logger.Debug("Is a huge dataset")
	}

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		currentBatch := chunks[i:end]

		//TODO:each batch can be its own go routine
		//but we will monitor the memory before introducing its own worker routine

		texts := make([]string, 0, len(currentBatch))
		for _, c := range currentBatch {
			texts = append(texts, c.Chunk)
		}

		logger.Debug("Starting embedding call", "current batch length ", len(currentBatch))
		vectors, err := embedder.BatchEmbedding(ctx, texts, isHugeDataSet)
		if err != nil {
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		err = vectorDB.UpsertBatch(ctx, namespace, currentBatch, vectors)
		if err != nil {
			return fmt.Errorf("upserting to qdrant failed: %w", err)
		}
	}

	return nil
}
