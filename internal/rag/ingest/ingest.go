package ingest

import (
	"context"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB"
	"github.com/akolanti/pdfchat/internal/storage"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

// ProcessDocumentIngestion extracts, chunks, embeds and upserts one stored
// document into its own namespace. Chunk ids are content hashes, so running
// this twice for the same document overwrites instead of duplicating.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor, fileStore storage.FileStore) jobModel.Job {
	logger = logger_i.NewLogger("Document Ingestion ")
	logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string))

	docName := job.JobPayload.IngestFileName
	fileKey := job.JobPayload.IngestFileKey
	namespace := vectorDB.ToNamespace(fileKey)

	logger.Debug("Processing document", "filename", docName, "fileKey", fileKey)

	job.CurrentStep = jobModel.IngestProcessing
	err := vectorDatabase.CreateNamespace(ctx, namespace)
	if err != nil {
		logger.Error("Error creating namespace", "error", err)
		job.Status = jobModel.JobStatusError
		return job
	}

	docPath, err := fileStore.LocalPath(ctx, fileKey)
	if err != nil {
		logger.Error("Error locating stored document", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Stored document not found"
		return job
	}

	docType := getDocType(docPath)
	logger.Debug("Processing document", "type", docType)
	if docType == commonModels.ERR {
		logger.Error("Unsupported document type", "path", docPath)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Unsupported document type"
		return job
	}

	doc := commonModels.Document{
		Key:                 fileKey,
		Name:                docName,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	rawPages, err := extractText(docPath, doc.ContentType)
	if err != nil {
		logger.Error("Error processing document", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error extracting document content"
		return job
	}

	logger.Debug("Processing document", "Number of raw pages: ", len(rawPages))
	chunks := PrepareChunks(rawPages, doc)

	if imagesChunk, ok := buildImagesIndexChunk(rawPages, doc); ok {
		chunks = append(chunks, imagesChunk)
	}

	logger.Debug("Processing document", "Number of chunks: ", len(chunks))
	err = BatchIngest(ctx, namespace, chunks, vectorDatabase, e)

	if err != nil {
		job.Status = jobModel.JobStatusError
		logger.Error("Error processing document", "error", err)
		return job
	}

	//the original stays in the file store, the document endpoint serves it back
	job.Status = jobModel.JobStatusComplete
	return job
}
