package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/internal/rag/answer"
	"github.com/akolanti/pdfchat/internal/rag/contextbuilder"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/ingest"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/internal/rag/multidoc"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB"
	"github.com/akolanti/pdfchat/internal/storage"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - Real work happens down low bruh
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the worker can do).
  - We expose this to keep the worker decoupled from our specific logic.

2. service (Private Struct):
  - down low stuff
  - This is the PRIVATE implementation.
  - It holds the "state" (database connections and LLM clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies (vectorDB, llmProvider) directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real DBs for mocks during testing without
    changing the worker's code.
*/

// Service Worker will only call this service - it doesn't need to know the llm or the vector
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job, messageHistory []string) jobModel.Job
	ProcessVoiceSearch(ctx context.Context, job jobModel.Job, userDocs []commonModels.Document) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
	DeleteDocument(ctx context.Context, fileKey string) error
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	fileStore   storage.FileStore
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, files storage.FileStore) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		fileStore:   files,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job, messageHistory []string) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall
	namespace := vectorDB.ToNamespace(jobt.JobPayload.DocumentKey)

	// Embedding
	questionVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	// Vector DB Search
	rawMatches, err := s.executeVectorSearchStep(processContext, inMethodLogger, &jobt, namespace, questionVector)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	// Context Assembly
	filtered := retrieval.Filter(rawMatches)
	assembledContext := s.executeAssemblyStep(inMethodLogger, &jobt, filtered)

	// No usable context means no LLM call - the canned answer goes out with
	// nothing to cite or attach.
	if contextbuilder.IsDegenerate(assembledContext) {
		inMethodLogger.Debug("ProcessRequest", "degenerate context chars", len(assembledContext))
		jobt.JobPayload.Pages = nil
		jobt.JobPayload.Images = nil
		jobt.JobPayload.Sources = nil
		return returnOutput(jobt, config.NoInformationAnswer)
	}

	// Image Correlation
	jobt.JobPayload.Images = s.correlateImages(processContext, inMethodLogger, namespace, jobt.JobPayload.Question, rawMatches, filtered.Pages)

	// LLM Generation
	completion, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, assembledContext, messageHistory)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	cleanAnswer, pages := answer.ExtractCitations(completion, filtered.Pages)
	jobt.JobPayload.Pages = pages

	return returnOutput(jobt, cleanAnswer)
}

// ProcessVoiceSearch answers a question against every document the user has,
// not just the one bound to a chat.
func (s *service) ProcessVoiceSearch(ctx context.Context, jobt jobModel.Job, userDocs []commonModels.Document) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	jobt.CurrentStep = jobModel.RAGCall

	if len(userDocs) == 0 {
		jobt.JobPayload.Pages = nil
		return returnOutput(jobt, config.NoInformationAnswer)
	}

	questionVector, err := s.executeEmbeddingStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "EMBEDDING_FAILURE", true)
	}

	jobt = logOutput(jobt, jobModel.VectorDBCall, inMethodLogger)
	aggregated, err := multidoc.Aggregate(processContext, s.vectorDB, jobt.JobPayload.Question, questionVector, userDocs)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_DB_FAILURE", true)
	}

	jobt = logOutput(jobt, jobModel.ContextAssembly, inMethodLogger)
	metrics.CaptureContextSize("voice_search", len(aggregated.Text))
	jobt.JobPayload.Sources = aggregated.Sources

	if contextbuilder.IsDegenerate(aggregated.Text) {
		jobt.JobPayload.Pages = nil
		jobt.JobPayload.Sources = nil
		return returnOutput(jobt, config.NoInformationAnswer)
	}

	completion, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, aggregated.Text, nil)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	cleanAnswer, pages := answer.ExtractCitations(completion, aggregated.Pages)
	jobt.JobPayload.Pages = pages

	return returnOutput(jobt, cleanAnswer)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()
	j := ingest.ProcessDocumentIngestion(ctx, job, s.embedder, s.vectorDB, s.fileStore)
	if j.Status != jobModel.JobStatusComplete {
		return s.jobError(j, errors.New("ingest Document Failed"), "INGESTION_FAILURE", true)
	}
	return j
}

// DeleteDocument removes the namespace and the stored original. Chat records
// pointing at the document are the handler's problem, it owns the chat store.
func (s *service) DeleteDocument(ctx context.Context, fileKey string) error {
	if err := s.vectorDB.DeleteNamespace(ctx, vectorDB.ToNamespace(fileKey)); err != nil {
		return err
	}
	return s.fileStore.Delete(ctx, fileKey)
}
