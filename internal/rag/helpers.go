package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/internal/rag/contextbuilder"
	"github.com/akolanti/pdfchat/internal/rag/images"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans string) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]float32, error) {
	*job = logOutput(*job, jobModel.EmbeddingAPICall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, job.JobPayload.Question)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, namespace string, emb []float32) ([]commonModels.Match, error) {
	*job = logOutput(*job, jobModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Query(ctx, namespace, emb, config.TopK)
}

func (s *service) executeAssemblyStep(log *logger_i.Logger, job *jobModel.Job, filtered retrieval.Result) string {
	*job = logOutput(*job, jobModel.ContextAssembly, log)

	assembled := contextbuilder.Assemble(filtered.Qualifying, config.ContextBudget)
	metrics.CaptureContextSize("chat", len(assembled))

	job.JobPayload.Sources = sourcesFromMatches(job.JobPayload.DocumentKey, filtered.Qualifying)
	return assembled
}

// correlateImages runs the page-gated keyword ranking against whatever
// images-index record the search brought back. When that yields nothing and
// the question explicitly asks for visuals, the index record is fetched
// directly and ranked without the page gate.
func (s *service) correlateImages(ctx context.Context, log *logger_i.Logger, namespace string, question string, rawMatches []commonModels.Match, pages []int) []commonModels.ImageRecord {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("image_correlation", time.Since(start)) }()

	correlated := images.Correlate(rawMatches, pages, question)
	if len(correlated) > 0 || !images.WantsVisuals(question) {
		return correlated
	}

	// Trigger path: the user asked for visuals, drop the page gate first.
	if indexMatch, found := images.FindIndexMatch(rawMatches); found {
		if ranked := images.Rank(images.Parse(indexMatch), nil, images.Keywords(question)); len(ranked) > 0 {
			return ranked
		}
	}

	vector, err := s.embedder.GetEmbedding(ctx, config.ImagesIndexQuery)
	if err != nil {
		log.Error("Trigger-path embedding failed, attaching no images", "error", err.Error())
		return nil
	}
	indexMatch, found, err := s.vectorDB.QueryImagesIndex(ctx, namespace, vector)
	if err != nil {
		log.Error("images-index fetch failed, attaching no images", "error", err.Error())
		return nil
	}
	if !found {
		return nil
	}
	return images.Rank(images.Parse(indexMatch), nil, images.Keywords(question))
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, assembledContext string, history []string) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, job.JobPayload.Question, assembledContext, history)
}

func sourcesFromMatches(fileKey string, matches []commonModels.Match) []commonModels.Source {
	var sources []commonModels.Source
	for _, m := range matches {
		text := m.Metadata.Text
		if len(text) > 200 {
			text = text[:200]
		}
		sources = append(sources, commonModels.Source{
			FileKey:    fileKey,
			PageNumber: m.Metadata.PageNumber,
			Text:       text,
		})
	}
	return sources
}
