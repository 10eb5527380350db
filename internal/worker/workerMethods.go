package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	jobmodel "github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, 90*time.Second)
	defer cancel()
	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job.CurrentStep = jobmodel.IngestProcessing
		job = ingestDocument(job, ctx, logger)

	case jobmodel.JobTypeVoiceSearch:
		job = processVoiceSearch(job, ctx, logger)

	default:
		job.CurrentStep = jobmodel.RedisCall
		job = processQuery(job, ctx, logger)
		// The turn only lands in the history once there is an answer to pair
		// with the question.
		if job.Status != jobmodel.JobStatusError {
			if err := _jobService.MessageStore.TrySaveChat(ctx, job.ChatId, job.JobPayload); err != nil {
				logger.Error("Failed to save chat history", "err", err)
			}
		}
	}

	job.EndTime = time.Now()
	saveJobState(ctx, job, jobmodel.JobStatusComplete)
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func ingestDocument(job jobmodel.Job, ctx context.Context, logger *logger_i.Logger) jobmodel.Job {
	return _ragService.IngestDocument(ctx, job)
}

func processQuery(job jobmodel.Job, ctx context.Context, logger *logger_i.Logger) jobmodel.Job {
	err, messageHistory := _jobService.MessageStore.GetMessageHistory(ctx, job.ChatId)
	if err != nil {
		logger.Error("Failed to get message history", "err", err)
	}
	job = _ragService.ProcessRequest(ctx, job, messageHistory)
	return job
}

func processVoiceSearch(job jobmodel.Job, ctx context.Context, logger *logger_i.Logger) jobmodel.Job {
	docs, err := userDocuments(ctx, job.JobPayload.UserId)
	if err != nil {
		logger.Error("Failed to list user documents", "err", err)
	}
	return _ragService.ProcessVoiceSearch(ctx, job, docs)
}

// userDocuments flattens the user's chats into the distinct set of documents
// they cover, keeping first-seen order.
func userDocuments(ctx context.Context, userId string) ([]commonModels.Document, error) {
	chats, err := _jobService.ChatStore.ListUserChats(ctx, userId)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var docs []commonModels.Document
	for _, chat := range chats {
		if seen[chat.FileKey] {
			continue
		}
		seen[chat.FileKey] = true
		docs = append(docs, commonModels.Document{
			Key:  chat.FileKey,
			Name: chat.PdfName,
		})
	}
	return docs, nil
}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	// a job that errored stays errored, the final save must not mask it
	if job.Status != jobmodel.JobStatusError {
		job.Status = jobStatus
	}
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
