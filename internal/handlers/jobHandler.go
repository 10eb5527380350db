package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/pdfchat/internal/api"
	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/job"
	"github.com/akolanti/pdfchat/internal/metrics"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/internal/storage"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
	fileStore  storage.FileStore
}

func InitJobHandler(jobService *job.Service, ragService rag.Service, fileStore storage.FileStore) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, ragService: ragService, fileStore: fileStore}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
	if newJob.isNewChat {
		logJH.Info("Create new chat")
		handlerInstance.initNewChat(newJob)
	}
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateChatRequest(chatReq api.ChatRequest) bool {
	if handlerInstance == nil {
		return false
	}
	logJH.Debug(" Validating chat id ", "chatId :", chatReq.ChatID)
	if chatReq.Message == "" {
		return false
	}
	if chatReq.ChatID == "" {
		// a fresh chat must say which document it runs over
		return chatReq.FileKey != ""
	}
	return handlerInstance.service.MessageStore.ValidateChatId(context.Background(), chatReq.ChatID)
}

// resolveFileKey maps an existing chat back to its document. New chats carry
// the key in the request itself.
func resolveFileKey(chatReq api.ChatRequest) string {
	if chatReq.ChatID == "" || chatReq.FileKey != "" {
		return chatReq.FileKey
	}
	chat, found := handlerInstance.service.ChatStore.GetChat(context.Background(), chatReq.ChatID)
	if !found {
		logJH.Warn("No chat record for chat", "chatId", chatReq.ChatID)
		return ""
	}
	return chat.FileKey
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued

	switch newJob.jobType {
	case jobModel.JobTypeIngest:
		_job.CurrentStep = jobModel.IngestInit
		_job.JobType = jobModel.JobTypeIngest
		_job.JobPayload.IngestFileName = newJob.documentName
		_job.JobPayload.IngestFileKey = newJob.documentKey

	case jobModel.JobTypeVoiceSearch:
		_job.JobType = jobModel.JobTypeVoiceSearch
		_job.JobPayload.Question = newJob.message
		_job.JobPayload.UserId = newJob.userId
		_job.CurrentStep = jobModel.UserQueryInit

	default:
		_job.JobType = jobModel.JobTypeQuery
		_job.ChatId = newJob.chatId
		_job.JobPayload.Question = newJob.message
		_job.JobPayload.DocumentKey = newJob.fileKey
		_job.JobPayload.UserId = newJob.userId
		_job.CurrentStep = jobModel.UserQueryInit
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//we will start a new worker every 10 requests - can also be configured
	// or
	//for performance - a new worker is added  for a document ingestion type job
	//ingestion involves batch processing which might take time - external system call
	//worker will be removed if it has idle time - so it should be ok
	//this also allows us to only keep 1 worker running at most times therefore cutting resource spend

	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1) //after sending a request increment counter
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}

func (h *JobHandler) initNewChat(newJob newJobData) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.traceId)
	err := h.service.MessageStore.InitNewChat(ctxC, newJob.chatId)
	if err != nil {
		logJH.Error("Error initiating new chat", newJob.chatId, err)
		return
	}

	err = h.service.ChatStore.RegisterChat(ctxC, commonModels.ChatRecord{
		Id:        newJob.chatId,
		UserId:    newJob.userId,
		FileKey:   newJob.fileKey,
		PdfName:   newJob.pdfName,
		CreatedAt: time.Now(),
	})
	if err != nil {
		logJH.Error("Error registering chat", newJob.chatId, err)
	}
}
