package jobModel

import (
	"context"
	"time"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit    InternalStatus = "Init"
	RAGCall          InternalStatus = "RAG"
	LLMCall          InternalStatus = "LLM"
	VectorDBCall     InternalStatus = "VectorDB"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	ContextAssembly  InternalStatus = "ContextAssembly"
	RedisCall        InternalStatus = "Redis"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery       JobType = "Query"
	JobTypeVoiceSearch JobType = "VoiceSearch"
	JobTypeIngest      JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	Question    string `json:"question,omitempty"`
	Answer      string `json:"answer,omitempty"`
	DocumentKey string `json:"document_key,omitempty"`
	UserId      string `json:"user_id,omitempty"`

	Pages   []int                      `json:"pages,omitempty"`
	Images  []commonModels.ImageRecord `json:"images,omitempty"`
	Sources []commonModels.Source      `json:"sources,omitempty"`

	IngestFileName string `json:"ingest_file_name,omitempty"`
	IngestFileKey  string `json:"ingest_file_key,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	TrySaveChat(ctx context.Context, id string, JobPayload JobPayload) error
	InitNewChat(ctx context.Context, id string) error
	GetMessageHistory(ctx context.Context, chatId string) (error, []string)
}

// ChatStore registers which document a chat runs over and which user owns
// it. The multi-document aggregator enumerates namespaces through it.
type ChatStore interface {
	RegisterChat(ctx context.Context, chat commonModels.ChatRecord) error
	GetChat(ctx context.Context, chatId string) (commonModels.ChatRecord, bool)
	ListUserChats(ctx context.Context, userId string) ([]commonModels.ChatRecord, error)
	DeleteChatsForDocument(ctx context.Context, fileKey string) error
}
