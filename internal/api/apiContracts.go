package api

import (
	"time"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id" example:"chat_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string                     `json:"question"`
	Answer   string                     `json:"answer"`
	Pages    []int                      `json:"pages,omitempty"`
	Images   []commonModels.ImageRecord `json:"images,omitempty"`
	Sources  []commonModels.Source      `json:"sources,omitempty"`
}

type Result struct {
	Status              string       `json:"status"`
	RAGExternalResponse *RAGResponse `json:"rag_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`

	// set for ingest jobs - the key the document is addressed by afterwards
	FileKey string `json:"file_key,omitempty"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	ChatID  string `json:"chatID,omitempty"`
	UserId  string `json:"user_id,omitempty"`

	// required when chatID is empty - a new chat binds to one document
	FileKey string `json:"file_key,omitempty"`
	PdfName string `json:"pdf_name,omitempty"`
}

type VoiceSearchRequest struct {
	Question string `json:"question" validate:"required"`
	UserId   string `json:"user_id" validate:"required"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
