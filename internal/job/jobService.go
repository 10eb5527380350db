package job

import (
	"github.com/akolanti/pdfchat/internal/domain/jobModel"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
	ChatStore         jobModel.ChatStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	MessageStore      jobModel.MessageStore
	ChatStore         jobModel.ChatStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		MessageStore:      cfg.MessageStore,
		ChatStore:         cfg.ChatStore,
	}
}
