// @title           PDF Chat API
// @version         1.0
// @description     Chat with your PDF documents over an asynchronous RAG pipeline
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/data/store"
	jobmodel "github.com/akolanti/pdfchat/internal/domain/jobModel"
	"github.com/akolanti/pdfchat/internal/handlers"
	"github.com/akolanti/pdfchat/internal/job"
	"github.com/akolanti/pdfchat/internal/rag"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/pdfchat/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/internal/rag/llm/gemini"
	"github.com/akolanti/pdfchat/internal/rag/llm/openaiLLM"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/pdfchat/internal/server"
	"github.com/akolanti/pdfchat/internal/storage"
	"github.com/akolanti/pdfchat/internal/worker"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	//nil checks stay on the concrete types, a typed nil in the interface
	//field would slip past them
	jobStore := store.GetRedisJobStore(serviceContext)
	messageStore := store.GetRedisMessageStore(serviceContext)
	chatStore := store.GetRedisChatStore(serviceContext)
	if jobStore == nil || messageStore == nil || chatStore == nil {
		if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
			logger.Error("Redis stores are offline. Shutting down.")
			return
		}
		logger.Error("Redis stores are offline, falling back to in-memory stores")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.MessageStore = store.InitMessageStore()
		serviceConfig.ChatStore = store.InitInMemoryChatStore()
	} else {
		serviceConfig.JobStore = jobStore
		serviceConfig.MessageStore = messageStore
		serviceConfig.ChatStore = chatStore
	}
	service := job.InitJobService(serviceConfig)

	fileStore, err := storage.NewLocalStore(config.DocumentStoreDir)
	if err != nil {
		logger.Error("Document store failed to initialize. Shutting down.", "error", err.Error())
		return
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	if config.UseOpenAI {
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(serviceContext, config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
		llmProvider = openaiLLM.GetOpenAIClient(serviceContext, config.OpenAIChatModel, config.OpenAIAPIKey())
	} else {
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService, fileStore)

	handlers.InitJobHandler(service, ragService, fileStore)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
