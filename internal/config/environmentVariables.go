package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//auth - bearer token checked by the middleware
	NoAuthBypass = true //local dev only, set false and provide a token for prod
	AuthToken    = ""

	//retrieval
	TopK                                uint64  = 15   //matches pulled per namespace query
	RelevanceFloor                      float32 = 0.25 //matches at or below this score only survive via the fallback
	EmbeddingOutputDimensionality       int32   = 1536

	//context assembly
	ContextBudget         = 8000  //chars, single document chat
	MultiDocContextBudget = 40000 //chars, voice search across all documents (~10k tokens)
	MinContextLength      = 30    //below this the context counts as empty
	DefaultDocumentLabel  = "Document"

	//the canned reply used instead of an LLM call when the context is degenerate
	NoInformationAnswer = "I'm sorry, but I can't find enough information in the document to answer your question. Try rephrasing it, or check that the document actually covers what you're looking for."

	//ingestion
	ChunkSizeLimit   = 1000  //chars per chunk fed to the splitter
	ChunkOverlap     = 150   //generous overlap helps semantic continuity
	ChunkTextByteCap = 36000 //per-chunk byte cap applied at ingestion
	IngestBatchSize  = 100

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1 //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout  = 30 * time.Second

	//llm + embeddings - provider is switchable, some deploys run on OpenAI
	UseOpenAI            = false
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIChatModel      = "gpt-3.5-turbo"
	OpenAIEmbeddingModel = "text-embedding-ada-002"

	ModelTemperature float32 = 0.7
	ModelContext             = "You are an assistant that analyzes PDF documents. Answer strictly from the provided context and keep the tone professional. " +
		"The context is split into sections marked [PAGE N] where N is the page of the document the section comes from. " +
		"End your answer with a line in the exact format [PAGES: n1, n2, ...] listing every page you actually used. " +
		"If you don't know the answer, say you don't know and cite no pages."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//object storage - local directory the uploaded documents live in
	DocumentStoreDir = "document_data"

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1
	RedisChatStore    = 2

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour
)

// Stopwords dropped from the query before keyword matching against OCR text.
// Prepositions, articles and conjunctions only - content words stay.
var Stopwords = []string{
	"the", "a", "an", "and", "or", "but", "if", "of", "at", "by", "for",
	"with", "about", "into", "onto", "over", "under", "to", "from", "in",
	"on", "as", "is", "are", "was", "were", "be", "been", "this", "that",
	"these", "those", "than", "then", "also", "just", "all", "any", "some",
}

// TriggerPhrases mark an explicit request for visual artifacts. When the
// page-gated correlation comes back empty, any of these forces a dedicated
// images-index fetch.
var TriggerPhrases = []string{
	"image", "images", "picture", "photo", "figure", "figures",
	"chart", "graph", "diagram", "table", "tables", "show me", "visualize",
}

// ImagesIndexQuery is embedded when the trigger path fetches the images-index record.
const ImagesIndexQuery = "images tables charts"

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}
