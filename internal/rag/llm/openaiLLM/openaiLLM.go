package openaiLLM

import (
	"context"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/customHttpClient"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    *openai.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(ctx, modelName, apikey)
	})

	if openaiClient == nil {
		return nil
	}
	return &llmClient{client: openaiClient.client, modelName: openaiClient.modelName, prompt: openaiClient.prompt}
}

func newOpenAIClient(ctx context.Context, modelName string, apikey string) {
	c := openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.New()))
	openaiClient = &llmClient{client: &c, modelName: modelName, prompt: config.ModelContext}
	logger.Debug("OpenAI ", modelName, " client created")
	logger.Info("OpenAI client created")
	go closeClient(ctx, openaiClient)
}

func (c *llmClient) Generate(ctx context.Context, userQuery string, assembledContext string, messageHistory []string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	userPrompt := llm.BuildUserPrompt(userQuery, assembledContext, messageHistory)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("Error generating answer from OpenAI", "error", err.Error())
		return "", err
	}
	if len(completion.Choices) == 0 {
		log.Error("OpenAI returned no choices")
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing OpenAI client")
	llm.client = nil
	llm.modelName = ""
	llm.prompt = ""
}
