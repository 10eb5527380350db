package gemini

import (
	"context"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/customHttpClient"
	"github.com/akolanti/pdfchat/internal/rag/llm"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName, prompt: geminiClient.prompt}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, HTTPClient: customHttpClient.New()})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName, prompt: config.ModelContext}
		logger.Debug("Gemini ", modelName, " client created")
		logger.Info("Gemini client created")
		go closeClient(ctx, geminiClient)
	}

}

func (c *llmClient) Generate(ctx context.Context, userQuery string, assembledContext string, messageHistory []string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: c.prompt},
		},
	}

	userPrompt := llm.BuildUserPrompt(userQuery, assembledContext, messageHistory)

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		log.Error("Error generating answer from Gemini", "error", err.Error())
		return "", err
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
	llm.prompt = ""
}
