package openaiEmbedding

import (
	"context"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/customHttpClient"
	"github.com/akolanti/pdfchat/internal/rag/embedding"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	openAi *openai.Client
	model  string
}

func newOpenAIEmbedder(ctx context.Context, modelName string, apikey string) {
	c := openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.New()))
	embeddingClient = &client{
		openAi: &c,
		model:  modelName,
	}
	logger.Debug("OpenAI Embedding model name: " + modelName)
	logger.Info("OpenAI Embedding client created")
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing OpenAI Embedding client")
	embeddingClient.openAi = nil
	embeddingClient.model = ""
}

func GetOpenAIEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{openAi: embeddingClient.openAi, model: embeddingClient.model}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// BatchEmbedding sends all chunks in a single request. The OpenAI embeddings
// endpoint takes an input array directly, so the large-dataset flag only
// changes the request size, not the call path.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isLargeDataSet bool) ([][]float32, error) {
	return c.embed(ctx, chunks)
}

func (c *client) embed(ctx context.Context, inputs []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	res, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err.Error())
		return nil, err
	}

	results := make([][]float32, 0, len(res.Data))
	for _, d := range res.Data {
		vector := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vector[i] = float32(v)
		}
		results = append(results, vector)
	}
	return results, nil
}
