package rag_test

import (
	"context"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnQuery            func(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error)
	OnQueryImagesIndex func(ctx context.Context, namespace string, vector []float32) (commonModels.Match, bool, error)
	OnCreateNamespace  func(ctx context.Context, namespace string) error
	OnUpsertBatch      func(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error
	OnDeleteNamespace  func(ctx context.Context, namespace string) error
}

func (m *MockVectorDB) Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, namespace, vector, topK)
	}
	return []commonModels.Match{
		{
			Id:    "m-1",
			Score: 0.9,
			Metadata: commonModels.ChunkMetadata{
				Text:       "default context chunk long enough to not be degenerate",
				PageNumber: 1,
				Type:       commonModels.ChunkTypeText,
			},
		},
	}, nil
}

func (m *MockVectorDB) QueryImagesIndex(ctx context.Context, namespace string, vector []float32) (commonModels.Match, bool, error) {
	if m.OnQueryImagesIndex != nil {
		return m.OnQueryImagesIndex(ctx, namespace, vector)
	}
	return commonModels.Match{}, false, nil
}

func (m *MockVectorDB) CreateNamespace(ctx context.Context, namespace string) error {
	if m.OnCreateNamespace != nil {
		return m.OnCreateNamespace(ctx, namespace)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, namespace, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) DeleteNamespace(ctx context.Context, namespace string) error {
	if m.OnDeleteNamespace != nil {
		return m.OnDeleteNamespace(ctx, namespace)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks, isHuge)
	}
	// Return dummy vectors matching chunk size
	return make([][]float32, len(chunks)), nil
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, query string, assembledContext string, history []string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, q string, assembledContext string, hist []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, q, assembledContext, hist)
	}
	return "mocked llm response", nil
}
