package vectorDB

import (
	"context"
	"strings"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

// DataProcessor is the vector index gateway. A namespace is an isolated
// partition of the index, one per uploaded document.
type DataProcessor interface {
	Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error)
	QueryImagesIndex(ctx context.Context, namespace string, vector []float32) (commonModels.Match, bool, error)

	// Ingestion / deletion path
	CreateNamespace(ctx context.Context, namespace string) error
	UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error
	DeleteNamespace(ctx context.Context, namespace string) error
}

// ToNamespace derives the namespace for a document key. Index backends
// restrict the namespace charset, so non-ASCII runes are stripped.
func ToNamespace(fileKey string) string {
	var b strings.Builder
	for _, r := range fileKey {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
