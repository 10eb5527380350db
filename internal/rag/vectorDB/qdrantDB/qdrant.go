package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj: qdrantInstance,
	}
}

func newClient() *qdrant.Client {

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))

	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

// Query runs a similarity search against one document namespace and maps
// the hits into typed matches. A missing payload field comes back as its
// zero value - scores and ranking are whatever the index returned.
func (db *ClientHolder) Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "namespace", namespace)
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: namespace,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(topK),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]commonModels.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, toMatch(hit))
	}

	loggr.Debug("Query finished", "matches", len(matches))
	return matches, nil
}

func toMatch(hit *qdrant.ScoredPoint) commonModels.Match {
	return commonModels.Match{
		Id:    hit.Id.GetUuid(),
		Score: hit.Score,
		Metadata: commonModels.ChunkMetadata{
			Text:       hit.Payload["text"].GetStringValue(),
			PageNumber: int(hit.Payload["page_number"].GetIntegerValue()),
			Type:       commonModels.ChunkType(hit.Payload["type"].GetStringValue()),
			Images:     hit.Payload["images"].GetStringValue(),
			FileKey:    hit.Payload["file_key"].GetStringValue(),
		},
	}
}

func (db *ClientHolder) CreateNamespace(ctx context.Context, namespace string) error {
	return createCollection(ctx, db.QObj, namespace)
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		qdrantPoints[i] = &qdrant.PointStruct{
			// Content-hash ids make re-ingesting identical text an
			// overwrite, not a duplicate.
			Id: qdrant.NewID(chunk.ChunkId),

			Vectors: qdrant.NewVectors(vectors[i]...),

			Payload: qdrant.NewValueMap(map[string]any{
				"text":        chunk.Chunk,
				"page_number": chunk.PageNum,
				"type":        string(chunk.Type),
				"images":      chunk.Images,
				"file_key":    chunk.Doc.Key,
				"doc_name":    chunk.Doc.Name,
				"chunk_order": chunk.ChunkPageOrder,
				"ingested_at": chunk.Doc.LastIngestTimestamp.Unix(),
			}),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: namespace,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

// DeleteNamespace drops the whole collection backing a document. Chunks
// and the images-index go with it (cascading delete on document removal).
func (db *ClientHolder) DeleteNamespace(ctx context.Context, namespace string) error {
	if namespace == "" {
		return errors.New("empty namespace")
	}
	err := db.QObj.DeleteCollection(ctx, namespace)
	if err != nil {
		logger.Error("could not delete namespace", "namespace", namespace, "error", err)
	}
	return err
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {

		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
