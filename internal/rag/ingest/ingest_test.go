package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

func init() {
	logger = logger_i.NewLogger("ingest_test")
}

// --- Mocks for BatchIngest ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	return m.batchFunc(ctx, chunks, isHuge)
}

type mockVectorDB struct {
	upsertFunc func(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
	return nil, nil
}
func (m *mockVectorDB) QueryImagesIndex(ctx context.Context, namespace string, vector []float32) (commonModels.Match, bool, error) {
	return commonModels.Match{}, false, nil
}
func (m *mockVectorDB) CreateNamespace(ctx context.Context, namespace string) error { return nil }
func (m *mockVectorDB) DeleteNamespace(ctx context.Context, namespace string) error { return nil }
func (m *mockVectorDB) UpsertBatch(ctx context.Context, namespace string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	return m.upsertFunc(ctx, namespace, chunks, vectors)
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.DOCX},
		{"image.png", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestSplitTextIntoChunks(t *testing.T) {
	text := "This is a long sentence. This is another sentence that will be split."
	limit := 30
	overlap := 5

	chunks := splitTextIntoChunks(text, limit, overlap)

	if len(chunks) < 2 {
		t.Errorf("Expected multiple chunks, got %d", len(chunks))
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	a := chunkID("1-report.pdf", 3, 0, "some content")
	b := chunkID("1-report.pdf", 3, 0, "some content")
	if a != b {
		t.Errorf("same input gave different ids: %s vs %s", a, b)
	}

	c := chunkID("1-report.pdf", 3, 1, "some content")
	if a == c {
		t.Error("different chunk order gave the same id")
	}
}

func TestPrepareChunks(t *testing.T) {
	pages := []rawPage{
		{Number: 1, Content: "Page one content."},
		{Number: 2, Content: "Page two content."},
		{Number: 3, Content: "   "},
	}
	doc := commonModels.Document{Key: "1-doc.pdf"}

	chunks := PrepareChunks(pages, doc)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (one per non-empty page), got %d", len(chunks))
	}

	if chunks[0].Doc.Key != "1-doc.pdf" || chunks[0].PageNum != 1 {
		t.Errorf("Metadata mismatch in chunk 0: %+v", chunks[0])
	}
	if chunks[0].Type != commonModels.ChunkTypeText {
		t.Errorf("chunk type = %v", chunks[0].Type)
	}
	if chunks[0].ChunkId == chunks[1].ChunkId {
		t.Error("chunk ids must differ across pages")
	}
}

func TestPrepareChunks_CapsChunkBytes(t *testing.T) {
	// A page with no separators at all gets hard cut by the splitter,
	// the byte cap is the second line of defense.
	huge := strings.Repeat("x", 50000)
	chunks := PrepareChunks([]rawPage{{Number: 1, Content: huge}}, commonModels.Document{Key: "k"})

	for _, c := range chunks {
		if len(c.Chunk) > 36000 {
			t.Fatalf("chunk of %d bytes exceeds the cap", len(c.Chunk))
		}
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: "test content"}
	}

	callCount := 0
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, namespace string, c []commonModels.DocChunk, v [][]float32) error {
			if namespace != "my-namespace" {
				t.Errorf("namespace = %q", namespace)
			}
			callCount++
			return nil
		},
	}

	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(ctx, "my-namespace", chunks, vDB, emb)

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}

	if callCount != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", callCount)
	}
}

func TestBatchIngest_Error(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, namespace string, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}
	emb := &mockEmbedder{
		batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
			return make([][]float32, len(ch)), nil
		},
	}

	err := BatchIngest(context.Background(), "ns", []commonModels.DocChunk{{Chunk: "hi"}}, vDB, emb)
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

func TestDetectTables(t *testing.T) {
	tablePage := rawPage{Number: 4, Content: strings.Join([]string{
		"Quarterly results",
		"Region | Q1 | Q2",
		"North | 100 | 120",
		"South | 90 | 95",
		"West | 80 | 105",
	}, "\n")}
	prosePage := rawPage{Number: 5, Content: "Plain prose about the results, nothing tabular here.\nMore prose."}

	records := detectTables([]rawPage{tablePage, prosePage})

	if len(records) != 1 {
		t.Fatalf("expected 1 table record, got %d", len(records))
	}
	if records[0].Page != 4 || records[0].Type != "table" {
		t.Errorf("unexpected record %+v", records[0])
	}
	if !strings.Contains(records[0].OCRText, "North") {
		t.Error("table rows missing from OCRText")
	}
}

func TestBuildImagesIndexChunk(t *testing.T) {
	pages := []rawPage{
		{Number: 2, Content: "a | b | c\n1 | 2 | 3\n4 | 5 | 6"},
	}
	doc := commonModels.Document{Key: "1-report.pdf", Name: "report.pdf"}

	chunk, ok := buildImagesIndexChunk(pages, doc)
	if !ok {
		t.Fatal("expected an images-index chunk")
	}
	if chunk.Type != commonModels.ChunkTypeImagesIndex {
		t.Errorf("chunk type = %v", chunk.Type)
	}

	var records []commonModels.ImageRecord
	if err := json.Unmarshal([]byte(chunk.Images), &records); err != nil {
		t.Fatalf("images payload is not valid JSON: %v", err)
	}
	if len(records) != 1 || records[0].Page != 2 {
		t.Errorf("unexpected records %+v", records)
	}

	if _, ok := buildImagesIndexChunk([]rawPage{{Number: 1, Content: "prose"}}, doc); ok {
		t.Error("prose-only document should not get an images-index chunk")
	}
}
