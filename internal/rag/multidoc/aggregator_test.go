package multidoc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB"
)

type mockQuerier struct {
	queryFunc func(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error)
}

func (m *mockQuerier) Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
	return m.queryFunc(ctx, namespace, vector, topK)
}

func match(text string, page int, score float32) commonModels.Match {
	return commonModels.Match{
		Score: score,
		Metadata: commonModels.ChunkMetadata{
			Text:       text,
			PageNumber: page,
			Type:       commonModels.ChunkTypeText,
		},
	}
}

func TestCleanFileLabel(t *testing.T) {
	tests := []struct {
		name    string
		fileKey string
		want    string
	}{
		{"Timestamp_And_Extension_Stripped", "1724832000-annual_report.pdf", "annual report"},
		{"Path_Prefix_Stripped", "uploads/1724832000-q3-results.pdf", "q3 results"},
		{"Plain_Name", "handbook.pdf", "handbook"},
		{"Nothing_Left_Falls_Back", "1724832000-.pdf", "Document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileLabel(tt.fileKey); got != tt.want {
				t.Errorf("CleanFileLabel(%q) = %q, want %q", tt.fileKey, got, tt.want)
			}
		})
	}
}

func TestMentionedDocuments(t *testing.T) {
	docs := []commonModels.Document{
		{Key: "1724832000-annual_report.pdf"},
		{Key: "1724832001-handbook.pdf"},
	}

	mentioned := MentionedDocuments("what does the annual report say about revenue", docs)
	if len(mentioned) != 1 || mentioned[0].Key != docs[0].Key {
		t.Fatalf("expected only the annual report to be mentioned, got %v", mentioned)
	}

	// a bare fragment of a file name counts as calling the document out
	mentioned = MentionedDocuments("annual", docs)
	if len(mentioned) != 1 || mentioned[0].Key != docs[0].Key {
		t.Fatalf("expected fragment to match the annual report, got %v", mentioned)
	}

	if got := MentionedDocuments("what is the total headcount", docs); got != nil {
		t.Fatalf("expected no mentions, got %v", got)
	}
}

func TestAggregate_MergesInInputOrder(t *testing.T) {
	docs := []commonModels.Document{
		{Key: "1-alpha.pdf"},
		{Key: "2-beta.pdf"},
	}
	byNamespace := map[string][]commonModels.Match{
		vectorDB.ToNamespace("1-alpha.pdf"): {match("alpha facts", 3, 0.9)},
		vectorDB.ToNamespace("2-beta.pdf"):  {match("beta facts", 1, 0.8)},
	}
	querier := &mockQuerier{
		queryFunc: func(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
			return byNamespace[namespace], nil
		},
	}

	assembled, err := Aggregate(context.Background(), querier, "summarize everything", []float32{0.1}, docs)
	if err != nil {
		t.Fatal(err)
	}

	alphaAt := strings.Index(assembled.Text, "=== DOCUMENT: alpha ===")
	betaAt := strings.Index(assembled.Text, "=== DOCUMENT: beta ===")
	if alphaAt == -1 || betaAt == -1 {
		t.Fatalf("missing document separators in %q", assembled.Text)
	}
	if alphaAt > betaAt {
		t.Error("sections not in input order")
	}
	if len(assembled.Pages) != 2 || assembled.Pages[0] != 1 || assembled.Pages[1] != 3 {
		t.Errorf("merged pages = %v, want [1 3]", assembled.Pages)
	}
	if len(assembled.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(assembled.Sources))
	}
}

func TestAggregate_FailedNamespaceSkipped(t *testing.T) {
	docs := []commonModels.Document{
		{Key: "1-alpha.pdf"},
		{Key: "2-beta.pdf"},
	}
	querier := &mockQuerier{
		queryFunc: func(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
			if namespace == vectorDB.ToNamespace("1-alpha.pdf") {
				return nil, errors.New("collection gone")
			}
			return []commonModels.Match{match("beta facts", 7, 0.5)}, nil
		},
	}

	assembled, err := Aggregate(context.Background(), querier, "summarize everything", []float32{0.1}, docs)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(assembled.Text, "alpha") {
		t.Error("failed namespace leaked into the context")
	}
	if !strings.Contains(assembled.Text, "beta facts") {
		t.Error("healthy namespace missing from the context")
	}
}

func TestAggregate_MentionedDocumentOnly(t *testing.T) {
	docs := []commonModels.Document{
		{Key: "1-alpha.pdf"},
		{Key: "2-beta.pdf"},
	}
	var queried []string
	querier := &mockQuerier{
		queryFunc: func(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error) {
			queried = append(queried, namespace)
			return []commonModels.Match{match("some facts", 1, 0.9)}, nil
		},
	}

	_, err := Aggregate(context.Background(), querier, "what does beta say", []float32{0.1}, docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(queried) != 1 || queried[0] != vectorDB.ToNamespace("2-beta.pdf") {
		t.Errorf("expected only beta to be queried, got %v", queried)
	}
}
