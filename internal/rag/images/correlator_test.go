package images

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

func indexMatch(t *testing.T, records []commonModels.ImageRecord) commonModels.Match {
	t.Helper()
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatal(err)
	}
	return commonModels.Match{
		Id:    "images-index",
		Score: 0.5,
		Metadata: commonModels.ChunkMetadata{
			Type:   commonModels.ChunkTypeImagesIndex,
			Images: string(data),
		},
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		question string
		want     []string
	}{
		{"show me the chart on revenue", []string{"show", "chart", "revenue"}},
		{"What is IN the document?", []string{"what", "document"}},
		{"a an of to", nil},
		{"", nil},
	}

	for _, tt := range tests {
		if got := Keywords(tt.question); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Keywords(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestWantsVisuals(t *testing.T) {
	if !WantsVisuals("Show me the chart on page 3") {
		t.Error("explicit chart request not detected")
	}
	if !WantsVisuals("is there a TABLE of results?") {
		t.Error("table request not detected")
	}
	if WantsVisuals("what are the conclusions") {
		t.Error("plain question misdetected as a visuals request")
	}
}

func TestCorrelate_RevenueScenario(t *testing.T) {
	// Four images on pages {2,5,8,9}; text retrieval selected {5,9};
	// only the page-5 OCR text mentions revenue.
	records := []commonModels.ImageRecord{
		{Page: 2, OCRText: "introduction figure", Type: "image"},
		{Page: 5, OCRText: "quarterly revenue by region", Type: "table"},
		{Page: 8, OCRText: "revenue projections", Type: "image"},
		{Page: 9, OCRText: "org structure", Type: "image"},
	}
	raw := []commonModels.Match{
		{Id: "a", Score: 0.8, Metadata: commonModels.ChunkMetadata{Type: commonModels.ChunkTypeText, PageNumber: 5}},
		indexMatch(t, records),
	}

	got := Correlate(raw, []int{5, 9}, "show me the chart on revenue")

	if len(got) != 1 {
		t.Fatalf("expected exactly one image, got %d: %+v", len(got), got)
	}
	if got[0].Page != 5 {
		t.Errorf("expected the page-5 table first, got page %d", got[0].Page)
	}
}

func TestCorrelate_NoIndexIsNotAnError(t *testing.T) {
	raw := []commonModels.Match{
		{Id: "a", Metadata: commonModels.ChunkMetadata{Type: commonModels.ChunkTypeText, PageNumber: 1}},
	}
	if got := Correlate(raw, []int{1}, "anything"); got != nil {
		t.Errorf("expected nil without an images-index record, got %+v", got)
	}
}

func TestParse_MalformedDegradesToEmpty(t *testing.T) {
	m := commonModels.Match{
		Metadata: commonModels.ChunkMetadata{
			Type:   commonModels.ChunkTypeImagesIndex,
			Images: `{"this is": "not an array`,
		},
	}
	if got := Parse(m); got != nil {
		t.Errorf("malformed payload must parse to nil, got %+v", got)
	}
}

func TestRank_NoKeywordsPageGateOnly(t *testing.T) {
	candidates := []commonModels.ImageRecord{
		{Page: 1, OCRText: "alpha"},
		{Page: 2, OCRText: "beta"},
		{Page: 3, OCRText: "gamma"},
	}

	got := Rank(candidates, []int{1, 3}, nil)
	if len(got) != 2 || got[0].Page != 1 || got[1].Page != 3 {
		t.Errorf("page gating alone should keep pages 1 and 3 in order, got %+v", got)
	}
}

func TestRank_StableOrderOnEqualCounts(t *testing.T) {
	candidates := []commonModels.ImageRecord{
		{Page: 1, OCRText: "budget summary"},
		{Page: 2, OCRText: "budget details"},
		{Page: 3, OCRText: "budget budget overview"},
	}

	got := Rank(candidates, nil, []string{"budget"})
	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}
	if got[0].Page != 3 {
		t.Errorf("highest occurrence count should rank first, got page %d", got[0].Page)
	}
	// Pages 1 and 2 tie on count and must keep input order.
	if got[1].Page != 1 || got[2].Page != 2 {
		t.Errorf("tied candidates reordered: %+v", got)
	}
}
