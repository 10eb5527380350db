package contextbuilder

import (
	"strings"
	"testing"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

func match(text string, page int) commonModels.Match {
	return commonModels.Match{
		Metadata: commonModels.ChunkMetadata{
			Text:       text,
			PageNumber: page,
			Type:       commonModels.ChunkTypeText,
		},
	}
}

func TestAssemble_MarkersAndOrder(t *testing.T) {
	matches := []commonModels.Match{
		match("chapter two starts here", 4),
		match("more of chapter two", 5),
		match("appendix reference", 9),
	}

	got := Assemble(matches, config.ContextBudget)

	segments := strings.Split(got, "\n\n")
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %q", len(segments), got)
	}

	wantPrefixes := []string{"[PAGE 4] ", "[PAGE 5] ", "[PAGE 9] "}
	for i, seg := range segments {
		if !strings.HasPrefix(seg, wantPrefixes[i]) {
			t.Errorf("segment %d = %q, want prefix %q", i, seg, wantPrefixes[i])
		}
	}
}

func TestAssemble_BudgetNeverExceeded(t *testing.T) {
	long := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	matches := []commonModels.Match{
		match(long, 1),
		match(long, 2),
		match(long, 3),
	}

	for _, budget := range []int{50, 500, 5000} {
		got := Assemble(matches, budget)
		if len(got) > budget {
			t.Errorf("budget %d exceeded: len=%d", budget, len(got))
		}
	}
}

func TestTruncate_NoDanglingMarker(t *testing.T) {
	text := "[PAGE 1] some content here\n\n[PAGE 12] trailing"

	// Cut inside the second marker itself.
	cut := Truncate(text, len("[PAGE 1] some content here\n\n[PAGE 1"))
	if strings.Contains(cut, "[PAGE 1]") == false {
		t.Errorf("first segment should survive, got %q", cut)
	}
	if strings.HasSuffix(strings.TrimSpace(cut), "[PAGE 1") {
		t.Errorf("split marker left dangling at the end: %q", cut)
	}

	// Cut right after the second marker, before its content.
	cut = Truncate(text, len("[PAGE 1] some content here\n\n[PAGE 12] "))
	if strings.HasSuffix(strings.TrimSpace(cut), "[PAGE 12]") {
		t.Errorf("content-less marker left dangling at the end: %q", cut)
	}
}

func TestTruncate_UnderBudgetUntouched(t *testing.T) {
	text := "[PAGE 3] short"
	if got := Truncate(text, 1000); got != text {
		t.Errorf("got %q, want unchanged %q", got, text)
	}
}

func TestIsDegenerate(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   \n\t  ", true},
		{"too short", true},
		{strings.Repeat("x", config.MinContextLength), false},
		{"[PAGE 1] a perfectly reasonable amount of context text", false},
	}

	for _, tt := range tests {
		if got := IsDegenerate(tt.text); got != tt.want {
			t.Errorf("IsDegenerate(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
