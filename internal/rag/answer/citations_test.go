package answer

import (
	"reflect"
	"testing"
)

func TestExtractCitations(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		fallback   []int
		wantText   string
		wantPages  []int
	}{
		{
			name:       "Canonical_Tag",
			completion: "Chapter 2 covers the methodology. [PAGES: 3,4,7]",
			fallback:   []int{1},
			wantText:   "Chapter 2 covers the methodology.",
			wantPages:  []int{3, 4, 7},
		},
		{
			name:       "Localized_Tag_Variant",
			completion: "Il capitolo 2 descrive la metodologia. [PAGINE: 3, 4, 7]",
			fallback:   []int{1},
			wantText:   "Il capitolo 2 descrive la metodologia.",
			wantPages:  []int{3, 4, 7},
		},
		{
			name:       "Missing_Tag_Falls_Back_To_Retrieval_Pages",
			completion: "The answer has no citation trailer.",
			fallback:   []int{4, 5, 9},
			wantText:   "The answer has no citation trailer.",
			wantPages:  []int{4, 5, 9},
		},
		{
			name:       "Only_Tag_Removed_Rest_Verbatim",
			completion: "See section 3.1 [sic] for details. [PAGES: 12]\nMore text after.",
			fallback:   nil,
			wantText:   "See section 3.1 [sic] for details.\nMore text after.",
			wantPages:  []int{12},
		},
		{
			name:       "Garbage_Numbers_Skipped",
			completion: "Answer. [PAGES: 3,,7]",
			fallback:   []int{1},
			wantText:   "Answer.",
			wantPages:  []int{3, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotPages := ExtractCitations(tt.completion, tt.fallback)
			if gotText != tt.wantText {
				t.Errorf("text got %q, want %q", gotText, tt.wantText)
			}
			if !reflect.DeepEqual(gotPages, tt.wantPages) {
				t.Errorf("pages got %v, want %v", gotPages, tt.wantPages)
			}
		})
	}
}
