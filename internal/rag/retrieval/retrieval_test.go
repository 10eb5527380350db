package retrieval

import (
	"reflect"
	"testing"

	"github.com/akolanti/pdfchat/internal/domain/commonModels"
)

func textMatch(id string, score float32, page int) commonModels.Match {
	return commonModels.Match{
		Id:    id,
		Score: score,
		Metadata: commonModels.ChunkMetadata{
			Text:       "content of " + id,
			PageNumber: page,
			Type:       commonModels.ChunkTypeText,
		},
	}
}

func TestFilter_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		raw            []commonModels.Match
		wantQualifying []string
		wantPages      []int
	}{
		{
			name: "Above_Floor_Qualify",
			raw: []commonModels.Match{
				textMatch("a", 0.4, 4),
				textMatch("b", 0.3, 5),
				textMatch("c", 0.9, 9),
			},
			wantQualifying: []string{"a", "b", "c"},
			wantPages:      []int{4, 5, 9},
		},
		{
			name: "Below_Floor_Dropped",
			raw: []commonModels.Match{
				textMatch("a", 0.9, 2),
				textMatch("b", 0.25, 7), //at the floor, not above it
				textMatch("c", 0.1, 8),
			},
			wantQualifying: []string{"a"},
			wantPages:      []int{2},
		},
		{
			name: "Fallback_To_All_Raw",
			raw: []commonModels.Match{
				textMatch("a", 0.2, 3),
				textMatch("b", 0.1, 1),
				textMatch("c", 0.05, 3),
			},
			wantQualifying: []string{"a", "b", "c"},
			wantPages:      []int{1, 3},
		},
		{
			name:           "Empty_Raw_Stays_Empty",
			raw:            nil,
			wantQualifying: []string{},
			wantPages:      []int{},
		},
		{
			name: "Pages_Deduplicated_And_Sorted",
			raw: []commonModels.Match{
				textMatch("a", 0.5, 9),
				textMatch("b", 0.5, 4),
				textMatch("c", 0.5, 9),
				textMatch("d", 0.5, 4),
			},
			wantQualifying: []string{"a", "b", "c", "d"},
			wantPages:      []int{4, 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.raw)

			var ids []string
			for _, m := range got.Qualifying {
				ids = append(ids, m.Id)
			}
			if len(ids) != len(tt.wantQualifying) {
				t.Fatalf("qualifying got %v, want %v", ids, tt.wantQualifying)
			}
			for i, id := range ids {
				if id != tt.wantQualifying[i] {
					t.Errorf("qualifying[%d] got %s, want %s", i, id, tt.wantQualifying[i])
				}
			}

			if len(got.Pages) != len(tt.wantPages) {
				t.Fatalf("pages got %v, want %v", got.Pages, tt.wantPages)
			}
			for i, p := range got.Pages {
				if p != tt.wantPages[i] {
					t.Errorf("pages[%d] got %d, want %d", i, p, tt.wantPages[i])
				}
			}
		})
	}
}

func TestFilter_ImagesIndexNeverQualifies(t *testing.T) {
	raw := []commonModels.Match{
		textMatch("a", 0.8, 1),
		{
			Id:    "idx",
			Score: 0.99,
			Metadata: commonModels.ChunkMetadata{
				Type:   commonModels.ChunkTypeImagesIndex,
				Images: `[{"page":1,"url":"","ocrText":"","type":"table"}]`,
			},
		},
	}

	got := Filter(raw)
	if len(got.Qualifying) != 1 || got.Qualifying[0].Id != "a" {
		t.Errorf("images-index chunk leaked into qualifying set: %+v", got.Qualifying)
	}
	if len(got.Raw) != 2 {
		t.Errorf("raw list must keep the images-index match, got %d entries", len(got.Raw))
	}
}

func TestMergePages(t *testing.T) {
	got := MergePages([]int{3, 7}, []int{1, 3}, nil, []int{7})
	want := []int{1, 3, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergePages got %v, want %v", got, want)
	}
}
