package qdrantDB

import (
	"context"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

// QueryImagesIndex fetches the single images-index record of a namespace
// with a type-filtered query. Used by the trigger path when the user asks
// for visuals outright and page gating surfaced nothing.
func (db *ClientHolder) QueryImagesIndex(ctx context.Context, namespace string, vector []float32) (commonModels.Match, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "namespace", namespace)

	loggr.Debug("Fetching images-index record")
	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: namespace,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("type", string(commonModels.ChunkTypeImagesIndex)),
			},
		},
	})
	if err != nil {
		loggr.Error("images-index query failed", "error", err)
		return commonModels.Match{}, false, err
	}
	if len(searchResult) == 0 {
		return commonModels.Match{}, false, nil
	}

	return toMatch(searchResult[0]), true, nil
}
