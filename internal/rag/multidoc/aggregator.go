package multidoc

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/akolanti/pdfchat/internal/config"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/akolanti/pdfchat/internal/rag/contextbuilder"
	"github.com/akolanti/pdfchat/internal/rag/retrieval"
	"github.com/akolanti/pdfchat/internal/rag/vectorDB"
	"github.com/akolanti/pdfchat/pkg/logger_i"
)

// NamespaceQuerier is the slice of the vector store the aggregator needs.
type NamespaceQuerier interface {
	Query(ctx context.Context, namespace string, vector []float32, topK uint64) ([]commonModels.Match, error)
}

var logger = logger_i.NewLogger("multidoc")

var leadingDigits = regexp.MustCompile(`^\d+[-_ ]*`)
var labelPunct = regexp.MustCompile(`[-_]+`)

// CleanFileLabel turns a stored file key into a human label for the
// "=== DOCUMENT: ... ===" separators. Upload keys carry a timestamp prefix
// and the original extension, neither belongs in the label.
func CleanFileLabel(fileKey string) string {
	label := fileKey
	if i := strings.LastIndexAny(label, "/\\"); i >= 0 {
		label = label[i+1:]
	}
	if i := strings.LastIndex(label, "."); i > 0 {
		label = label[:i]
	}
	label = leadingDigits.ReplaceAllString(label, "")
	label = labelPunct.ReplaceAllString(label, " ")
	label = strings.TrimSpace(label)
	if label == "" {
		return config.DefaultDocumentLabel
	}
	return label
}

// MentionedDocuments returns the documents whose label appears in the
// question, or whose label contains the whole question (short queries like
// a bare file name). An empty result means no document was called out and
// all of them should be searched.
func MentionedDocuments(question string, docs []commonModels.Document) []commonModels.Document {
	lowered := strings.ToLower(strings.TrimSpace(question))
	var mentioned []commonModels.Document
	for _, d := range docs {
		label := strings.ToLower(CleanFileLabel(d.Key))
		if label == strings.ToLower(config.DefaultDocumentLabel) {
			continue
		}
		if strings.Contains(lowered, label) || strings.Contains(label, lowered) {
			mentioned = append(mentioned, d)
		}
	}
	return mentioned
}

type docResult struct {
	doc     commonModels.Document
	matches []commonModels.Match
	err     error
}

// Aggregate queries every document namespace concurrently and merges the
// per-document contexts in input order so the output is deterministic.
func Aggregate(ctx context.Context, querier NamespaceQuerier, question string, vector []float32, docs []commonModels.Document) (commonModels.AssembledContext, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if mentioned := MentionedDocuments(question, docs); len(mentioned) > 0 {
		docs = mentioned
	}

	results := make([]docResult, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		wg.Add(1)
		go func(i int, doc commonModels.Document) {
			defer wg.Done()
			matches, err := querier.Query(ctx, vectorDB.ToNamespace(doc.Key), vector, config.TopK)
			results[i] = docResult{doc: doc, matches: matches, err: err}
		}(i, doc)
	}
	wg.Wait()

	var sections []string
	var pageLists [][]int
	var sources []commonModels.Source

	for _, r := range results {
		if r.err != nil {
			//one unreachable namespace should not sink the whole search
			log.Error("Query failed for document", "fileKey", r.doc.Key, "error", r.err.Error())
			continue
		}

		filtered := retrieval.Filter(r.matches)
		if len(filtered.Qualifying) == 0 {
			continue
		}

		section := contextbuilder.Assemble(filtered.Qualifying, config.MultiDocContextBudget)
		if section == "" {
			continue
		}

		label := CleanFileLabel(r.doc.Key)
		sections = append(sections, fmt.Sprintf("=== DOCUMENT: %s ===\n%s", label, section))
		pageLists = append(pageLists, filtered.Pages)

		for _, m := range filtered.Qualifying {
			sources = append(sources, commonModels.Source{
				FileKey:    r.doc.Key,
				PageNumber: m.Metadata.PageNumber,
				Text:       preview(m.Metadata.Text),
			})
		}
	}

	assembled := commonModels.AssembledContext{
		Text:    contextbuilder.Truncate(strings.Join(sections, "\n\n"), config.MultiDocContextBudget),
		Pages:   retrieval.MergePages(pageLists...),
		Sources: sources,
	}
	return assembled, nil
}

func preview(text string) string {
	if len(text) > 200 {
		return text[:200]
	}
	return text
}
