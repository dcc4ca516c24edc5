// Package retrieval matches a problem description to a single troubleshooting
// guide, strictly constrained to the product under discussion.
package retrieval

import (
	"fmt"
	"log"
	"strings"

	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/embedding"
	"tv-assist-be/pkg/vectorindex"
)

const embedTaskDocument = "RETRIEVAL_DOCUMENT"
const embedTaskQuery = "RETRIEVAL_QUERY"

// Engine holds the semantic index over catalog issue texts plus the
// position→record mapping. Built once, read-only afterwards.
type Engine struct {
	embedder embedding.EmbeddingProvider
	index    *vectorindex.FlatIndex
	records  []catalog.Record
	mapping  []int
	logger   *log.Logger
}

// NewEngine creates an engine over the flattened catalog. logger may be nil.
func NewEngine(embedder embedding.EmbeddingProvider, records []catalog.Record, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.Writer(), "[RETRIEVAL] ", log.LstdFlags)
	}
	return &Engine{
		embedder: embedder,
		index:    vectorindex.NewFlatIndex(),
		records:  records,
		logger:   logger,
	}
}

// Build embeds every record's issue text into the index. Records whose
// embedding fails are skipped so one bad row cannot block startup.
func (e *Engine) Build() error {
	for i, record := range e.records {
		resp, err := e.embedder.Generate(record.Issue, embedTaskDocument)
		if err != nil {
			e.logger.Printf("skipping record %d (model=%s): embedding failed: %v", i, record.Model, err)
			continue
		}
		if err := e.index.Add(resp.Embedding.Values); err != nil {
			return fmt.Errorf("retrieval: index record %d: %w", i, err)
		}
		e.mapping = append(e.mapping, i)
	}
	if e.index.Len() == 0 {
		return fmt.Errorf("retrieval: no records indexed")
	}
	e.logger.Printf("index built with %d vectors from %d records", e.index.Len(), len(e.records))
	return nil
}

// Size returns the number of indexed issue texts.
func (e *Engine) Size() int {
	return e.index.Len()
}

// Search embeds the query, fetches the k nearest issues by L2 distance and
// returns the FIRST candidate, in ascending distance order, whose model
// matches targetModel. A closer match for the wrong model is never returned.
// All failure modes degrade to (nil, false): empty query, empty index,
// embedding failure, no candidate for the model within the top k.
func (e *Engine) Search(query, targetModel string, k int) (*catalog.Record, bool) {
	if strings.TrimSpace(query) == "" || strings.TrimSpace(targetModel) == "" {
		return nil, false
	}
	if e.index.Len() == 0 {
		e.logger.Printf("search skipped: index is empty")
		return nil, false
	}
	if k <= 0 {
		return nil, false
	}
	if k > e.index.Len() {
		k = e.index.Len()
	}

	resp, err := e.embedder.Generate(strings.TrimSpace(query), embedTaskQuery)
	if err != nil {
		e.logger.Printf("search failed: query embedding: %v", err)
		return nil, false
	}

	neighbors, err := e.index.Search(resp.Embedding.Values, k)
	if err != nil {
		e.logger.Printf("search failed: index: %v", err)
		return nil, false
	}

	target := normalizeModel(targetModel)
	for _, neighbor := range neighbors {
		if neighbor.Position < 0 || neighbor.Position >= len(e.mapping) {
			continue
		}
		record := &e.records[e.mapping[neighbor.Position]]
		if normalizeModel(record.Model) == target {
			e.logger.Printf("match: model=%s issue=%q distance=%.4f", record.Model, record.Issue, neighbor.Distance)
			return record, true
		}
	}

	e.logger.Printf("no guide for model %q within top %d candidates for query %.60q", targetModel, k, query)
	return nil, false
}

func normalizeModel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
