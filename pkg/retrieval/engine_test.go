package retrieval

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/embedding"
)

// fakeEmbedder maps known texts to fixed vectors so distances are controlled
// by the test, not by a model.
type fakeEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.fail {
		return nil, fmt.Errorf("embedding service down")
	}
	vec, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func buildEngine(t *testing.T, records []catalog.Record, vectors map[string][]float32) *Engine {
	t.Helper()
	e := NewEngine(&fakeEmbedder{vectors: vectors}, records, testLogger())
	require.NoError(t, e.Build())
	return e
}

func TestSearchHardModelFilter(t *testing.T) {
	records := []catalog.Record{
		{Model: "Y456", Issue: "screen flickering"},
		{Model: "X123", Issue: "screen flickering on startup"},
		{Model: "X123", Issue: "no sound from speakers"},
	}
	// The Y456 guide is the closest neighbor, but the filter must pass over it
	// and return the nearest X123 guide instead.
	vectors := map[string][]float32{
		"screen flickering":            {0.1, 0},
		"screen flickering on startup": {0.5, 0},
		"no sound from speakers":       {10, 0},
		"my screen flickers":           {0, 0},
	}
	e := buildEngine(t, records, vectors)

	record, found := e.Search("my screen flickers", "X123", 5)
	require.True(t, found)
	assert.Equal(t, "X123", record.Model)
	assert.Equal(t, "screen flickering on startup", record.Issue)
}

func TestSearchMissWhenKTooSmall(t *testing.T) {
	records := []catalog.Record{
		{Model: "Y456", Issue: "screen flickering"},
		{Model: "X123", Issue: "screen flickering on startup"},
	}
	vectors := map[string][]float32{
		"screen flickering":            {0.1, 0},
		"screen flickering on startup": {0.5, 0},
		"my screen flickers":           {0, 0},
	}
	e := buildEngine(t, records, vectors)

	// k=1 only reaches the Y456 candidate, so the X123 query must miss.
	_, found := e.Search("my screen flickers", "X123", 1)
	assert.False(t, found)
}

func TestSearchUnknownModel(t *testing.T) {
	records := []catalog.Record{{Model: "X123", Issue: "no power"}}
	vectors := map[string][]float32{
		"no power":          {0, 0},
		"tv will not start": {0.1, 0},
	}
	e := buildEngine(t, records, vectors)

	_, found := e.Search("tv will not start", "Z999", 5)
	assert.False(t, found)
}

func TestSearchInputValidation(t *testing.T) {
	records := []catalog.Record{{Model: "X123", Issue: "no power"}}
	vectors := map[string][]float32{"no power": {0, 0}}
	e := buildEngine(t, records, vectors)

	_, found := e.Search("", "X123", 5)
	assert.False(t, found, "empty query")

	_, found = e.Search("no power", "", 5)
	assert.False(t, found, "empty target model")

	_, found = e.Search("no power", "X123", 0)
	assert.False(t, found, "non-positive k")
}

func TestSearchEmbeddingFailure(t *testing.T) {
	records := []catalog.Record{{Model: "X123", Issue: "no power"}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{"no power": {0, 0}}}
	e := NewEngine(embedder, records, testLogger())
	require.NoError(t, e.Build())

	embedder.fail = true
	_, found := e.Search("anything", "X123", 5)
	assert.False(t, found, "query embedding failure degrades to a miss")
}

func TestBuildSkipsFailingRows(t *testing.T) {
	records := []catalog.Record{
		{Model: "X123", Issue: "no power"},
		{Model: "X123", Issue: "unembeddable row"},
	}
	// Only the first issue has a vector; the second fails and is skipped.
	vectors := map[string][]float32{"no power": {0, 0}}
	e := NewEngine(&fakeEmbedder{vectors: vectors}, records, testLogger())
	require.NoError(t, e.Build())
	assert.Equal(t, 1, e.Size())
}

func TestBuildEmptyIndexErrors(t *testing.T) {
	records := []catalog.Record{{Model: "X123", Issue: "no power"}}
	e := NewEngine(&fakeEmbedder{fail: true}, records, testLogger())
	assert.Error(t, e.Build())
}

// Model matching ignores case and surrounding whitespace.
func TestSearchModelNormalization(t *testing.T) {
	records := []catalog.Record{{Model: "EL-32DS4200", Issue: "no picture"}}
	vectors := map[string][]float32{
		"no picture":   {0, 0},
		"black screen": {0.1, 0},
	}
	e := buildEngine(t, records, vectors)

	record, found := e.Search("black screen", " el-32ds4200 ", 5)
	require.True(t, found)
	assert.Equal(t, "EL-32DS4200", record.Model)
}
