// Package vectorindex provides an in-memory exact nearest-neighbor index
// over float32 vectors using L2 distance.
package vectorindex

import (
	"fmt"
	"sort"
	"sync"
)

// Result is one neighbor: its insertion position and L2 distance (squared).
type Result struct {
	Position int
	Distance float32
}

// FlatIndex is a brute-force flat index. Safe for concurrent use; writes are
// expected only during the build phase.
type FlatIndex struct {
	mu      sync.RWMutex
	dim     int
	vectors [][]float32
}

func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

// Add appends a vector. The first vector fixes the index dimension.
func (idx *FlatIndex) Add(vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("vectorindex: empty vector")
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dim == 0 {
		idx.dim = len(vector)
	} else if len(vector) != idx.dim {
		return fmt.Errorf("vectorindex: dimension mismatch: got %d, want %d", len(vector), idx.dim)
	}

	stored := make([]float32, len(vector))
	copy(stored, vector)
	idx.vectors = append(idx.vectors, stored)
	return nil
}

// Search returns up to k nearest neighbors of query in ascending distance
// order. An empty index yields an empty result.
func (idx *FlatIndex) Search(query []float32, k int) ([]Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != idx.dim {
		return nil, fmt.Errorf("vectorindex: query dimension mismatch: got %d, want %d", len(query), idx.dim)
	}

	results := make([]Result, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		results = append(results, Result{Position: i, Distance: l2Squared(query, vec)})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Distance == results[b].Distance {
			return results[a].Position < results[b].Position
		}
		return results[a].Distance < results[b].Distance
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of indexed vectors.
func (idx *FlatIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

func l2Squared(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
