// Package index provides the in-memory semantic index for one knowledge tier.
// Items and their embedding vectors are held in two index-aligned slices and
// replaced together, never mutated per-request.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/campusqa/prashna/internal/embedding"
	"github.com/campusqa/prashna/internal/models"
)

// Index is a brute-force inner-product index over one tier's corpus.
// Vectors are unit length, so inner product equals cosine similarity.
type Index struct {
	tier     models.Tier
	embedder embedding.Embedder

	mu      sync.RWMutex
	items   []models.KnowledgeItem
	vectors [][]float32
}

// New creates an empty index for tier. It stays empty (searches report zero
// confidence) until Build succeeds.
func New(tier models.Tier, embedder embedding.Embedder) *Index {
	return &Index{tier: tier, embedder: embedder}
}

// Tier returns which knowledge tier this index serves.
func (ix *Index) Tier() models.Tier {
	return ix.tier
}

// Build embeds every item and atomically replaces the corpus. Items and
// vectors are swapped together so alignment can never drift. A failed build
// leaves the previous corpus in place.
func (ix *Index) Build(ctx context.Context, items []models.KnowledgeItem) error {
	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].EmbedText()
	}
	vectors, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus for %s: %w", ix.tier, err)
	}
	if len(vectors) != len(items) {
		return fmt.Errorf("embed corpus for %s: got %d vectors for %d items", ix.tier, len(vectors), len(items))
	}
	for _, v := range vectors {
		embedding.NormalizeL2(v)
	}

	ix.mu.Lock()
	ix.items = items
	ix.vectors = vectors
	ix.mu.Unlock()
	return nil
}

// Search embeds the query and returns the topK highest-scoring items plus the
// top-1 confidence. Ties keep corpus order (stable sort). When the top-1
// score is below threshold the result list is empty but the confidence is
// still reported, so the caller can decide whether the tier contributed
// partial evidence against its own, lower, context-admission bar.
//
// An empty or unbuilt index, and any embedding failure, report ([], 0.0):
// the tier is unavailable, never a hard error.
func (ix *Index) Search(ctx context.Context, query string, topK int, threshold float64) ([]models.SearchResult, float64) {
	ix.mu.RLock()
	items, vectors := ix.items, ix.vectors
	ix.mu.RUnlock()

	if len(items) == 0 || topK <= 0 {
		return nil, 0.0
	}
	queryVec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, 0.0
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, len(items))
	for i, vec := range vectors {
		scores[i] = scored{idx: i, score: clampUnit(dot(queryVec, vec))}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	top1 := scores[0].score
	if top1 < threshold {
		return nil, top1
	}

	if topK > len(scores) {
		topK = len(scores)
	}
	results := make([]models.SearchResult, topK)
	for i := 0; i < topK; i++ {
		results[i] = models.SearchResult{Item: items[scores[i].idx], Score: scores[i].score}
	}
	return results, top1
}

// Size returns the number of items in the index.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

// Items returns the current corpus slice. Callers must treat it as read-only.
func (ix *Index) Items() []models.KnowledgeItem {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.items
}

func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i] * b[i])
	}
	return sum
}

// clampUnit bounds a similarity to [0,1]; float error can push a dot product
// of unit vectors slightly past 1, and opposed vectors go negative.
func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
