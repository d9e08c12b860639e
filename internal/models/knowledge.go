// Package models defines core data structures for knowledge items, search
// results, and cascade outcomes.
package models

// Tier identifies one independently searchable knowledge source.
type Tier string

const (
	// TierCurated is the hand-maintained Q&A corpus (highest trust).
	TierCurated Tier = "CURATED"
	// TierDocument is the bulk document corpus (pdf/docx/xlsx/txt chunks).
	TierDocument Tier = "DOCUMENT"
)

// KnowledgeItem is one searchable unit of institutional knowledge.
// Items are immutable after loading; a tier's corpus is built once at
// startup (or on a watched rebuild) and shared read-only across queries.
type KnowledgeItem struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`               // the answer (curated) or chunk text (document)
	Question string   `json:"question,omitempty"` // curated only
	Category string   `json:"category,omitempty"`
	Source   string   `json:"source,omitempty"`  // source file name
	Locator  string   `json:"locator,omitempty"` // e.g. "Page 3" or "Sheet Fees"; empty when unknown
	Keywords []string `json:"keywords,omitempty"`
	Origin   Tier     `json:"origin"`
}

// EmbedText returns the text that is embedded for this item. Curated items
// embed question and answer together, which matches queries phrased either way.
func (k *KnowledgeItem) EmbedText() string {
	if k.Question != "" {
		return k.Question + " " + k.Text
	}
	return k.Text
}

// SearchResult is a single scored hit from a semantic index, produced
// transiently per query.
type SearchResult struct {
	Item  KnowledgeItem `json:"item"`
	Score float64       `json:"score"` // cosine similarity in [0,1]
}
