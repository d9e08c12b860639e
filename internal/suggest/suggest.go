// Package suggest offers related curated questions when the cascade
// rejects a query, using a fuzzy keyword index over the curated corpus.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/campusqa/prashna/internal/models"
)

type suggestDoc struct {
	Question string `json:"question"`
	Category string `json:"category"`
}

// Suggester finds curated questions lexically close to a rejected query.
// The index lives in memory only; it is rebuilt from the corpus on start.
type Suggester struct {
	index     bleve.Index
	questions map[string]string // doc id -> question text
}

// New builds an in-memory index over the curated items' question text.
func New(items []models.KnowledgeItem) (*Suggester, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so short queries
	// like "fee" match "fees" via fuzziness rather than stemmed forms.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("question", textFieldMapping)
	docMapping.AddFieldMappingsAt("category", bleve.NewKeywordFieldMapping())
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggestion index: %w", err)
	}

	s := &Suggester{index: index, questions: make(map[string]string)}
	batch := index.NewBatch()
	for _, item := range items {
		if item.Origin != models.TierCurated || item.Question == "" {
			continue
		}
		if err := batch.Index(item.ID, suggestDoc{Question: item.Question, Category: item.Category}); err != nil {
			return nil, fmt.Errorf("failed to index question: %w", err)
		}
		s.questions[item.ID] = item.Question
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("failed to commit suggestion batch: %w", err)
	}
	return s, nil
}

// Suggest returns up to limit curated questions related to query,
// best match first. An unusable index or query yields no suggestions.
func (s *Suggester) Suggest(query string, limit int) []string {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(2)
		fq.SetField("question")
		queries = append(queries, fq)
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(queries...))
	req.Size = limit
	results, err := s.index.Search(req)
	if err != nil {
		return nil
	}

	hits := results.Hits
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	out := make([]string, 0, len(hits))
	for _, hit := range hits {
		if q, ok := s.questions[hit.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}

// Size returns the number of indexed questions.
func (s *Suggester) Size() int {
	return len(s.questions)
}

// Close releases the index.
func (s *Suggester) Close() error {
	return s.index.Close()
}
