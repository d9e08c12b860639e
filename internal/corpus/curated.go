// Package corpus loads the curated Q&A corpus and the bulk document corpus
// into KnowledgeItem slices at process start.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/models"
)

// curatedEntry is one Q&A record as it appears in any of the curated JSON
// layouts. Fields beyond question/answer are optional.
type curatedEntry struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// LoadCurated reads every *.json file in dir and extracts Q&A pairs from the
// four curated layouts the institution has accumulated over time:
//
//  1. {"embeddings": {"<cat>": {"name": ..., "entries": [...]}}}
//  2. {"institution_info": [...]}
//  3. {"<category>": [...], ...} (any top-level lists of Q&A objects)
//  4. {"personnel_qa_embeddings": {"<section>": [...]}}
//
// Entries missing a question or answer are skipped with a warning; a file
// that fails to parse is skipped the same way. Loading only fails when the
// directory itself is unreadable.
func LoadCurated(dir string, logger *zap.Logger) ([]models.KnowledgeItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read curated dir: %w", err)
	}

	var items []models.KnowledgeItem
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("curated file unreadable, skipping", zap.String("file", de.Name()), zap.Error(err))
			continue
		}
		fileItems, err := parseCuratedFile(data, de.Name(), logger)
		if err != nil {
			logger.Warn("curated file unparseable, skipping", zap.String("file", de.Name()), zap.Error(err))
			continue
		}
		items = append(items, fileItems...)
		logger.Info("curated file loaded", zap.String("file", de.Name()), zap.Int("pairs", len(fileItems)))
	}
	return items, nil
}

// parseCuratedFile extracts Q&A pairs from one JSON document, trying each
// known layout. Layout 4 can coexist with the others in the same file.
func parseCuratedFile(data []byte, source string, logger *zap.Logger) ([]models.KnowledgeItem, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	var items []models.KnowledgeItem
	add := func(e curatedEntry, fallbackCategory string) {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			logger.Warn("curated entry missing question or answer, skipping",
				zap.String("file", source), zap.String("id", e.ID))
			return
		}
		category := e.Category
		if category == "" {
			category = fallbackCategory
		}
		if category == "" {
			category = "General"
		}
		items = append(items, models.KnowledgeItem{
			ID:       e.ID,
			Text:     e.Answer,
			Question: e.Question,
			Category: category,
			Source:   source,
			Keywords: e.Keywords,
			Origin:   models.TierCurated,
		})
	}

	if raw, ok := root["embeddings"]; ok {
		// Layout 1: nested categories with named entry lists.
		type curatedCategory struct {
			Name    string         `json:"name"`
			Entries []curatedEntry `json:"entries"`
		}
		var nested map[string]curatedCategory
		if err := json.Unmarshal(raw, &nested); err == nil {
			keys := make([]string, 0, len(nested))
			for k := range nested {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, key := range keys {
				cat := nested[key]
				name := cat.Name
				if name == "" {
					name = key
				}
				for _, e := range cat.Entries {
					add(e, name)
				}
			}
		}
	} else if raw, ok := root["institution_info"]; ok {
		// Layout 2: flat list.
		var list []curatedEntry
		if err := json.Unmarshal(raw, &list); err == nil {
			for _, e := range list {
				add(e, "General")
			}
		}
	} else {
		// Layout 3: any top-level list of Q&A objects, keyed by category.
		keys := make([]string, 0, len(root))
		for k := range root {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if key == "personnel_qa_embeddings" {
				continue
			}
			var list []curatedEntry
			if err := json.Unmarshal(root[key], &list); err != nil {
				continue
			}
			for _, e := range list {
				if e.Question == "" && e.Answer == "" {
					continue
				}
				add(e, key)
			}
		}
	}

	if raw, ok := root["personnel_qa_embeddings"]; ok {
		// Layout 4: sections of personnel Q&A, plus a metadata section to skip.
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(raw, &sections); err == nil {
			keys := make([]string, 0, len(sections))
			for k := range sections {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, section := range keys {
				if section == "metadata" {
					continue
				}
				var list []curatedEntry
				if err := json.Unmarshal(sections[section], &list); err != nil {
					continue
				}
				for _, e := range list {
					add(e, section)
				}
			}
		}
	}

	return items, nil
}
