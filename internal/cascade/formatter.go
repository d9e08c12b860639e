package cascade

import (
	"fmt"
	"strings"

	"github.com/campusqa/prashna/internal/models"
)

// tierLabel is the human-readable name of a tier in formatted answers.
func tierLabel(tier models.Tier) string {
	switch tier {
	case models.TierCurated:
		return "curated"
	case models.TierDocument:
		return "document"
	default:
		return "knowledge"
	}
}

// FormatDirect renders a direct answer: bulleted result texts, a source
// information block, and an integer confidence percentage. Pure function,
// no side effects.
func FormatDirect(results []models.SearchResult, tier models.Tier, confidence float64) string {
	if len(results) == 0 {
		return "No results found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on %s knowledge base:\n\n", tierLabel(tier))

	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "• %s", r.Item.Text)
	}

	b.WriteString("\n\nSource Information:\n")
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sourceLine(r.Item))
	}

	fmt.Fprintf(&b, "\n(Confidence: %d%%)", int(confidence*100))
	return b.String()
}

// sourceLine renders one result's provenance: category for curated items,
// file plus locator for document chunks.
func sourceLine(item models.KnowledgeItem) string {
	if item.Origin == models.TierCurated {
		category := item.Category
		if category == "" {
			category = "General"
		}
		return fmt.Sprintf("Category: %s", category)
	}
	if item.Locator != "" {
		return fmt.Sprintf("[%s] %s", item.Locator, item.Source)
	}
	return item.Source
}

// contextBlock renders one result as a labeled block for synthesis context.
func contextBlock(item models.KnowledgeItem) string {
	if item.Origin == models.TierCurated {
		category := item.Category
		if category == "" {
			category = "Info"
		}
		return fmt.Sprintf("[Curated: %s]\n%s", category, item.Text)
	}
	locator := item.Locator
	if locator == "" {
		locator = "?"
	}
	return fmt.Sprintf("[Document: %s (%s)]\n%s", item.Source, locator, item.Text)
}
