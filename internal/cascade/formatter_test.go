package cascade

import (
	"strings"
	"testing"

	"github.com/campusqa/prashna/internal/models"
)

func TestFormatDirect_Curated(t *testing.T) {
	results := []models.SearchResult{
		curatedResult("Separate boys/girls hostels with mess and Wi-Fi.", "Hostel", 0.85),
	}
	got := FormatDirect(results, models.TierCurated, 0.85)

	if !strings.HasPrefix(got, "Based on curated knowledge base:") {
		t.Errorf("header missing: %q", got)
	}
	if !strings.Contains(got, "• Separate boys/girls hostels with mess and Wi-Fi.") {
		t.Error("bulleted answer missing")
	}
	if !strings.Contains(got, "Source Information:\nCategory: Hostel") {
		t.Error("source block missing")
	}
	if !strings.HasSuffix(got, "(Confidence: 85%)") {
		t.Errorf("confidence suffix missing: %q", got)
	}
}

func TestFormatDirect_DocumentMultipleResults(t *testing.T) {
	results := []models.SearchResult{
		documentResult("first chunk", "prospectus.pdf", "Page 4", 0.6),
		documentResult("second chunk", "handbook.pdf", "Page 12", 0.55),
	}
	got := FormatDirect(results, models.TierDocument, 0.6)

	if !strings.HasPrefix(got, "Based on document knowledge base:") {
		t.Errorf("header missing: %q", got)
	}
	first := strings.Index(got, "• first chunk")
	second := strings.Index(got, "• second chunk")
	if first < 0 || second < 0 || second < first {
		t.Error("bullets must keep result order")
	}
	if !strings.Contains(got, "[Page 4] prospectus.pdf") || !strings.Contains(got, "[Page 12] handbook.pdf") {
		t.Error("per-result source lines missing")
	}
	if !strings.Contains(got, "(Confidence: 60%)") {
		t.Error("confidence percentage missing")
	}
}

func TestFormatDirect_Empty(t *testing.T) {
	if got := FormatDirect(nil, models.TierCurated, 0.9); got != "No results found." {
		t.Errorf("got %q", got)
	}
}

func TestFormatDirect_ConfidenceTruncates(t *testing.T) {
	results := []models.SearchResult{curatedResult("a", "Info", 0.999)}
	if got := FormatDirect(results, models.TierCurated, 0.999); !strings.Contains(got, "(Confidence: 99%)") {
		t.Errorf("expected integer truncation, got %q", got)
	}
}

func TestContextBlock_Fallbacks(t *testing.T) {
	curated := models.KnowledgeItem{Text: "answer", Origin: models.TierCurated}
	if got := contextBlock(curated); !strings.HasPrefix(got, "[Curated: Info]") {
		t.Errorf("missing category fallback: %q", got)
	}
	doc := models.KnowledgeItem{Text: "chunk", Source: "notes.txt", Origin: models.TierDocument}
	if got := contextBlock(doc); !strings.HasPrefix(got, "[Document: notes.txt (?)]") {
		t.Errorf("missing locator fallback: %q", got)
	}
}
