package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/models"
)

func writeCurated(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCurated_NestedEmbeddingsLayout(t *testing.T) {
	dir := t.TempDir()
	writeCurated(t, dir, "campus.json", `{
		"embeddings": {
			"hostel": {
				"name": "Hostel",
				"entries": [
					{"id": "h1", "question": "What hostels are available?", "answer": "Separate boys/girls hostels.", "keywords": ["hostel"]}
				]
			},
			"academics": {
				"entries": [
					{"question": "How many departments?", "answer": "There are 12 departments."}
				]
			}
		}
	}`)

	items, err := LoadCurated(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Keys are sorted, so academics comes first.
	if items[0].Category != "academics" {
		t.Errorf("category fallback to key: got %s", items[0].Category)
	}
	if items[1].Category != "Hostel" {
		t.Errorf("category from layout name: got %s", items[1].Category)
	}
	if items[1].Origin != models.TierCurated {
		t.Errorf("Origin=%s", items[1].Origin)
	}
	if items[1].EmbedText() != "What hostels are available? Separate boys/girls hostels." {
		t.Errorf("EmbedText=%q", items[1].EmbedText())
	}
}

func TestLoadCurated_InstitutionInfoLayout(t *testing.T) {
	dir := t.TempDir()
	writeCurated(t, dir, "info.json", `{
		"institution_info": [
			{"question": "Where is the campus?", "answer": "Jalandhar, Punjab.", "category": "Location"},
			{"question": "When was it established?", "answer": "Established in 1987."}
		]
	}`)

	items, err := LoadCurated(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Category != "Location" {
		t.Errorf("explicit category wins: got %s", items[0].Category)
	}
	if items[1].Category != "General" {
		t.Errorf("default category: got %s", items[1].Category)
	}
}

func TestLoadCurated_TopLevelCategoryLists(t *testing.T) {
	dir := t.TempDir()
	writeCurated(t, dir, "faq.json", `{
		"Placements": [
			{"question": "What is the placement rate?", "answer": "Above 90% for B.Tech."}
		],
		"Library": [
			{"question": "Library timings?", "answer": "Open 8am to midnight."}
		]
	}`)

	items, err := LoadCurated(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Category != "Library" || items[1].Category != "Placements" {
		t.Errorf("categories from keys, sorted: %s, %s", items[0].Category, items[1].Category)
	}
}

func TestLoadCurated_PersonnelSections(t *testing.T) {
	dir := t.TempDir()
	writeCurated(t, dir, "personnel.json", `{
		"personnel_qa_embeddings": {
			"metadata": {"version": 2},
			"registrar": [
				{"question": "Who is the registrar?", "answer": "The registrar heads administration."}
			]
		}
	}`)

	items, err := LoadCurated(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item (metadata skipped), got %d", len(items))
	}
	if items[0].Category != "registrar" {
		t.Errorf("Category=%s", items[0].Category)
	}
}

func TestLoadCurated_SkipsMalformedEntriesAndFiles(t *testing.T) {
	dir := t.TempDir()
	writeCurated(t, dir, "broken.json", `{not json`)
	writeCurated(t, dir, "partial.json", `{
		"institution_info": [
			{"question": "Valid?", "answer": "Yes."},
			{"question": "", "answer": "No question."},
			{"question": "No answer?", "answer": "  "}
		]
	}`)
	writeCurated(t, dir, "notes.txt", "not a json file")

	items, err := LoadCurated(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected only the valid entry, got %d", len(items))
	}
	if items[0].Question != "Valid?" {
		t.Errorf("Question=%q", items[0].Question)
	}
}

func TestLoadCurated_MissingDir(t *testing.T) {
	if _, err := LoadCurated(filepath.Join(t.TempDir(), "nope"), zap.NewNop()); err == nil {
		t.Error("expected error for unreadable directory")
	}
}
