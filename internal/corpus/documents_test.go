package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/models"
)

func TestLoadDocuments_ChunksPlainText(t *testing.T) {
	dir := t.TempDir()
	content := "The institute offers undergraduate and postgraduate programs across twelve departments.\n\n" +
		"Hostel accommodation is available for all first-year students on campus.\n\n" +
		"Page 3\n\n" +
		"The central library subscribes to major journals and digital archives."
	if err := os.WriteFile(filepath.Join(dir, "handbook.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadDocuments(dir, 50, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	// The short "Page 3" chunk is dropped by the minimum length.
	if len(items) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(items))
	}
	for _, item := range items {
		if item.Origin != models.TierDocument {
			t.Errorf("Origin=%s", item.Origin)
		}
		if item.Source != "handbook.txt" {
			t.Errorf("Source=%s", item.Source)
		}
		if item.ID == "" {
			t.Error("chunks must get an ID")
		}
	}
}

func TestLoadDocuments_SkipsUnsupportedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89, 0x50}, 0644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadDocuments(dir, 10, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestLoadDocuments_WalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "notices")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	text := "Admissions for the next academic session open in June every year."
	if err := os.WriteFile(filepath.Join(sub, "notice.md"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	items, err := LoadDocuments(dir, 10, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Source != "notice.md" {
		t.Errorf("Source=%s", items[0].Source)
	}
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		minChars int
		want     int
	}{
		{"splits on blank lines", "first paragraph here\n\nsecond paragraph here", 5, 2},
		{"drops short chunks", "tiny\n\na chunk long enough to keep", 10, 1},
		{"empty input", "", 1, 0},
		{"whitespace only", "  \n\n\t", 1, 0},
		{"crlf blank lines", "first paragraph here\r\n\r\nsecond paragraph here", 5, 2},
		{"mixed line endings", "first paragraph here\r\n\r\nsecond one\n\nthird paragraph here", 5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.text, tt.minChars)
			if len(got) != tt.want {
				t.Errorf("got %d chunks, want %d", len(got), tt.want)
			}
		})
	}
}
