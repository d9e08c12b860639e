package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/extract"
	"github.com/campusqa/prashna/internal/models"
)

// LoadDocuments walks dir, extracts text from every supported file
// (.pdf per page, .docx, .xlsx per sheet, .txt/.md), and splits each section
// on blank lines into paragraph chunks. Chunks shorter than minChunkChars
// are dropped; headers and page numbers carry no answerable content.
// Files that fail extraction are skipped with a warning.
func LoadDocuments(dir string, minChunkChars int, logger *zap.Logger) ([]models.KnowledgeItem, error) {
	extractor := extract.NewExtractor()

	var items []models.KnowledgeItem
	err := filepath.WalkDir(dir, func(path string, de os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() || !extract.Supported(filepath.Ext(path)) {
			return nil
		}
		sections, err := extractor.Extract(path)
		if err != nil {
			logger.Warn("document extraction failed, skipping",
				zap.String("file", de.Name()), zap.Error(err))
			return nil
		}
		n := 0
		for _, section := range sections {
			for _, chunk := range SplitParagraphs(section.Text, minChunkChars) {
				items = append(items, models.KnowledgeItem{
					ID:      uuid.NewString(),
					Text:    chunk,
					Source:  de.Name(),
					Locator: section.Locator,
					Origin:  models.TierDocument,
				})
				n++
			}
		}
		logger.Info("document loaded", zap.String("file", de.Name()), zap.Int("chunks", n))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk documents dir: %w", err)
	}
	return items, nil
}

// SplitParagraphs splits text on blank lines and returns trimmed chunks of at
// least minChars characters. CRLF line endings are normalized first so
// Windows-authored documents chunk the same way.
func SplitParagraphs(text string, minChars int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var chunks []string
	for _, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if len(part) >= minChars && part != "" {
			chunks = append(chunks, part)
		}
	}
	return chunks
}
