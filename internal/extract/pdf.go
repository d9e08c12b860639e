package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDF returns one section per page so chunks keep a page locator.
// Pages that fail text extraction are skipped rather than failing the whole
// document; scanned pages with no text layer are common in institutional PDFs.
func extractPDF(content []byte) ([]Section, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	sections := make([]Section, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		sections = append(sections, Section{
			Text:    text,
			Locator: fmt.Sprintf("Page %d", i),
		})
	}
	return sections, nil
}
