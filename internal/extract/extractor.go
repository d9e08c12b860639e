// Package extract provides text extraction from knowledge-base document formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Section is one locatable unit of extracted text: a PDF page, a spreadsheet
// sheet, or a whole plain-text/DOCX body (empty locator).
type Section struct {
	Text    string
	Locator string // e.g. "Page 3", "Sheet Fees"; empty when the format has no pages
}

// Extractor extracts text sections from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether the extension (with leading dot) is a supported
// knowledge-base format.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".xlsx", ".txt", ".md":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text sections.
// PDF yields one section per page, XLSX one per sheet, other formats one
// section for the whole file. Returns an error if the file cannot be read
// or the format is unsupported.
func (e *Extractor) Extract(path string) ([]Section, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts sections from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) ([]Section, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".xlsx":
		return extractExcel(content)
	case ".txt", ".md", "":
		return extractPlain(content)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}
