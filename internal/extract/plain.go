package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain returns content as a single section, validating it is valid
// UTF-8. Invalid sequences are replaced with the replacement character.
func extractPlain(content []byte) ([]Section, error) {
	text := string(content)
	if !utf8.Valid(content) {
		text = strings.ToValidUTF8(text, "�")
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return []Section{{Text: text}}, nil
}
