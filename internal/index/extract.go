// Package index turns stored documents into searchable vector indexes and
// retrieves the best-matching chunks for a query.
package index

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ErrUnsupportedType marks uploads the extractor cannot turn into text.
var ErrUnsupportedType = errors.New("unsupported file type")

var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".log":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ExtractText converts raw upload bytes into plain text. HTML is rewritten
// as Markdown so markup does not pollute the chunks; other text types pass
// through unchanged.
func ExtractText(data []byte, mimeType, filename string) (string, error) {
	mt := mimeType
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mt = parsed
	}
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case mt == "text/html" || ext == ".html" || ext == ".htm":
		markdown, err := htmltomarkdown.ConvertString(string(data))
		if err != nil {
			return "", fmt.Errorf("failed to convert HTML: %w", err)
		}
		return markdown, nil

	case strings.HasPrefix(mt, "text/") || mt == "application/json" || mt == "application/xml" || textExtensions[ext]:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedType, filename)
		}
		return string(data), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}
