package index

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultChunkSize    = 512
	defaultChunkOverlap = 50
)

// Splitter breaks extracted text into chunks small enough to embed.
type Splitter interface {
	Split(text string) []string
}

type tokenizer interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Chunker splits text into token windows with a fixed overlap so context is
// not lost at chunk boundaries.
type Chunker struct {
	enc     tokenizer
	size    int
	overlap int
}

// NewChunker loads the cl100k_base encoding, which matches the OpenAI
// embedding models.
func NewChunker(size, overlap int) (*Chunker, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}
	return newChunker(enc, size, overlap), nil
}

func newChunker(enc tokenizer, size, overlap int) *Chunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = defaultChunkOverlap
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{enc: enc, size: size, overlap: overlap}
}

func (c *Chunker) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	tokens := c.enc.Encode(text, nil, nil)
	if len(tokens) <= c.size {
		return []string{text}
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, len(tokens)/step+1)
	for start := 0; start < len(tokens); start += step {
		end := min(start+c.size, len(tokens))
		chunk := strings.TrimSpace(c.enc.Decode(tokens[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(tokens) {
			break
		}
	}

	return chunks
}
