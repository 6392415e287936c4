package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordTokenizer maps each whitespace-separated word to one token so chunk
// boundaries are predictable.
type wordTokenizer struct {
	vocab []string
	ids   map[string]int
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: map[string]int{}}
}

func (t *wordTokenizer) Encode(text string, _, _ []string) []int {
	words := strings.Fields(text)
	tokens := make([]int, 0, len(words))
	for _, w := range words {
		id, ok := t.ids[w]
		if !ok {
			id = len(t.vocab)
			t.ids[w] = id
			t.vocab = append(t.vocab, w)
		}
		tokens = append(tokens, id)
	}
	return tokens
}

func (t *wordTokenizer) Decode(tokens []int) string {
	words := make([]string, 0, len(tokens))
	for _, id := range tokens {
		words = append(words, t.vocab[id])
	}
	return strings.Join(words, " ")
}

func TestChunker_Split_ShortTextIsSingleChunk(t *testing.T) {
	c := newChunker(newWordTokenizer(), 10, 2)
	chunks := c.Split("  just a few words  ")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words", chunks[0])
}

func TestChunker_Split_OverlapCarriesContext(t *testing.T) {
	c := newChunker(newWordTokenizer(), 4, 2)
	chunks := c.Split("w0 w1 w2 w3 w4 w5 w6 w7 w8 w9")

	require.Len(t, chunks, 4)
	assert.Equal(t, "w0 w1 w2 w3", chunks[0])
	assert.Equal(t, "w2 w3 w4 w5", chunks[1])
	assert.Equal(t, "w4 w5 w6 w7", chunks[2])
	assert.Equal(t, "w6 w7 w8 w9", chunks[3])
}

func TestChunker_Split_EmptyText(t *testing.T) {
	c := newChunker(newWordTokenizer(), 4, 2)
	assert.Nil(t, c.Split("   "))
}

func TestChunker_ClampsBadOverlap(t *testing.T) {
	c := newChunker(newWordTokenizer(), 8, 12)
	chunks := c.Split("w0 w1 w2 w3 w4 w5 w6 w7 w8 w9 w10 w11")
	// Overlap larger than the window falls back to a quarter of it, so the
	// splitter still terminates.
	require.NotEmpty(t, chunks)
	assert.Equal(t, "w0 w1 w2 w3 w4 w5 w6 w7", chunks[0])
}

func TestNewChunker_RealTokenizer(t *testing.T) {
	c, err := NewChunker(8, 2)
	if err != nil {
		t.Skipf("tokenizer data unavailable: %v", err)
	}
	chunks := c.Split("The quick brown fox jumps over the lazy dog, then naps in the warm afternoon sun for hours.")
	assert.GreaterOrEqual(t, len(chunks), 2)
}
