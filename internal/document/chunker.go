package document

import (
	"fmt"
	"strings"
)

// Default chunking parameters
const (
	DefaultTargetTokens     = 1500
	DefaultOverlapSentences = 2
)

// Chunker splits paginated text into sentence-boundary-aware chunks.
// Chunks never split a sentence, and consecutive chunks share the last
// OverlapSentences sentences for context continuity.
type Chunker struct {
	TargetTokens     int
	OverlapSentences int
}

// NewChunker creates a chunker with default parameters
func NewChunker() *Chunker {
	return &Chunker{
		TargetTokens:     DefaultTargetTokens,
		OverlapSentences: DefaultOverlapSentences,
	}
}

// Chunk splits pages into chunks with metadata. It returns nil when the
// pages contain no usable text.
func (c *Chunker) Chunk(pages []Page, filename string) []Chunk {
	tagged := collectSentences(pages)
	if len(tagged) == 0 {
		fmt.Println("   No text to chunk.")
		return nil
	}

	docID := GenerateDocID(filename)

	var chunks []Chunk
	var current []taggedSentence
	currentTokens := 0
	seedLen := 0 // sentences carried over from the previous chunk

	i := 0
	for i < len(tagged) {
		sentTokens := EstimateTokens(tagged[i].text)

		// Close the buffer when adding this sentence would exceed the
		// target. Cutting requires at least one sentence beyond the
		// overlap seed, so an oversized sentence is placed rather than
		// stalling the loop.
		if len(current) > seedLen && currentTokens+sentTokens > c.TargetTokens {
			chunks = append(chunks, c.finishChunk(current, docID, filename, len(chunks)))

			overlap := c.OverlapSentences
			if overlap > len(current) {
				overlap = len(current)
			}
			current = append([]taggedSentence(nil), current[len(current)-overlap:]...)
			currentTokens = 0
			for _, s := range current {
				currentTokens += EstimateTokens(s.text)
			}
			seedLen = len(current)
			// Re-check sentence i against the fresh buffer
			continue
		}

		current = append(current, tagged[i])
		currentTokens += sentTokens
		i++
	}

	if len(current) > 0 {
		chunks = append(chunks, c.finishChunk(current, docID, filename, len(chunks)))
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	fmt.Printf("   Split into %d chunks (sentence-boundary aware)\n", len(chunks))
	return chunks
}

// finishChunk builds a chunk record from the buffered sentences.
// TotalChunks is backfilled by the caller once the chunk count is known.
func (c *Chunker) finishChunk(sentences []taggedSentence, docID, filename string, index int) Chunk {
	parts := make([]string, len(sentences))
	pageStart := sentences[0].page
	pageEnd := sentences[0].page

	for i, s := range sentences {
		parts[i] = s.text
		if s.page < pageStart {
			pageStart = s.page
		}
		if s.page > pageEnd {
			pageEnd = s.page
		}
	}

	text := strings.Join(parts, " ")
	return Chunk{
		ChunkID:      fmt.Sprintf("%s_chunk_%04d", docID, index),
		DocID:        docID,
		Filename:     filename,
		PageStart:    pageStart,
		PageEnd:      pageEnd,
		ChunkIndex:   index,
		CharCount:    len(text),
		OriginalText: text,
	}
}
