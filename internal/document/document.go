package document

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Page is one page of extracted source text. Number is 1-based and unique
// within a document.
type Page struct {
	Number int
	Text   string
}

// minPageChars is the floor below which a page's trimmed text is treated
// as empty (image-only or scanned pages extract to little or nothing).
const minPageChars = 50

// Chunk is the unit of translation and storage: a bounded, sentence-aligned
// slice of a document's text.
type Chunk struct {
	ChunkID        string `json:"chunk_id"`
	DocID          string `json:"doc_id"`
	Filename       string `json:"filename"`
	PageStart      int    `json:"page_start"`
	PageEnd        int    `json:"page_end"`
	ChunkIndex     int    `json:"chunk_index"`
	TotalChunks    int    `json:"total_chunks"`
	CharCount      int    `json:"char_count"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text,omitempty"`
}

// GenerateDocID creates a short deterministic document ID from a filename.
// Repeated runs on the same filename reproduce the same ID.
func GenerateDocID(filename string) string {
	hash := md5.Sum([]byte(filename))
	return "doc_" + hex.EncodeToString(hash[:])[:8]
}

// EstimateTokens estimates the token count of text using a word-count
// heuristic (~1 token per 0.75 words). It is intentionally approximate;
// chunk sizes are targets, not hard caps.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}
