package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"doctranslate/internal/store"
	"doctranslate/internal/translation"
)

// NoContentAnswer is returned when the search finds nothing relevant
const NoContentAnswer = "No relevant content found. Please rephrase your question."

const answerMaxTokens = 1024

// Searcher is the read side of the content store
type Searcher interface {
	Search(query string, topK int, docID string) ([]store.Result, error)
}

// Answer answers a question over a stored document. It searches the store,
// assembles retrieved chunks into a context block, and asks the backend
// once, without retries. The returned page numbers are the cited sources,
// deduplicated and sorted.
func Answer(ctx context.Context, searcher Searcher, backend translation.Backend, query, docID string, topK int) (string, []int, error) {
	fmt.Println("   Searching relevant chunks...")
	results, err := searcher.Search(query, topK, docID)
	if err != nil {
		return "", nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		return NoContentAnswer, nil, nil
	}

	contextBlock, pages := assembleContext(results)
	prompt := buildPrompt(contextBlock, query)

	fmt.Println("   Generating answer...")
	result, err := backend.Translate(ctx, translation.Request{
		Prompt:    prompt,
		MaxTokens: answerMaxTokens,
	})
	if err != nil {
		// A backend failure yields an error answer, not a raised error
		return fmt.Sprintf("API error: %v", err), pages, nil
	}

	return result.Text, pages, nil
}

// assembleContext joins retrieved chunk texts with blank lines, preferring
// translated text where the metadata carries it, and collects the cited
// page range endpoints.
func assembleContext(results []store.Result) (string, []int) {
	parts := make([]string, 0, len(results))
	pageSet := make(map[int]bool)

	for _, r := range results {
		text := r.Text
		if translated, ok := r.Metadata["translated_text"].(string); ok && translated != "" {
			text = translated
		}
		parts = append(parts, text)

		for _, key := range []string{"page_start", "page_end"} {
			if page, ok := asInt(r.Metadata[key]); ok {
				pageSet[page] = true
			}
		}
	}

	pages := make([]int, 0, len(pageSet))
	for page := range pageSet {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	return strings.Join(parts, "\n\n"), pages
}

// asInt converts a decoded JSON metadata value to an int
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func buildPrompt(contextBlock, query string) string {
	return fmt.Sprintf(
		"Answer the question based only on the provided context.\n"+
			"If the answer is not in the context, say \"I don't know.\"\n\n"+
			"Context:\n%s\n\nQuestion: %s",
		contextBlock, query)
}
