package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sony/gobreaker"

	"doctranslate/internal"
	"doctranslate/internal/archive"
	"doctranslate/internal/document"
	"doctranslate/internal/extract"
	"doctranslate/internal/translation"
)

// ChunkStore is the subset of the store client the pipeline writes through.
// A nil ChunkStore runs the pipeline without external indexing.
type ChunkStore interface {
	Store(chunkID, docID, text string, metadata map[string]any) error
}

// Config configures a document processor
type Config struct {
	OutputDir    string
	ProcessedDir string
	SourceLang   string
	TargetLang   string

	Store      ChunkStore
	Backend    translation.Backend
	Usage      *translation.UsageTracker
	Chunker    *document.Chunker
	OnProgress translation.ProgressFunc
}

// Processor runs the per-document pipeline: extract, chunk, store
// originals, translate, store translations, write output, archive.
// Store and chunk-level translation failures are counted, never fatal;
// only backend misconfiguration aborts a batch.
type Processor struct {
	config     Config
	chunker    *document.Chunker
	translator *translation.Translator
	usage      *translation.UsageTracker
	breaker    *gobreaker.CircuitBreaker
}

// New creates a processor. Usage and Chunker fall back to fresh defaults
// when not supplied.
func New(config Config) *Processor {
	if config.Usage == nil {
		config.Usage = translation.NewUsageTracker()
	}
	if config.Chunker == nil {
		config.Chunker = document.NewChunker()
	}

	return &Processor{
		config:     config,
		chunker:    config.Chunker,
		translator: translation.NewTranslator(config.Backend, config.Usage),
		usage:      config.Usage,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "store",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Usage returns the run's usage tracker
func (p *Processor) Usage() *translation.UsageTracker {
	return p.usage
}

// Translator exposes the driver for timing overrides
func (p *Processor) Translator() *translation.Translator {
	return p.translator
}

// ProcessAll processes files sequentially and prints a batch summary.
// Per-document failures don't stop the batch; an unrecoverable backend
// error does.
func (p *Processor) ProcessAll(ctx context.Context, paths []string) error {
	successCount := 0
	failCount := 0

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Printf("\n%s\n", strings.Repeat("-", 60))
		done, err := p.ProcessFile(ctx, path)
		if err != nil {
			return err
		}
		if done {
			successCount++
		} else {
			failCount++
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Println("   TRANSLATION COMPLETE")
	fmt.Printf("   Successful: %d\n", successCount)
	fmt.Printf("   Failed: %d\n", failCount)
	fmt.Printf("   Output folder: %s\n", p.config.OutputDir)
	fmt.Println(strings.Repeat("=", 60))

	p.usage.PrintSummary()
	return nil
}

// ProcessFile runs one document through the pipeline. It returns whether
// the document succeeded; the error is non-nil only for unrecoverable
// backend failures, which abort the whole batch.
func (p *Processor) ProcessFile(ctx context.Context, path string) (bool, error) {
	filename := filepath.Base(path)

	pages, err := extract.File(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n   Failed to process %s: %v\n", filename, err)
		return false, nil
	}

	totalChars := 0
	for _, page := range pages {
		totalChars += len(page.Text)
	}
	if totalChars == 0 {
		fmt.Printf("   No text extracted from %s. Skipping.\n", filename)
		return false, nil
	}

	stats := newFileStats(filename)

	// 1. Chunk
	chunks := p.chunker.Chunk(pages, filename)
	if len(chunks) == 0 {
		fmt.Printf("   No chunks created from %s. Skipping.\n", filename)
		return false, nil
	}
	stats.ChunksTotal = len(chunks)

	// 2. Store originals
	p.storeOriginals(chunks, stats)

	// 3. Translate
	results, err := p.translator.Translate(ctx, chunks, p.config.SourceLang, p.config.TargetLang, p.config.OnProgress)
	if err != nil {
		return false, err
	}
	stats.ChunksTranslated = len(results)
	stats.ChunksSkipped = stats.ChunksTotal - len(results)

	if len(results) == 0 {
		fmt.Printf("   No chunks translated for %s. Skipping save.\n", filename)
		stats.PrintSummary()
		return false, nil
	}

	// 4. Update store with translations
	p.storeTranslations(results)

	// 5. Write the output artifact
	outputPath, err := p.writeOutput(path, results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "   [ERROR] Failed to write output for %s: %v\n", filename, err)
		return false, nil
	}
	fmt.Printf("\n   Saved: %s\n", filepath.Base(outputPath))

	// 6. Commit: move the source out of the inbound location
	if err := archive.MoveToProcessed(path, p.config.ProcessedDir); err != nil {
		fmt.Fprintf(os.Stderr, "   [ERROR] Output written but source not archived: %v\n", err)
		return false, nil
	}
	fmt.Printf("   Moved original to: %s/%s\n", filepath.Base(p.config.ProcessedDir), filename)

	stats.PrintSummary()
	return true, nil
}

// storeOriginals writes chunk originals to the store. Failures are logged
// and counted; after repeated consecutive failures the breaker opens and
// the remaining writes fail fast.
func (p *Processor) storeOriginals(chunks []document.Chunk, stats *FileStats) {
	if p.config.Store == nil {
		return
	}

	for _, chunk := range chunks {
		err := p.storeChunk(chunk.ChunkID, chunk.DocID, chunk.OriginalText, chunkMetadata(chunk, ""))
		if err != nil {
			stats.ChunksStoreFailed++
			fmt.Fprintf(os.Stderr, "   [WARN] Failed to store chunk %s: %v\n", chunk.ChunkID, err)
			continue
		}
		stats.ChunksStored++
	}
}

// storeTranslations re-stores chunks with translated text in the metadata
func (p *Processor) storeTranslations(results []translation.TranslatedChunk) {
	if p.config.Store == nil {
		return
	}

	for _, r := range results {
		chunk := r.Chunk
		err := p.storeChunk(chunk.ChunkID, chunk.DocID, chunk.OriginalText, chunkMetadata(chunk, r.Text))
		if err != nil {
			fmt.Fprintf(os.Stderr, "   [WARN] Failed to update translated chunk %s: %v\n", chunk.ChunkID, err)
		}
	}
}

func (p *Processor) storeChunk(chunkID, docID, text string, metadata map[string]any) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.config.Store.Store(chunkID, docID, text, metadata)
	})
	return err
}

func chunkMetadata(chunk document.Chunk, translated string) map[string]any {
	metadata := map[string]any{
		"filename":     chunk.Filename,
		"page_start":   chunk.PageStart,
		"page_end":     chunk.PageEnd,
		"chunk_index":  chunk.ChunkIndex,
		"total_chunks": chunk.TotalChunks,
		"char_count":   chunk.CharCount,
	}
	if translated != "" {
		metadata["translated_text"] = translated
	}
	return metadata
}

// writeOutput writes the concatenated translated text as
// <stem>_translated.txt with a one-line title header. Skipped chunks are
// simply absent.
func (p *Processor) writeOutput(path string, results []translation.TranslatedChunk) (string, error) {
	if err := os.MkdirAll(p.config.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}

	content := fmt.Sprintf("# %s - Translated\n\n%s", stem, strings.Join(texts, "\n\n"))
	outputPath := filepath.Join(p.config.OutputDir, internal.SanitizeFilename(stem)+"_translated.txt")

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return outputPath, nil
}
