package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"doctranslate/internal/document"
	"doctranslate/internal/lang"
)

// Driver defaults
const (
	DefaultMaxAttempts    = 3
	DefaultBackoffBase    = time.Second
	DefaultRequestDelay   = 500 * time.Millisecond
	DefaultCallTimeout    = 60 * time.Second
	minGenerationTokens   = 256
	generationTokenFactor = 1.5
)

// TranslatedChunk pairs a chunk with its translated text
type TranslatedChunk struct {
	Chunk document.Chunk
	Text  string
}

// ProgressFunc is invoked after every chunk attempt with the number of
// chunks processed so far, the total, and the skipped count so far.
type ProgressFunc func(completed, total, skipped int)

// Translator drives sequential chunk translation through a backend,
// applying rate-limit handling, retry with exponential backoff, and usage
// accounting. Chunks that exhaust their retries are skipped, not fatal.
type Translator struct {
	backend Backend
	usage   *UsageTracker

	MaxAttempts  int
	BackoffBase  time.Duration
	RequestDelay time.Duration
	CallTimeout  time.Duration
}

// NewTranslator creates a translator around a backend and a usage tracker
func NewTranslator(backend Backend, usage *UsageTracker) *Translator {
	return &Translator{
		backend:      backend,
		usage:        usage,
		MaxAttempts:  DefaultMaxAttempts,
		BackoffBase:  DefaultBackoffBase,
		RequestDelay: DefaultRequestDelay,
		CallTimeout:  DefaultCallTimeout,
	}
}

// Translate translates chunks in order. Failed chunks are omitted from the
// result and counted as skipped. The returned error is non-nil only for
// unrecoverable failures (missing credentials, fatal API errors), which
// abort the run.
func (t *Translator) Translate(ctx context.Context, chunks []document.Chunk, sourceLang, targetLang string, onProgress ProgressFunc) ([]TranslatedChunk, error) {
	results := make([]TranslatedChunk, 0, len(chunks))

	for i, chunk := range chunks {
		if i > 0 {
			// Fixed inter-request delay, independent of retry backoff
			time.Sleep(t.RequestDelay)
		}

		fmt.Printf("   Translating chunk %d/%d...\n", i+1, len(chunks))

		text, err := t.translateChunk(ctx, chunk, sourceLang, targetLang)
		if err != nil {
			var backendErr *BackendError
			if errors.As(err, &backendErr) && backendErr.Kind != KindFatal {
				// Retries exhausted on a retryable kind: skip and move on
				t.usage.Skip()
				fmt.Printf("   [WARN] Chunk %d/%d skipped after %d attempts: %v\n",
					i+1, len(chunks), t.MaxAttempts, err)
				if onProgress != nil {
					onProgress(i+1, len(chunks), t.usage.Skipped)
				}
				continue
			}
			return nil, fmt.Errorf("translation failed on chunk %d/%d: %w", i+1, len(chunks), err)
		}

		chunk.TranslatedText = text
		results = append(results, TranslatedChunk{Chunk: chunk, Text: text})

		if onProgress != nil {
			onProgress(i+1, len(chunks), t.usage.Skipped)
		}
	}

	return results, nil
}

// translateChunk runs one chunk through the backend with retry/backoff.
// Rate-limit and transient errors are retried up to MaxAttempts total
// attempts with doubling delays; fatal errors return immediately.
func (t *Translator) translateChunk(ctx context.Context, chunk document.Chunk, sourceLang, targetLang string) (string, error) {
	req := Request{
		Prompt:    buildPrompt(chunk.OriginalText, sourceLang, targetLang),
		MaxTokens: generationBudget(chunk.OriginalText),
	}

	backoff := retry.WithMaxRetries(uint64(t.MaxAttempts-1), retry.NewExponential(t.BackoffBase))

	var result *Result
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, t.CallTimeout)
		defer cancel()

		res, err := t.backend.Translate(callCtx, req)
		if err != nil {
			var backendErr *BackendError
			if errors.As(err, &backendErr) && backendErr.Kind != KindFatal {
				return retry.RetryableError(err)
			}
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return "", err
	}

	t.usage.Add(result.InputTokens, result.OutputTokens)
	return result.Text, nil
}

// generationBudget computes the max output tokens for a chunk: 1.5x the
// estimated input, floored so short chunks are never truncated.
func generationBudget(text string) int {
	budget := int(float64(document.EstimateTokens(text)) * generationTokenFactor)
	if budget < minGenerationTokens {
		budget = minGenerationTokens
	}
	return budget
}

// buildPrompt embeds the chunk text and human-readable language names
func buildPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. "+
			"Preserve the meaning and tone. Respond with only the translation, nothing else.\n\n%s",
		lang.Name(sourceLang), lang.Name(targetLang), text)
}
