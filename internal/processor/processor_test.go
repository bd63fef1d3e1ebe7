package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"doctranslate/internal/document"
	"doctranslate/internal/translation"
)

// scriptedBackend translates successfully until failAfter calls have been
// made, then returns the configured error kind forever.
type scriptedBackend struct {
	failAfter int // successful translations before failures begin; -1 = never fail
	failKind  translation.ErrorKind
	successes int
	calls     int
}

func (b *scriptedBackend) Translate(_ context.Context, req translation.Request) (*translation.Result, error) {
	b.calls++
	if b.failAfter >= 0 && b.successes >= b.failAfter {
		return nil, &translation.BackendError{Kind: b.failKind, Message: "scripted failure"}
	}
	b.successes++
	return &translation.Result{
		Text:         fmt.Sprintf("TRANSLATED-%d", b.successes),
		InputTokens:  10,
		OutputTokens: 10,
	}, nil
}

// recordingStore records store calls and can be set to fail
type recordingStore struct {
	calls    []map[string]any
	failWith error
}

func (s *recordingStore) Store(chunkID, docID, text string, metadata map[string]any) error {
	if s.failWith != nil {
		return s.failWith
	}
	record := map[string]any{"chunk_id": chunkID, "doc_id": docID, "text": text}
	for k, v := range metadata {
		record[k] = v
	}
	s.calls = append(s.calls, record)
	return nil
}

// writeInput writes a txt document of n sentences, each eight words
func writeInput(t *testing.T, dir string, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Input sentence %d holds exactly eight short words. ", i)
	}
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	return path
}

// newTestProcessor builds a processor with one-sentence chunks and no
// real-time delays
func newTestProcessor(t *testing.T, tmpDir string, backend translation.Backend, store ChunkStore) *Processor {
	t.Helper()
	p := New(Config{
		OutputDir:    filepath.Join(tmpDir, "output"),
		ProcessedDir: filepath.Join(tmpDir, "processed"),
		SourceLang:   "en",
		TargetLang:   "ko",
		Store:        store,
		Backend:      backend,
		Chunker:      &document.Chunker{TargetTokens: 12, OverlapSentences: 0},
	})
	p.Translator().BackoffBase = time.Millisecond
	p.Translator().RequestDelay = 0
	return p
}

func TestProcessFile_Success(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 2)
	backend := &scriptedBackend{failAfter: -1}
	store := &recordingStore{}

	p := newTestProcessor(t, tmpDir, backend, store)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if !done {
		t.Fatal("Expected success")
	}

	// Output artifact
	outputPath := filepath.Join(tmpDir, "output", "sample_translated.txt")
	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	text := string(content)
	if !strings.HasPrefix(text, "# sample - Translated\n\n") {
		t.Errorf("Output missing title header: %q", text[:40])
	}
	if !strings.Contains(text, "TRANSLATED-1") || !strings.Contains(text, "TRANSLATED-2") {
		t.Errorf("Output missing translated chunks: %q", text)
	}

	// Source archived
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Source file should have been moved to processed")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "processed", "sample.txt")); err != nil {
		t.Errorf("Archived source missing: %v", err)
	}

	// Store got originals then translated updates
	if len(store.calls) != 4 {
		t.Fatalf("Store called %d times, want 4 (2 originals + 2 updates)", len(store.calls))
	}
	if _, hasTranslated := store.calls[0]["translated_text"]; hasTranslated {
		t.Error("Original store call should not carry translated_text")
	}
	if store.calls[2]["translated_text"] != "TRANSLATED-1" {
		t.Errorf("Update call metadata = %v", store.calls[2])
	}
}

func TestProcessFile_PartialFailureStillSucceeds(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 2)
	// First chunk translates, second is rate limited on every attempt
	backend := &scriptedBackend{failAfter: 1, failKind: translation.KindRateLimit}

	p := newTestProcessor(t, tmpDir, backend, nil)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if !done {
		t.Fatal("Document with one translated chunk should succeed")
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, "output", "sample_translated.txt"))
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.Contains(string(content), "TRANSLATED-1") {
		t.Error("Output missing the successful chunk")
	}
	if strings.Contains(string(content), "TRANSLATED-2") {
		t.Error("Output contains text for the failed chunk")
	}

	if p.Usage().Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", p.Usage().Skipped)
	}
}

func TestProcessFile_AllTranslationsFail(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 2)
	backend := &scriptedBackend{failAfter: 0, failKind: translation.KindRateLimit}

	p := newTestProcessor(t, tmpDir, backend, nil)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("Exhausted retries must not abort the batch: %v", err)
	}
	if done {
		t.Error("Document with zero translations should fail")
	}

	// Source left untouched
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Failed document should stay in place: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "output", "sample_translated.txt")); !os.IsNotExist(err) {
		t.Error("No output should be written for a failed document")
	}
}

func TestProcessFile_FatalBackendAborts(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 2)
	backend := &scriptedBackend{failAfter: 0, failKind: translation.KindFatal}

	p := newTestProcessor(t, tmpDir, backend, nil)

	_, err := p.ProcessFile(context.Background(), path)
	if err == nil {
		t.Fatal("Fatal backend errors must propagate")
	}
}

func TestProcessFile_StoreFailuresDoNotAbort(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 2)
	backend := &scriptedBackend{failAfter: -1}
	store := &recordingStore{failWith: errors.New("store down")}

	p := newTestProcessor(t, tmpDir, backend, store)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("Store failures must not abort: %v", err)
	}
	if !done {
		t.Error("Document should succeed despite store failures")
	}
}

func TestProcessFile_EmptyDocument(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.txt")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	p := newTestProcessor(t, tmpDir, &scriptedBackend{failAfter: -1}, nil)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile errored: %v", err)
	}
	if done {
		t.Error("Empty document should fail")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Failed document should stay in place: %v", err)
	}
}

func TestProcessFile_ShortPagesOnly(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "short.txt")
	if err := os.WriteFile(path, []byte("tiny"), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	p := newTestProcessor(t, tmpDir, &scriptedBackend{failAfter: -1}, nil)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile errored: %v", err)
	}
	if done {
		t.Error("Document below the page floor should produce zero chunks and fail")
	}
}

func TestProcessAll_ContinuesPastFailedDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	good := writeInput(t, tmpDir, 2)

	bad := filepath.Join(tmpDir, "bad.txt")
	if err := os.WriteFile(bad, []byte(""), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	p := newTestProcessor(t, tmpDir, &scriptedBackend{failAfter: -1}, nil)

	if err := p.ProcessAll(context.Background(), []string{bad, good}); err != nil {
		t.Fatalf("ProcessAll failed: %v", err)
	}

	// The good document still completed after the bad one
	if _, err := os.Stat(filepath.Join(tmpDir, "output", "sample_translated.txt")); err != nil {
		t.Errorf("Good document output missing: %v", err)
	}
}

func TestStoreBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeInput(t, tmpDir, 8)
	backend := &scriptedBackend{failAfter: -1}
	store := &failCountingStore{}

	p := newTestProcessor(t, tmpDir, backend, store)

	done, err := p.ProcessFile(context.Background(), path)
	if err != nil || !done {
		t.Fatalf("ProcessFile = (%v, %v)", done, err)
	}

	// 8 original writes attempted, but the breaker opens after 5
	// consecutive failures; later writes fail fast without reaching the
	// store.
	if store.calls > 5 {
		t.Errorf("Store reached %d times; breaker should have opened after 5", store.calls)
	}
}

type failCountingStore struct {
	calls int
}

func (s *failCountingStore) Store(string, string, string, map[string]any) error {
	s.calls++
	return errors.New("store down")
}
