package translation

import (
	"context"
	"strings"
	"testing"
	"time"

	"doctranslate/internal/document"
)

// mockBackend replays a scripted sequence of outcomes, one per call
type mockBackend struct {
	script  []func(req Request) (*Result, error)
	calls   int
	prompts []string
}

func (m *mockBackend) Translate(_ context.Context, req Request) (*Result, error) {
	m.prompts = append(m.prompts, req.Prompt)
	step := m.calls
	if step >= len(m.script) {
		step = len(m.script) - 1
	}
	m.calls++
	return m.script[step](req)
}

func ok(text string) func(Request) (*Result, error) {
	return func(Request) (*Result, error) {
		return &Result{Text: text, InputTokens: 10, OutputTokens: 12}, nil
	}
}

func fail(kind ErrorKind) func(Request) (*Result, error) {
	return func(Request) (*Result, error) {
		return nil, &BackendError{Kind: kind, Message: "scripted failure"}
	}
}

// fastTranslator removes the real-time delays for tests
func fastTranslator(backend Backend, usage *UsageTracker) *Translator {
	tr := NewTranslator(backend, usage)
	tr.BackoffBase = time.Millisecond
	tr.RequestDelay = 0
	return tr
}

func makeChunks(n int) []document.Chunk {
	chunks := make([]document.Chunk, n)
	for i := range chunks {
		chunks[i] = document.Chunk{
			ChunkID:      document.GenerateDocID("t.pdf") + "_chunk_0000",
			ChunkIndex:   i,
			TotalChunks:  n,
			OriginalText: "Some source text to translate.",
		}
	}
	return chunks
}

func TestTranslate_AllSucceed(t *testing.T) {
	backend := &mockBackend{script: []func(Request) (*Result, error){ok("translated")}}
	usage := NewUsageTracker()
	tr := fastTranslator(backend, usage)

	var progress [][3]int
	results, err := tr.Translate(context.Background(), makeChunks(2), "en", "ko",
		func(completed, total, skipped int) {
			progress = append(progress, [3]int{completed, total, skipped})
		})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Text != "translated" {
			t.Errorf("Result %d text = %q", i, r.Text)
		}
		if r.Chunk.TranslatedText != "translated" {
			t.Errorf("Result %d chunk missing translated text", i)
		}
		if r.Chunk.ChunkIndex != i {
			t.Errorf("Result %d out of order: index %d", i, r.Chunk.ChunkIndex)
		}
	}

	if usage.Translations != 2 || usage.TotalInputTokens != 20 || usage.TotalOutputTokens != 24 {
		t.Errorf("Usage not accumulated: %+v", usage)
	}

	want := [][3]int{{1, 2, 0}, {2, 2, 0}}
	if len(progress) != len(want) {
		t.Fatalf("Progress called %d times, want %d", len(progress), len(want))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("Progress %d = %v, want %v", i, progress[i], want[i])
		}
	}
}

func TestTranslate_SkipsExhaustedChunk(t *testing.T) {
	// First chunk succeeds; every later call is rate limited
	backend := &mockBackend{script: []func(Request) (*Result, error){
		ok("first chunk out"),
		fail(KindRateLimit),
	}}
	usage := NewUsageTracker()
	tr := fastTranslator(backend, usage)

	var last [3]int
	results, err := tr.Translate(context.Background(), makeChunks(2), "en", "ko",
		func(completed, total, skipped int) {
			last = [3]int{completed, total, skipped}
		})
	if err != nil {
		t.Fatalf("Translate should not fail on an exhausted chunk: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Text != "first chunk out" {
		t.Errorf("Result text = %q", results[0].Text)
	}
	if usage.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", usage.Skipped)
	}
	if last != [3]int{2, 2, 1} {
		t.Errorf("Final progress = %v, want [2 2 1]", last)
	}

	// 1 call for chunk 1, then DefaultMaxAttempts for chunk 2
	if backend.calls != 1+DefaultMaxAttempts {
		t.Errorf("Backend called %d times, want %d", backend.calls, 1+DefaultMaxAttempts)
	}
}

func TestTranslate_TransientThenSuccess(t *testing.T) {
	backend := &mockBackend{script: []func(Request) (*Result, error){
		fail(KindTransient),
		ok("recovered"),
	}}
	usage := NewUsageTracker()
	tr := fastTranslator(backend, usage)

	results, err := tr.Translate(context.Background(), makeChunks(1), "en", "de", nil)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(results) != 1 || results[0].Text != "recovered" {
		t.Fatalf("Expected recovered result, got %+v", results)
	}
	if backend.calls != 2 {
		t.Errorf("Backend called %d times, want 2", backend.calls)
	}
	if usage.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", usage.Skipped)
	}
}

func TestTranslate_FatalAborts(t *testing.T) {
	backend := &mockBackend{script: []func(Request) (*Result, error){fail(KindFatal)}}
	tr := fastTranslator(backend, NewUsageTracker())

	_, err := tr.Translate(context.Background(), makeChunks(3), "en", "fr", nil)
	if err == nil {
		t.Fatal("Expected error for fatal backend failure")
	}
	if backend.calls != 1 {
		t.Errorf("Fatal errors must not be retried: %d calls", backend.calls)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("Hello world.", "en", "ko")

	if !strings.Contains(prompt, "English") {
		t.Error("Prompt missing source language name")
	}
	if !strings.Contains(prompt, "Korean") {
		t.Error("Prompt missing target language name")
	}
	if !strings.Contains(prompt, "Hello world.") {
		t.Error("Prompt missing chunk text")
	}
}

func TestGenerationBudget(t *testing.T) {
	// Short text hits the floor
	if got := generationBudget("a few words here"); got != minGenerationTokens {
		t.Errorf("Budget for short text = %d, want %d", got, minGenerationTokens)
	}

	// 600 words -> 800 estimated tokens -> 1200 budget
	long := strings.Repeat("word ", 600)
	if got := generationBudget(long); got != 1200 {
		t.Errorf("Budget for long text = %d, want 1200", got)
	}
}
