package translation

import "fmt"

// UsageTracker accumulates token counts and success/skip counters across a
// translation run. It is constructed per run and passed into the driver;
// there is no global instance to reset between runs.
type UsageTracker struct {
	TotalInputTokens  int
	TotalOutputTokens int
	Translations      int
	Skipped           int
}

// NewUsageTracker creates an empty tracker
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// Add records a successful translation's token counts
func (u *UsageTracker) Add(inputTokens, outputTokens int) {
	u.TotalInputTokens += inputTokens
	u.TotalOutputTokens += outputTokens
	u.Translations++
}

// Skip records a chunk that exhausted its retries
func (u *UsageTracker) Skip() {
	u.Skipped++
}

// PrintSummary prints the accumulated usage totals
func (u *UsageTracker) PrintSummary() {
	fmt.Printf("\n   Usage Summary:\n")
	fmt.Printf("      Input tokens:  %d\n", u.TotalInputTokens)
	fmt.Printf("      Output tokens: %d\n", u.TotalOutputTokens)
	fmt.Printf("      Total tokens:  %d\n", u.TotalInputTokens+u.TotalOutputTokens)
	fmt.Printf("      Translations:  %d\n", u.Translations)
	if u.Skipped > 0 {
		fmt.Printf("      Skipped:       %d\n", u.Skipped)
	}
}
