package processor

import (
	"fmt"
	"time"
)

// FileStats tracks per-document pipeline counters
type FileStats struct {
	Filename          string
	ChunksTotal       int
	ChunksStored      int
	ChunksStoreFailed int
	ChunksTranslated  int
	ChunksSkipped     int

	start time.Time
}

func newFileStats(filename string) *FileStats {
	return &FileStats{Filename: filename, start: time.Now()}
}

// Elapsed returns the time since the document's pipeline started
func (s *FileStats) Elapsed() time.Duration {
	return time.Since(s.start)
}

// PrintSummary prints the per-document counters
func (s *FileStats) PrintSummary() {
	fmt.Printf("\n   --- %s Stats ---\n", s.Filename)
	fmt.Printf("      Chunks total:        %d\n", s.ChunksTotal)
	fmt.Printf("      Stored in store:     %d\n", s.ChunksStored)
	if s.ChunksStoreFailed > 0 {
		fmt.Printf("      Store failures:      %d\n", s.ChunksStoreFailed)
	}
	fmt.Printf("      Translated:          %d\n", s.ChunksTranslated)
	if s.ChunksSkipped > 0 {
		fmt.Printf("      Skipped:             %d\n", s.ChunksSkipped)
	}
	fmt.Printf("      Elapsed:             %.1fs\n", s.Elapsed().Seconds())
}
