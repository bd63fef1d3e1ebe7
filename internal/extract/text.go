package extract

import (
	"fmt"
	"os"
	"path/filepath"

	"doctranslate/internal/document"
)

// Text reads a plain-text file as a single-page document
func Text(path string) ([]document.Page, error) {
	fmt.Printf("\n   Reading text from: %s\n", filepath.Base(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	fmt.Printf("   Total characters read: %d\n", len(data))
	return []document.Page{{Number: 1, Text: string(data)}}, nil
}
