package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"doctranslate/internal/document"
)

// PDF extracts text from a PDF page by page. Pages that fail to decode
// contribute an empty page rather than aborting the document; pages with
// very little text are reported as likely image-based or scanned.
func PDF(path string) ([]document.Page, error) {
	fmt.Printf("\n   Extracting text from: %s\n", filepath.Base(path))

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]document.Page, 0, totalPages)
	var emptyPages []int

	for i := 1; i <= totalPages; i++ {
		text := ""
		page := reader.Page(i)
		if !page.V.IsNull() {
			content, err := page.GetPlainText(nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "   [WARN] Page %d: %v\n", i, err)
			} else {
				text = content
			}
		}

		pages = append(pages, document.Page{Number: i, Text: text})
		if len(strings.TrimSpace(text)) < 50 {
			emptyPages = append(emptyPages, i)
		}
		fmt.Printf("   Page %d/%d extracted\n", i, totalPages)
	}

	if len(emptyPages) > 0 {
		fmt.Printf("\n   Empty pages: %v (may be image-based or scanned)\n", emptyPages)
	}

	totalChars := 0
	for _, p := range pages {
		totalChars += len(p.Text)
	}
	fmt.Printf("   Total characters extracted: %d\n", totalChars)

	return pages, nil
}
