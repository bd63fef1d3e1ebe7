package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"doctranslate/internal/document"
)

// File extracts paginated text from a source document, dispatching on the
// file extension. Supported: .pdf and .txt.
func File(path string) ([]document.Page, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDF(path)
	case ".txt":
		return Text(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}
