package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MoveToProcessed moves a successfully translated source file out of the
// inbound location into the processed directory. This is the pipeline's
// commit point for a document.
func MoveToProcessed(path, processedDir string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("source file not found: %w", err)
	}

	if err := os.MkdirAll(processedDir, 0755); err != nil {
		return fmt.Errorf("failed to create processed directory: %w", err)
	}

	dest := filepath.Join(processedDir, filepath.Base(path))

	if err := os.Rename(path, dest); err != nil {
		// Rename fails across filesystems; fall back to copy and remove
		if err := copyFile(path, dest); err != nil {
			return fmt.Errorf("failed to move %s to processed: %w", filepath.Base(path), err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove original after copy: %w", err)
		}
	}

	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
