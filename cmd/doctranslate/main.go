package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"doctranslate/internal/cli"
	"doctranslate/internal/document"
	"doctranslate/internal/lang"
	"doctranslate/internal/models"
	"doctranslate/internal/processor"
	"doctranslate/internal/rag"
	"doctranslate/internal/store"
	"doctranslate/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	askCmd := cli.CreateAskCommand(flags)
	rootCmd.AddCommand(askCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	askCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	// Handle --list-languages flag
	if flags.ListLangs {
		lang.PrintSupported()
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetGroqKey())
		return lister.ListAvailableModels()
	}

	if err := validateLanguages(flags); err != nil {
		return err
	}

	// Collect input files
	files, err := collectInputFiles(args, flags)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No documents found in %s (looking for *.pdf and *.txt)\n", flags.InputDir)
		return nil
	}

	if err := ensureDirectories(flags); err != nil {
		return err
	}

	// Probe the vector store once per run. An unreachable store downgrades
	// the run to translation-only instead of failing it.
	var chunkStore processor.ChunkStore
	if flags.NoStore {
		fmt.Println("Vector store indexing disabled (--no-store)")
	} else {
		client := store.NewClient(flags.StoreHost, flags.StorePort)
		if client.IsAlive() {
			chunkStore = client
		} else {
			fmt.Fprintf(os.Stderr, "Warning: vector store at %s:%d is unreachable, continuing without indexing\n",
				flags.StoreHost, flags.StorePort)
		}
	}

	backend := translation.NewGroqBackend(cli.GetGroqKey(), flags.Model)

	proc := processor.New(processor.Config{
		OutputDir:    flags.OutputDir,
		ProcessedDir: flags.ProcessedDir,
		SourceLang:   flags.SourceLang,
		TargetLang:   flags.TargetLang,
		Store:        chunkStore,
		Backend:      backend,
		Chunker: &document.Chunker{
			TargetTokens:     flags.ChunkTokens,
			OverlapSentences: flags.ChunkOverlap,
		},
	})

	return proc.ProcessAll(context.Background(), files)
}

func runAsk(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("question must not be empty")
	}

	// Accept either a raw doc_... identifier or the original filename
	docID := flags.DocID
	if docID != "" && !strings.HasPrefix(docID, "doc_") {
		docID = document.GenerateDocID(filepath.Base(docID))
	}

	client := store.NewClient(flags.StoreHost, flags.StorePort)
	if !client.IsAlive() {
		return fmt.Errorf("vector store at %s:%d is unreachable", flags.StoreHost, flags.StorePort)
	}

	backend := translation.NewGroqBackend(cli.GetGroqKey(), flags.Model)

	answer, pages, err := rag.Answer(context.Background(), client, backend, query, docID, flags.TopK)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	if len(pages) > 0 {
		fmt.Printf("\nSource pages: %s\n", formatPages(pages))
	}
	return nil
}

func formatPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}

func validateLanguages(flags *cli.Flags) error {
	if !lang.IsSupported(flags.SourceLang) {
		return fmt.Errorf("unsupported source language %q (use --list-languages)", flags.SourceLang)
	}
	if !lang.IsSupported(flags.TargetLang) {
		return fmt.Errorf("unsupported target language %q (use --list-languages)", flags.TargetLang)
	}
	if flags.SourceLang == flags.TargetLang {
		return fmt.Errorf("source and target language are both %q", flags.SourceLang)
	}
	return nil
}

func collectInputFiles(args []string, flags *cli.Flags) ([]string, error) {
	// A positional argument names a single document to process
	if len(args) > 0 {
		if _, err := os.Stat(args[0]); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", args[0], err)
		}
		return []string{args[0]}, nil
	}

	var files []string
	for _, pattern := range []string{"*.pdf", "*.txt"} {
		matches, err := filepath.Glob(filepath.Join(flags.InputDir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", flags.InputDir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func ensureDirectories(flags *cli.Flags) error {
	for _, dir := range []string{flags.InputDir, flags.OutputDir, flags.ProcessedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
