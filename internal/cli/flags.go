package cli

import (
	"doctranslate/internal/document"
	"doctranslate/internal/translation"
)

// Flags holds all command-line flag values
type Flags struct {
	CfgFile      string
	InputDir     string
	OutputDir    string
	ProcessedDir string
	SourceLang   string
	TargetLang   string
	Model        string
	ChunkTokens  int
	ChunkOverlap int
	StoreHost    string
	StorePort    int
	NoStore      bool
	DocID        string
	TopK         int
	ListLangs    bool
	ListModels   bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		InputDir:     "input",
		OutputDir:    "output",
		ProcessedDir: "processed",
		SourceLang:   "en",
		TargetLang:   "ko",
		Model:        translation.DefaultGroqModel,
		ChunkTokens:  document.DefaultTargetTokens,
		ChunkOverlap: document.DefaultOverlapSentences,
		StoreHost:    "127.0.0.1",
		StorePort:    8888,
		TopK:         5,
	}
}
