package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"doctranslate/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctranslate [file]",
		Short: "Document Translation Pipeline",
		Long: `doctranslate extracts text from PDF and text documents, splits it into
sentence-aware chunks, translates the chunks with the Groq API and indexes
both the original and translated text in a vector store for retrieval.

Examples:
  doctranslate                          # Process every document in the input directory
  doctranslate report.pdf               # Process a single document
  doctranslate --target-lang ja         # Translate into Japanese
  doctranslate ask "What is the refund policy?" --doc-id report.pdf`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateAskCommand creates the "ask" subcommand for question answering
// over previously indexed documents.
func CreateAskCommand(flags *Flags) *cobra.Command {
	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question about an indexed document",
		Long: `ask retrieves the most relevant chunks of an indexed document from the
vector store and answers the question from that context.

Examples:
  doctranslate ask "What were the Q3 results?" --doc-id report.pdf
  doctranslate ask "Who is the author?" --doc-id doc_a1b2c3d4 --top-k 3`,
		Args: cobra.MinimumNArgs(1),
	}

	askCmd.Flags().StringVar(&flags.DocID, "doc-id", "", "Document to search (filename or doc_... identifier)")
	askCmd.Flags().IntVar(&flags.TopK, "top-k", flags.TopK, "Number of chunks to retrieve")

	return askCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.doctranslate.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.InputDir, "input", "i", flags.InputDir, "Directory scanned for documents to process")
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Directory for translated output files")
	cmd.Flags().StringVar(&flags.ProcessedDir, "processed", flags.ProcessedDir, "Directory completed source documents are moved to")
	cmd.Flags().StringVar(&flags.SourceLang, "source-lang", flags.SourceLang, "Source language code")
	cmd.Flags().StringVar(&flags.TargetLang, "target-lang", flags.TargetLang, "Target language code")
	cmd.Flags().StringVar(&flags.Model, "model", flags.Model, "Groq model used for translation")
	cmd.Flags().IntVar(&flags.ChunkTokens, "chunk-tokens", flags.ChunkTokens, "Approximate token budget per chunk")
	cmd.Flags().IntVar(&flags.ChunkOverlap, "chunk-overlap", flags.ChunkOverlap, "Sentences carried over between adjacent chunks")
	cmd.Flags().StringVar(&flags.StoreHost, "store-host", flags.StoreHost, "Vector store host")
	cmd.Flags().IntVar(&flags.StorePort, "store-port", flags.StorePort, "Vector store port")
	cmd.Flags().BoolVar(&flags.NoStore, "no-store", false, "Skip vector store indexing entirely")
	cmd.Flags().BoolVar(&flags.ListLangs, "list-languages", false, "List supported language codes")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available Groq models for the current API key")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("input.directory", cmd.Flags().Lookup("input"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.processed_directory", cmd.Flags().Lookup("processed"))
	viper.BindPFlag("translation.source", cmd.Flags().Lookup("source-lang"))
	viper.BindPFlag("translation.target", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("chunk.target_tokens", cmd.Flags().Lookup("chunk-tokens"))
	viper.BindPFlag("chunk.overlap_sentences", cmd.Flags().Lookup("chunk-overlap"))
	viper.BindPFlag("store.host", cmd.Flags().Lookup("store-host"))
	viper.BindPFlag("store.port", cmd.Flags().Lookup("store-port"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// Load a local .env file if one exists, before anything reads the
	// environment
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".doctranslate" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".doctranslate")
	}

	// Environment variables
	viper.SetEnvPrefix("DOCTRANSLATE")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGroqKey retrieves the Groq API key from environment or config
func GetGroqKey() string {
	// First check environment variable
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translation.groq_key")
}
