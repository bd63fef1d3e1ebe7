package models

import (
	"context"
	"fmt"
	"sort"

	"github.com/sashabaranov/go-openai"

	"doctranslate/internal/translation"
)

// Lister handles listing models available on the Groq endpoint
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = translation.GroqBaseURL

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ListAvailableModels lists the models available to the current API key
func (l *Lister) ListAvailableModels() error {
	if l.apiKey == "" {
		return fmt.Errorf("GROQ_API_KEY not found. Set the environment variable or configure translation.groq_key in .doctranslate.yaml")
	}

	ctx := context.Background()
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		ids = append(ids, model.ID)
	}
	sort.Strings(ids)

	fmt.Println("Available models:")
	for _, id := range ids {
		marker := " "
		if id == translation.DefaultGroqModel {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, id)
	}
	fmt.Println("\n  * = default translation model")

	return nil
}
