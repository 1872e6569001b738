package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when no OpenAI key is configured
var ErrNoAPIKey = fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY or speech.openai_key in .handytools.yaml")

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. baseURL overrides the API endpoint
// when not empty.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// SpeechModels returns the sorted IDs of the text-to-speech models
func (l *Lister) SpeechModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	list, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var speech []string
	for _, model := range list.Models {
		if isSpeechModel(model.ID) {
			speech = append(speech, model.ID)
		}
	}
	sort.Strings(speech)
	return speech, nil
}

func isSpeechModel(id string) bool {
	return strings.Contains(id, "tts") || strings.Contains(id, "audio")
}

// PrintSpeechModels writes the speech models to w, marking current
func (l *Lister) PrintSpeechModels(ctx context.Context, w io.Writer, current string) error {
	speech, err := l.SpeechModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(speech) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
		return nil
	}
	for _, model := range speech {
		marker := " "
		if model == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s\n", marker, model)
	}
	return nil
}
