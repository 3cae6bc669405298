package responder

import (
	"advisorchat-backend/internal/config"
	"context"
	"fmt"
	"strings"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

const defaultMaxTokens = 1024

// NewOpenAIModel creates a chat model for any OpenAI-compatible endpoint
// (Ollama's /v1 by default).
func NewOpenAIModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	maxTokens := defaultMaxTokens
	temperature := cfg.LLMTemperature

	m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(cfg.LLMBaseURL, "/"),
		APIKey:      strings.TrimSpace(cfg.LLMAPIKey),
		Model:       strings.TrimSpace(cfg.LLMModel),
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("responder: create chat model: %w", err)
	}
	return m, nil
}
