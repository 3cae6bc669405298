package responder

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/services"
	"advisorchat-backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

const systemPrompt = `You are a helpful AI assistant for financial advisors at Stifel Financial Group.
You help advisors get information about their customers and provide insights.

When answering questions:
1. Be professional and concise
2. Only provide information about customers the advisor has access to
3. If you do not know an answer, say so instead of guessing`

var errEmptyReply = errors.New("model returned an empty reply")

// LLMResponder answers with a chat model, giving it the recent session history.
type LLMResponder struct {
	model        model.BaseChatModel
	history      HistorySource
	charts       *services.ChartService
	historyLimit int
	log          zerolog.Logger
}

var _ services.Responder = (*LLMResponder)(nil)

// NewLLMResponder creates a responder; history and charts may be nil.
func NewLLMResponder(cm model.BaseChatModel, history HistorySource, charts *services.ChartService, historyLimit int) *LLMResponder {
	return &LLMResponder{
		model:        cm,
		history:      history,
		charts:       charts,
		historyLimit: historyLimit,
		log:          logger.Component("responder"),
	}
}

// Respond asks the model for a reply to message within the given session.
func (r *LLMResponder) Respond(ctx context.Context, message, advisorID, sessionToken string) (services.Reply, error) {
	input := r.buildInput(ctx, message, advisorID, sessionToken)

	out, err := r.model.Generate(ctx, input)
	if err != nil {
		return services.Reply{}, fmt.Errorf("generate reply: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return services.Reply{}, errEmptyReply
	}

	return services.Reply{
		Text:      strings.TrimSpace(out.Content),
		ChartData: chartFor(r.charts, message),
	}, nil
}

func (r *LLMResponder) buildInput(ctx context.Context, message, advisorID, sessionToken string) []*schema.Message {
	input := []*schema.Message{schema.SystemMessage(systemPrompt)}

	history := r.loadHistory(ctx, advisorID, sessionToken)
	// The current message is usually already persisted as the last entry.
	if n := len(history); n > 0 && history[n-1].Role == models.RoleUser && history[n-1].Content == message {
		history = history[:n-1]
	}
	for _, m := range history {
		switch m.Role {
		case models.RoleUser:
			input = append(input, schema.UserMessage(m.Content))
		case models.RoleAssistant:
			input = append(input, schema.AssistantMessage(m.Content, nil))
		}
	}

	return append(input, schema.UserMessage(message))
}

func (r *LLMResponder) loadHistory(ctx context.Context, advisorID, sessionToken string) []models.ChatMessage {
	if r.history == nil || r.historyLimit <= 0 || sessionToken == "" {
		return nil
	}
	// One extra so the current message can be dropped without losing context.
	history, err := r.history.RecentMessages(ctx, sessionToken, advisorID, r.historyLimit+1)
	if err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionToken).Msg("Could not load chat history, answering without it")
		return nil
	}
	if len(history) > r.historyLimit+1 {
		history = history[len(history)-r.historyLimit-1:]
	}
	return history
}
