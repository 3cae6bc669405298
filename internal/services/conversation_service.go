package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// FallbackResponse replaces the assistant reply whenever the responder fails.
const FallbackResponse = "I apologize, but I encountered an error processing your request. Please try again."

// assistantPersistTimeout bounds the assistant write once the request context is gone.
const assistantPersistTimeout = 10 * time.Second

// Reply is what a Responder produces for one advisor message.
type Reply struct {
	Text      string
	ChartData models.ChartData // nil when no chart applies
}

// Responder produces the assistant half of a turn.
type Responder interface {
	Respond(ctx context.Context, message, advisorID, sessionToken string) (Reply, error)
}

// ConversationService runs one conversation turn per call.
// It keeps no state between calls; everything lives in the chat store.
type ConversationService struct {
	store     store.ChatStore
	chats     *ChatService
	responder Responder
	log       zerolog.Logger
}

// NewConversationService creates a new ConversationService.
func NewConversationService(s store.ChatStore, responder Responder) *ConversationService {
	return &ConversationService{
		store:     s,
		chats:     NewChatService(s),
		responder: responder,
		log:       logger.Component("conversation"),
	}
}

// SendMessage resolves or creates the session, records the user turn, asks the
// responder for a reply and records the assistant turn.
//
// Responder errors never reach the caller: the reply degrades to FallbackResponse
// with no chart, and that is what gets persisted, also when ctx was cancelled
// while the responder ran. Store errors abort the turn,
// possibly leaving the user message without its reply.
func (s *ConversationService) SendMessage(ctx context.Context, req models.ChatMessageRequest) (*models.ChatMessageResponse, error) {
	advisorID := strings.TrimSpace(req.AdvisorID)
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}

	session, err := s.resolveSession(ctx, req.SessionID, advisorID)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("session_id", session.SessionID).Str("advisor_id", advisorID).Logger()

	if _, err := s.chats.AddMessage(ctx, session.ID, models.RoleUser, req.Message, nil); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, req.Message, advisorID, session.SessionID)
	if err != nil {
		log.Error().Err(err).Msg("Responder failed, replying with fallback")
		reply = Reply{Text: FallbackResponse}
	}

	// The reply is recorded even if the caller timed out or went away meanwhile.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), assistantPersistTimeout)
	defer cancel()
	if _, err := s.chats.AddMessage(persistCtx, session.ID, models.RoleAssistant, reply.Text, reply.ChartData); err != nil {
		log.Error().Err(err).Msg("Assistant turn not persisted")
		return nil, err
	}

	log.Debug().Bool("chart", reply.ChartData != nil).Msg("Turn completed")
	return &models.ChatMessageResponse{
		Response:  reply.Text,
		SessionID: session.SessionID,
		ChartData: reply.ChartData,
	}, nil
}

// resolveSession reuses the advisor's session when the token matches one,
// otherwise it starts a new session.
func (s *ConversationService) resolveSession(ctx context.Context, token *string, advisorID string) (*models.ChatSession, error) {
	if token != nil && strings.TrimSpace(*token) != "" {
		session, err := s.store.GetSession(ctx, strings.TrimSpace(*token), advisorID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up chat session: %w", err)
		}
		s.log.Debug().Str("advisor_id", advisorID).Msg("Unknown session token, starting a new session")
	}

	session, err := s.store.CreateSession(ctx, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session in store: %w", err)
	}
	return session, nil
}
