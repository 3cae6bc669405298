package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"fmt"
	"strings"
)

const (
	defaultSessionLimit = 20
	maxSessionLimit     = 100
)

// ChatService handles chat session and history business logic.
type ChatService struct {
	store store.ChatStore
}

// NewChatService creates a new ChatService.
func NewChatService(s store.ChatStore) *ChatService {
	return &ChatService{store: s}
}

// mapSessionToResponse converts a DB session model to an API response DTO.
func mapSessionToResponse(cs *models.ChatSession) models.SessionResponse {
	return models.SessionResponse{
		SessionID: cs.SessionID,
		AdvisorID: cs.AdvisorID,
		StartedAt: cs.StartedAt,
		EndedAt:   cs.EndedAt,
	}
}

func mapMessageToResponse(m *models.ChatMessage) models.MessageResponse {
	return models.MessageResponse{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		ChartData: m.ChartData,
		Timestamp: m.Timestamp,
	}
}

// CreateSession opens a new, empty session for the advisor.
func (s *ChatService) CreateSession(ctx context.Context, advisorID string) (*models.SessionResponse, error) {
	advisorID = strings.TrimSpace(advisorID)
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	cs, err := s.store.CreateSession(ctx, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session in store: %w", err)
	}

	resp := mapSessionToResponse(cs)
	return &resp, nil
}

// GetHistory returns all messages of an advisor's session in chronological order.
func (s *ChatService) GetHistory(ctx context.Context, sessionToken, advisorID string) (*models.ChatHistoryResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	cs, err := s.store.GetSession(ctx, sessionToken, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	messages, err := s.store.ListMessages(ctx, cs.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	resp := &models.ChatHistoryResponse{
		SessionID: cs.SessionID,
		Messages:  make([]models.MessageResponse, 0, len(messages)),
	}
	for i := range messages {
		resp.Messages = append(resp.Messages, mapMessageToResponse(&messages[i]))
	}
	return resp, nil
}

// RecentMessages returns at most limit of the newest messages of the session,
// oldest first. A limit of zero or less returns nothing.
func (s *ChatService) RecentMessages(ctx context.Context, sessionToken, advisorID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		return nil, nil
	}

	cs, err := s.store.GetSession(ctx, sessionToken, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	messages, err := s.store.ListMessages(ctx, cs.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

// ListSessions retrieves a page of the advisor's sessions, newest first.
func (s *ChatService) ListSessions(ctx context.Context, advisorID string, limit, offset int) (*models.ListSessionsResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	// Set reasonable defaults for limit and offset
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}
	if offset < 0 {
		offset = 0
	}

	sessions, err := s.store.ListSessionsByAdvisor(ctx, advisorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions from store: %w", err)
	}

	resp := &models.ListSessionsResponse{Sessions: make([]models.SessionResponse, 0, len(sessions))}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, mapSessionToResponse(&sessions[i]))
	}
	return resp, nil
}

// EndSession marks the session as ended. Ending it again is a no-op.
func (s *ChatService) EndSession(ctx context.Context, sessionToken, advisorID string) (*models.SessionResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	cs, err := s.store.EndSession(ctx, sessionToken, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to end chat session: %w", err)
	}

	resp := mapSessionToResponse(cs)
	return &resp, nil
}

// DeleteSession removes the session and all of its messages.
func (s *ChatService) DeleteSession(ctx context.Context, sessionToken, advisorID string) error {
	if err := requireAdvisor(advisorID); err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, sessionToken, advisorID); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

// AddMessage appends a message to the session identified by its row id.
func (s *ChatService) AddMessage(ctx context.Context, sessionRowID int64, role models.ChatRole, content string, chart models.ChartData) (*models.ChatMessage, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrValidation, models.RoleUser, models.RoleAssistant)
	}

	msg, err := s.store.AddMessage(ctx, store.AddMessageParams{
		SessionID: sessionRowID,
		Role:      role,
		Content:   content,
		ChartData: chart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add %s message: %w", role, err)
	}
	return msg, nil
}
