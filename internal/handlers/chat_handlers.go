package handlers

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChatService defines the session and history operations used by ChatHandlers.
type ChatService interface {
	CreateSession(ctx context.Context, advisorID string) (*models.SessionResponse, error)
	GetHistory(ctx context.Context, sessionToken, advisorID string) (*models.ChatHistoryResponse, error)
	ListSessions(ctx context.Context, advisorID string, limit, offset int) (*models.ListSessionsResponse, error)
	EndSession(ctx context.Context, sessionToken, advisorID string) (*models.SessionResponse, error)
	DeleteSession(ctx context.Context, sessionToken, advisorID string) error
}

// ConversationService runs a single conversation turn.
type ConversationService interface {
	SendMessage(ctx context.Context, req models.ChatMessageRequest) (*models.ChatMessageResponse, error)
}

// ChatHandlers handles HTTP requests related to chats.
type ChatHandlers struct {
	chatService         ChatService
	conversationService ConversationService
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService ChatService, conversationService ConversationService) *ChatHandlers {
	return &ChatHandlers{
		chatService:         chatService,
		conversationService: conversationService,
	}
}

// HandleSendMessage handles POST /api/v1/chat/message.
func (h *ChatHandlers) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer r.Body.Close()

	advisorID, ok := resolveAdvisorID(r, req.AdvisorID)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "advisor_id is required")
		return
	}
	req.AdvisorID = advisorID

	resp, err := h.conversationService.SendMessage(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, "Chat session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleCreateSession handles POST /api/v1/chat/session.
func (h *ChatHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		defer r.Body.Close()
	}

	advisorID, ok := resolveAdvisorID(r, req.AdvisorID)
	if !ok {
		httputil.RespondError(w, http.StatusBadRequest, "advisor_id is required")
		return
	}

	session, err := h.chatService.CreateSession(r.Context(), advisorID)
	if err != nil {
		respondServiceError(w, r, err, "Chat session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, session)
}

// HandleGetHistory handles GET /api/v1/chat/history/{sessionID}?advisor_id=
func (h *ChatHandlers) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	history, err := h.chatService.GetHistory(r.Context(), chi.URLParam(r, "sessionID"), advisorID)
	if err != nil {
		respondServiceError(w, r, err, "Session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, history)
}

// HandleListSessions handles GET /api/v1/chat/sessions?advisor_id=&limit=&offset=
func (h *ChatHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	sessions, err := h.chatService.ListSessions(r.Context(), advisorID, intQuery(r, "limit", 0), intQuery(r, "offset", 0))
	if err != nil {
		respondServiceError(w, r, err, "Session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sessions)
}

// HandleEndSession handles POST /api/v1/chat/session/{sessionID}/end?advisor_id=
func (h *ChatHandlers) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	session, err := h.chatService.EndSession(r.Context(), chi.URLParam(r, "sessionID"), advisorID)
	if err != nil {
		respondServiceError(w, r, err, "Session not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// HandleDeleteSession handles DELETE /api/v1/chat/session/{sessionID}?advisor_id=
func (h *ChatHandlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	advisorID, ok := queryAdvisorID(w, r)
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(r.Context(), chi.URLParam(r, "sessionID"), advisorID); err != nil {
		respondServiceError(w, r, err, "Session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
