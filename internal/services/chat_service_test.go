package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatHistoryScenario(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewChatService(s)

	session, err := svc.CreateSession(ctx, "adv-1")
	require.NoError(t, err)

	history, err := svc.GetHistory(ctx, session.SessionID, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, history.SessionID)
	assert.Empty(t, history.Messages)

	cs, err := s.GetSession(ctx, session.SessionID, "adv-1")
	require.NoError(t, err)
	m1, err := svc.AddMessage(ctx, cs.ID, models.RoleUser, "What is my balance?", nil)
	require.NoError(t, err)
	m2, err := svc.AddMessage(ctx, cs.ID, models.RoleAssistant, "$125,000", nil)
	require.NoError(t, err)

	history, err = svc.GetHistory(ctx, session.SessionID, "adv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, m1.ID, history.Messages[0].ID)
	assert.Equal(t, m2.ID, history.Messages[1].ID)
	assert.Nil(t, history.Messages[1].ChartData)

	_, err = svc.GetHistory(ctx, session.SessionID, "adv-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddMessageRejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewChatService(s)

	cs, err := s.CreateSession(ctx, "adv-1")
	require.NoError(t, err)

	_, err = svc.AddMessage(ctx, cs.ID, models.ChatRole("system"), "hidden", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddMessage(ctx, cs.ID+100, models.RoleUser, "orphan", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecentMessages(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewChatService(s)

	cs, err := s.CreateSession(ctx, "adv-1")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := svc.AddMessage(ctx, cs.ID, models.RoleUser, fmt.Sprintf("m%d", i), nil)
		require.NoError(t, err)
	}

	msgs, err := svc.RecentMessages(ctx, cs.SessionID, "adv-1", 2)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m3", msgs[0].Content)
	assert.Equal(t, "m4", msgs[1].Content)

	msgs, err = svc.RecentMessages(ctx, cs.SessionID, "adv-1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = svc.RecentMessages(ctx, cs.SessionID, "adv-2", 2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionManagement(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewChatService(s)

	var tokens []string
	for i := 0; i < 3; i++ {
		cs, err := svc.CreateSession(ctx, "adv-1")
		require.NoError(t, err)
		tokens = append(tokens, cs.SessionID)
	}

	list, err := svc.ListSessions(ctx, "adv-1", 0, -1)
	require.NoError(t, err)
	assert.Len(t, list.Sessions, 3)

	ended, err := svc.EndSession(ctx, tokens[0], "adv-1")
	require.NoError(t, err)
	assert.NotNil(t, ended.EndedAt)

	_, err = svc.EndSession(ctx, tokens[0], "adv-2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.DeleteSession(ctx, tokens[1], "adv-1"))
	_, err = svc.GetHistory(ctx, tokens[1], "adv-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err = svc.ListSessions(ctx, "adv-1", 1000, 0)
	require.NoError(t, err)
	assert.Len(t, list.Sessions, 2)

	_, err = svc.CreateSession(ctx, " ")
	assert.ErrorIs(t, err, ErrValidation)
}
