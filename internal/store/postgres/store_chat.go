package postgres

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// --- Chat Session Methods ---

const sessionColumns = `id, session_id, advisor_id, started_at, ended_at`

func scanSession(row pgx.Row, cs *models.ChatSession) error {
	return row.Scan(&cs.ID, &cs.SessionID, &cs.AdvisorID, &cs.StartedAt, &cs.EndedAt)
}

// CreateSession persists a session with a freshly generated opaque token.
func (s *PostgresStore) CreateSession(ctx context.Context, advisorID string) (*models.ChatSession, error) {
	query := `
        INSERT INTO chat_sessions (session_id, advisor_id)
        VALUES ($1, $2)
        RETURNING ` + sessionColumns

	cs := &models.ChatSession{}
	if err := scanSession(s.db.QueryRow(ctx, query, uuid.NewString(), advisorID), cs); err != nil {
		s.log.Error().Err(err).Str("advisor_id", advisorID).Msg("CreateSession: failed insert")
		return nil, fmt.Errorf("database error creating chat session: %w", err)
	}

	s.log.Info().Str("session_id", cs.SessionID).Str("advisor_id", advisorID).Msg("CreateSession: inserted")
	return cs, nil
}

// GetSession retrieves a session by token, only if it belongs to the advisor.
func (s *PostgresStore) GetSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + `
        FROM chat_sessions
        WHERE session_id = $1 AND advisor_id = $2`

	cs := &models.ChatSession{}
	if err := scanSession(s.db.QueryRow(ctx, query, sessionToken, advisorID), cs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching chat session: %w", err)
	}
	return cs, nil
}

// ListSessionsByAdvisor returns the advisor's sessions, newest first.
func (s *PostgresStore) ListSessionsByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]models.ChatSession, error) {
	query := `SELECT ` + sessionColumns + `
        FROM chat_sessions
        WHERE advisor_id = $1
        ORDER BY started_at DESC, id DESC
        LIMIT $2 OFFSET $3`

	rows, err := s.db.Query(ctx, query, advisorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("database error listing chat sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var cs models.ChatSession
		if err := scanSession(rows, &cs); err != nil {
			return nil, fmt.Errorf("error scanning chat session row: %w", err)
		}
		sessions = append(sessions, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat session rows: %w", err)
	}
	return sessions, nil
}

// EndSession stamps ended_at once; ending an ended session keeps the first timestamp.
func (s *PostgresStore) EndSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error) {
	query := `
        UPDATE chat_sessions
        SET ended_at = COALESCE(ended_at, NOW())
        WHERE session_id = $1 AND advisor_id = $2
        RETURNING ` + sessionColumns

	cs := &models.ChatSession{}
	if err := scanSession(s.db.QueryRow(ctx, query, sessionToken, advisorID), cs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error ending chat session: %w", err)
	}
	return cs, nil
}

// DeleteSession removes the session; messages go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionToken string, advisorID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM chat_sessions WHERE session_id = $1 AND advisor_id = $2`, sessionToken, advisorID)
	if err != nil {
		return fmt.Errorf("error executing delete chat session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Chat Message Methods ---

const messageColumns = `id, session_id, role, content, chart_data, timestamp`

func scanMessage(row pgx.Row, m *models.ChatMessage) error {
	var chart []byte
	if err := row.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &chart, &m.Timestamp); err != nil {
		return err
	}
	if len(chart) > 0 {
		if err := json.Unmarshal(chart, &m.ChartData); err != nil {
			return fmt.Errorf("failed to parse chart data: %w", err)
		}
	}
	return nil
}

// AddMessage appends a message stamped with the current time.
// Returns store.ErrNotFound if the session row does not exist.
func (s *PostgresStore) AddMessage(ctx context.Context, arg store.AddMessageParams) (*models.ChatMessage, error) {
	var chart []byte
	if arg.ChartData != nil {
		var err error
		if chart, err = json.Marshal(arg.ChartData); err != nil {
			return nil, fmt.Errorf("failed to marshal chart data: %w", err)
		}
	}

	query := `
        INSERT INTO chat_messages (session_id, role, content, chart_data)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + messageColumns

	m := &models.ChatMessage{}
	if err := scanMessage(s.db.QueryRow(ctx, query, arg.SessionID, string(arg.Role), arg.Content, chart), m); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return nil, fmt.Errorf("chat session %d: %w", arg.SessionID, store.ErrNotFound)
		}
		s.log.Error().Err(err).Int64("session_row_id", arg.SessionID).Msg("AddMessage: failed insert")
		return nil, fmt.Errorf("database error adding chat message: %w", err)
	}
	return m, nil
}

// ListMessages returns a session's messages in ascending (timestamp, id) order.
func (s *PostgresStore) ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	query := `SELECT ` + messageColumns + `
        FROM chat_messages
        WHERE session_id = $1
        ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("database error listing chat messages: %w", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		if err := scanMessage(rows, &m); err != nil {
			return nil, fmt.Errorf("error scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}
	return messages, nil
}
