package sqlite

import (
	"advisorchat-backend/internal/store"
	"advisorchat-backend/internal/store/storetest"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestStore(t)
	})
}

func TestOpenFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisorchat.db")
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))

	cs, err := s.CreateSession(context.Background(), "adv-1")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetSession(context.Background(), cs.SessionID, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, cs.ID, got.ID)
}

func TestMessagesReferenceSessions(t *testing.T) {
	s := newTestStore(t)

	type fk struct {
		Table string `gorm:"column:table"`
		From  string `gorm:"column:from"`
		To    string `gorm:"column:to"`
	}

	var sessionFKs []fk
	require.NoError(t, s.db.Raw("PRAGMA foreign_key_list(chat_sessions)").Scan(&sessionFKs).Error)
	assert.Empty(t, sessionFKs, "chat_sessions must not reference other tables")

	var messageFKs []fk
	require.NoError(t, s.db.Raw("PRAGMA foreign_key_list(chat_messages)").Scan(&messageFKs).Error)
	require.Len(t, messageFKs, 1)
	assert.Equal(t, fk{Table: "chat_sessions", From: "session_id", To: "id"}, messageFKs[0])

	var sessionIDType string
	require.NoError(t, s.db.Raw("SELECT type FROM pragma_table_info('chat_sessions') WHERE name = 'session_id'").Scan(&sessionIDType).Error)
	assert.Equal(t, "text", sessionIDType)
}

func TestPathFromURL(t *testing.T) {
	tests := []struct {
		url  string
		path string
		ok   bool
	}{
		{"sqlite://./advisorchat.db", "./advisorchat.db", true},
		{"sqlite:///./stifel.db", "./stifel.db", true},
		{"sqlite:////var/lib/advisorchat.db", "/var/lib/advisorchat.db", true},
		{"sqlite://", ":memory:", true},
		{"postgres://localhost/advisorchat", "", false},
	}
	for _, tt := range tests {
		path, ok := PathFromURL(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.path, path, tt.url)
	}
}
