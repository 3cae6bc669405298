package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/internal/store/sqlite"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeResponder returns a fixed reply or error and records its calls.
type fakeResponder struct {
	mu    sync.Mutex
	reply Reply
	err   error
	calls []respondCall
}

type respondCall struct {
	message, advisorID, sessionToken string
}

func (f *fakeResponder) Respond(ctx context.Context, message, advisorID, sessionToken string) (Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, respondCall{message, advisorID, sessionToken})
	if f.err != nil {
		return Reply{}, f.err
	}
	return f.reply, nil
}

var errStoreDown = errors.New("store unavailable")

// failingStore rejects writes of the given role.
type failingStore struct {
	store.Store
	failRole models.ChatRole
}

func (f *failingStore) AddMessage(ctx context.Context, arg store.AddMessageParams) (*models.ChatMessage, error) {
	if arg.Role == f.failRole {
		return nil, errStoreDown
	}
	return f.Store.AddMessage(ctx, arg)
}

// cancellingResponder cancels the request context before failing, as a
// request timeout or client disconnect would while a reply is pending.
type cancellingResponder struct {
	cancel context.CancelFunc
}

func (c *cancellingResponder) Respond(ctx context.Context, message, advisorID, sessionToken string) (Reply, error) {
	c.cancel()
	<-ctx.Done()
	return Reply{}, ctx.Err()
}
