// Package storetest holds behaviour checks every store.Store backend must pass.
package storetest

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store for a single test.
type Factory func(t *testing.T) store.Store

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"CustomerAdvisorScoping", testCustomerAdvisorScoping},
		{"CustomerDuplicateEmail", testCustomerDuplicateEmail},
		{"ListCustomersEmpty", testListCustomersEmpty},
		{"TotalBalance", testTotalBalance},
		{"AccountConstraints", testAccountConstraints},
		{"DeleteCustomerCascades", testDeleteCustomerCascades},
		{"SessionLifecycle", testSessionLifecycle},
		{"SessionAdvisorScoping", testSessionAdvisorScoping},
		{"MessagesOrdered", testMessagesOrdered},
		{"AddMessageUnknownSession", testAddMessageUnknownSession},
		{"DeleteSessionCascades", testDeleteSessionCascades},
		{"ListSessionsPaging", testListSessionsPaging},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, newStore(t))
		})
	}
}

// uniqueEmail keeps suites runnable against a shared database.
func uniqueEmail(local string) string {
	return fmt.Sprintf("%s+%s@example.com", local, uuid.NewString()[:8])
}

func uniqueAdvisor(name string) string {
	return name + "-" + uuid.NewString()[:8]
}

func mustCreateCustomer(t *testing.T, s store.Store, advisorID, name string) *models.Customer {
	t.Helper()
	c, err := s.CreateCustomer(context.Background(), store.CreateCustomerParams{
		AdvisorID: advisorID,
		Name:      name,
		Email:     uniqueEmail(name),
	})
	require.NoError(t, err)
	return c
}

func mustCreateAccount(t *testing.T, s store.Store, customerID int64, typ models.AccountType, balance string) *models.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), store.CreateAccountParams{
		CustomerID:    customerID,
		AccountNumber: "ACC-" + uuid.NewString()[:12],
		AccountType:   typ,
		Balance:       decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return a
}

func testCustomerAdvisorScoping(t *testing.T, s store.Store) {
	ctx := context.Background()
	adv1, adv2 := uniqueAdvisor("adv-1"), uniqueAdvisor("adv-2")
	c1 := mustCreateCustomer(t, s, adv1, "john")
	c2 := mustCreateCustomer(t, s, adv2, "sarah")

	got, err := s.GetCustomerByID(ctx, c1.ID, adv1)
	require.NoError(t, err)
	assert.Equal(t, c1.Email, got.Email)
	assert.Equal(t, models.DefaultAccountStatus, got.AccountStatus)

	_, err = s.GetCustomerByID(ctx, c1.ID, c2.AdvisorID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetCustomerByID(ctx, c2.ID+1000000, adv2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	list, err := s.ListCustomersByAdvisor(ctx, adv1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c1.ID, list[0].ID)
}

func testCustomerDuplicateEmail(t *testing.T, s store.Store) {
	ctx := context.Background()
	email := uniqueEmail("dup")
	phone := "555-0101"

	_, err := s.CreateCustomer(ctx, store.CreateCustomerParams{AdvisorID: "adv-1", Name: "First", Email: email, Phone: &phone})
	require.NoError(t, err)

	_, err = s.CreateCustomer(ctx, store.CreateCustomerParams{AdvisorID: "adv-2", Name: "Second", Email: email})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func testListCustomersEmpty(t *testing.T, s store.Store) {
	list, err := s.ListCustomersByAdvisor(context.Background(), uniqueAdvisor("nobody"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testTotalBalance(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := mustCreateCustomer(t, s, uniqueAdvisor("adv"), "balance")

	total, err := s.TotalBalance(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "expected zero, got %s", total)

	mustCreateAccount(t, s, c.ID, models.AccountTypeChecking, "12500.10")
	mustCreateAccount(t, s, c.ID, models.AccountTypeSavings, "45000.20")
	mustCreateAccount(t, s, c.ID, models.AccountTypeRetirement, "0.30")

	total, err = s.TotalBalance(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("57500.60").Equal(total), "got %s", total)

	accounts, err := s.ListAccounts(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	sum := decimal.Zero
	for _, a := range accounts {
		assert.Equal(t, c.ID, a.CustomerID)
		sum = sum.Add(a.Balance)
	}
	assert.True(t, sum.Equal(total))
}

func testAccountConstraints(t *testing.T, s store.Store) {
	ctx := context.Background()
	c := mustCreateCustomer(t, s, uniqueAdvisor("adv"), "constraints")
	a := mustCreateAccount(t, s, c.ID, models.AccountTypeInvestment, "100")

	_, err := s.CreateAccount(ctx, store.CreateAccountParams{
		CustomerID:    c.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   models.AccountTypeSavings,
		Balance:       decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.CreateAccount(ctx, store.CreateAccountParams{
		CustomerID:    c.ID + 1000000,
		AccountNumber: "ACC-" + uuid.NewString()[:12],
		AccountType:   models.AccountTypeSavings,
		Balance:       decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteCustomerCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	adv := uniqueAdvisor("adv")
	c := mustCreateCustomer(t, s, adv, "cascade")
	mustCreateAccount(t, s, c.ID, models.AccountTypeChecking, "10")
	mustCreateAccount(t, s, c.ID, models.AccountTypeSavings, "20")

	assert.ErrorIs(t, s.DeleteCustomer(ctx, c.ID, uniqueAdvisor("other")), store.ErrNotFound)

	require.NoError(t, s.DeleteCustomer(ctx, c.ID, adv))

	_, err := s.GetCustomerByID(ctx, c.ID, adv)
	assert.ErrorIs(t, err, store.ErrNotFound)

	accounts, err := s.ListAccounts(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts, "accounts must not outlive their customer")

	assert.ErrorIs(t, s.DeleteCustomer(ctx, c.ID, adv), store.ErrNotFound)
}

func testSessionLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	adv := uniqueAdvisor("adv-1")

	cs, err := s.CreateSession(ctx, adv)
	require.NoError(t, err)
	assert.NotEmpty(t, cs.SessionID)
	assert.Equal(t, adv, cs.AdvisorID)
	assert.Nil(t, cs.EndedAt)

	got, err := s.GetSession(ctx, cs.SessionID, adv)
	require.NoError(t, err)
	assert.Equal(t, cs.ID, got.ID)

	msgs, err := s.ListMessages(ctx, got.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	ended, err := s.EndSession(ctx, cs.SessionID, adv)
	require.NoError(t, err)
	require.NotNil(t, ended.EndedAt)

	again, err := s.EndSession(ctx, cs.SessionID, adv)
	require.NoError(t, err)
	require.NotNil(t, again.EndedAt)
	assert.True(t, ended.EndedAt.Equal(*again.EndedAt), "ending twice keeps the first timestamp")

	other, err := s.CreateSession(ctx, adv)
	require.NoError(t, err)
	assert.NotEqual(t, cs.SessionID, other.SessionID)
}

func testSessionAdvisorScoping(t *testing.T, s store.Store) {
	ctx := context.Background()
	cs, err := s.CreateSession(ctx, uniqueAdvisor("adv-1"))
	require.NoError(t, err)

	other := uniqueAdvisor("adv-2")
	_, err = s.GetSession(ctx, cs.SessionID, other)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.EndSession(ctx, cs.SessionID, other)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSession(ctx, cs.SessionID, other), store.ErrNotFound)

	_, err = s.GetSession(ctx, uuid.NewString(), cs.AdvisorID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testMessagesOrdered(t *testing.T, s store.Store) {
	ctx := context.Background()
	cs, err := s.CreateSession(ctx, uniqueAdvisor("adv-1"))
	require.NoError(t, err)

	m1, err := s.AddMessage(ctx, store.AddMessageParams{SessionID: cs.ID, Role: models.RoleUser, Content: "What is my balance?"})
	require.NoError(t, err)
	m2, err := s.AddMessage(ctx, store.AddMessageParams{SessionID: cs.ID, Role: models.RoleAssistant, Content: "$125,000"})
	require.NoError(t, err)
	chart := models.ChartData{"chartType": "pie", "data": map[string]any{"labels": []any{"Stocks", "Bonds"}}}
	m3, err := s.AddMessage(ctx, store.AddMessageParams{SessionID: cs.ID, Role: models.RoleAssistant, Content: "chart", ChartData: chart})
	require.NoError(t, err)

	assert.False(t, m1.Timestamp.IsZero())
	assert.Nil(t, m2.ChartData)

	msgs, err := s.ListMessages(ctx, cs.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []int64{m1.ID, m2.ID, m3.ID}, []int64{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is my balance?", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "$125,000", msgs[1].Content)
	assert.Nil(t, msgs[1].ChartData)
	require.NotNil(t, msgs[2].ChartData)
	assert.Equal(t, "pie", msgs[2].ChartData["chartType"])
	for i := 1; i < len(msgs); i++ {
		assert.False(t, msgs[i].Timestamp.Before(msgs[i-1].Timestamp))
	}
}

func testAddMessageUnknownSession(t *testing.T, s store.Store) {
	_, err := s.AddMessage(context.Background(), store.AddMessageParams{SessionID: 987654321, Role: models.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteSessionCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	adv := uniqueAdvisor("adv")
	cs, err := s.CreateSession(ctx, adv)
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, store.AddMessageParams{SessionID: cs.ID, Role: models.RoleUser, Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSession(ctx, cs.SessionID, adv))

	_, err = s.GetSession(ctx, cs.SessionID, adv)
	assert.ErrorIs(t, err, store.ErrNotFound)
	msgs, err := s.ListMessages(ctx, cs.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func testListSessionsPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	adv := uniqueAdvisor("adv")
	var tokens []string
	for i := 0; i < 3; i++ {
		cs, err := s.CreateSession(ctx, adv)
		require.NoError(t, err)
		tokens = append(tokens, cs.SessionID)
	}
	_, err := s.CreateSession(ctx, uniqueAdvisor("someone-else"))
	require.NoError(t, err)

	page, err := s.ListSessionsByAdvisor(ctx, adv, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, tokens[2], page[0].SessionID, "newest first")

	rest, err := s.ListSessionsByAdvisor(ctx, adv, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, tokens[0], rest[0].SessionID)
}
