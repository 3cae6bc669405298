package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCustomerNormalizesInput(t *testing.T) {
	svc := NewCustomerService(setupTestStore(t))
	phone := "  555-0101 "

	c, err := svc.CreateCustomer(context.Background(), models.CreateCustomerRequest{
		AdvisorID: "adv-1",
		Name:      " John Smith ",
		Email:     " John.Smith@Email.com ",
		Phone:     &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "John Smith", c.Name)
	assert.Equal(t, "john.smith@email.com", c.Email)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "555-0101", *c.Phone)
	assert.Equal(t, models.DefaultAccountStatus, c.AccountStatus)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewCustomerService(setupTestStore(t))

	tests := []struct {
		name string
		req  models.CreateCustomerRequest
	}{
		{"missing advisor", models.CreateCustomerRequest{Name: "A", Email: "a@b.c"}},
		{"missing name", models.CreateCustomerRequest{AdvisorID: "adv-1", Email: "a@b.c"}},
		{"missing email", models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "A"}},
		{"malformed email", models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "A", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateCustomerDuplicateEmailIsConflict(t *testing.T) {
	svc := NewCustomerService(setupTestStore(t))
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "A", Email: "same@email.com"})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(ctx, models.CreateCustomerRequest{AdvisorID: "adv-2", Name: "B", Email: "SAME@email.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestGetCustomerDetail(t *testing.T) {
	svc := NewCustomerService(setupTestStore(t))
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "Sarah Johnson", Email: "sarah@email.com"})
	require.NoError(t, err)

	detail, err := svc.GetCustomerDetail(ctx, c.ID, "adv-1")
	require.NoError(t, err)
	assert.Empty(t, detail.Accounts)
	assert.Zero(t, detail.TotalBalance)

	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-0001-01", AccountType: models.AccountTypeChecking, Balance: 12500.25})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-0001-02", AccountType: models.AccountTypeRetirement, Balance: 350000})
	require.NoError(t, err)

	detail, err = svc.GetCustomerDetail(ctx, c.ID, "adv-1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", detail.Name)
	require.Len(t, detail.Accounts, 2)
	assert.InDelta(t, 362500.25, detail.TotalBalance, 0.001)

	_, err = svc.GetCustomerDetail(ctx, c.ID, "adv-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAccountChecks(t *testing.T) {
	svc := NewCustomerService(setupTestStore(t))
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "Emily Davis", Email: "emily@email.com"})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-1", AccountType: "brokerage", Balance: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-1", AccountType: models.AccountTypeSavings, Balance: -5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountType: models.AccountTypeSavings, Balance: 5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateAccount(ctx, c.ID, "adv-2", models.CreateAccountRequest{AccountNumber: "ACC-1", AccountType: models.AccountTypeSavings, Balance: 5})
	assert.ErrorIs(t, err, store.ErrNotFound, "accounts cannot be opened on another advisor's customer")

	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-1", AccountType: models.AccountTypeSavings, Balance: 5})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-1", AccountType: models.AccountTypeChecking, Balance: 5})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestDeleteCustomerRemovesAccounts(t *testing.T) {
	s := setupTestStore(t)
	svc := NewCustomerService(s)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, models.CreateCustomerRequest{AdvisorID: "adv-1", Name: "Robert Wilson", Email: "robert@email.com"})
	require.NoError(t, err)
	_, err = svc.CreateAccount(ctx, c.ID, "adv-1", models.CreateAccountRequest{AccountNumber: "ACC-9", AccountType: models.AccountTypeInvestment, Balance: 50000})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID, "adv-2"), store.ErrNotFound)
	require.NoError(t, svc.DeleteCustomer(ctx, c.ID, "adv-1"))

	accounts, err := s.ListAccounts(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	list, err := svc.ListCustomers(ctx, "adv-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
