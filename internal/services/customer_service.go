package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerService handles customer and account business logic.
type CustomerService struct {
	store store.CustomerStore
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(s store.CustomerStore) *CustomerService {
	return &CustomerService{store: s}
}

func mapCustomerToResponse(c *models.Customer) models.CustomerResponse {
	return models.CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		AccountStatus: c.AccountStatus,
	}
}

func mapAccountToResponse(a *models.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Balance:       a.Balance.InexactFloat64(),
	}
}

func requireAdvisor(advisorID string) error {
	if strings.TrimSpace(advisorID) == "" {
		return fmt.Errorf("%w: advisor_id is required", ErrValidation)
	}
	return nil
}

// ListCustomers returns every customer owned by the advisor.
func (s *CustomerService) ListCustomers(ctx context.Context, advisorID string) ([]models.CustomerResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	customers, err := s.store.ListCustomersByAdvisor(ctx, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers from store: %w", err)
	}

	resp := make([]models.CustomerResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, mapCustomerToResponse(&customers[i]))
	}
	return resp, nil
}

// GetCustomerDetail returns the customer with its accounts and total balance.
// Customers of other advisors are reported as store.ErrNotFound.
func (s *CustomerService) GetCustomerDetail(ctx context.Context, customerID int64, advisorID string) (*models.CustomerDetailResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	customer, err := s.store.GetCustomerByID(ctx, customerID, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	accounts, err := s.store.ListAccounts(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for customer %d: %w", customerID, err)
	}

	total, err := s.store.TotalBalance(ctx, customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to total balances for customer %d: %w", customerID, err)
	}

	resp := &models.CustomerDetailResponse{
		CustomerResponse: mapCustomerToResponse(customer),
		Accounts:         make([]models.AccountResponse, 0, len(accounts)),
		TotalBalance:     total.InexactFloat64(),
	}
	for i := range accounts {
		resp.Accounts = append(resp.Accounts, mapAccountToResponse(&accounts[i]))
	}
	return resp, nil
}

// CreateCustomer validates and stores a new customer.
// A duplicate email surfaces as store.ErrConflict.
func (s *CustomerService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (*models.CustomerResponse, error) {
	advisorID := strings.TrimSpace(req.AdvisorID)
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}

	var phone *string
	if req.Phone != nil {
		if p := strings.TrimSpace(*req.Phone); p != "" {
			phone = &p
		}
	}

	customer, err := s.store.CreateCustomer(ctx, store.CreateCustomerParams{
		AdvisorID: advisorID,
		Name:      name,
		Email:     email,
		Phone:     phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer in store: %w", err)
	}

	resp := mapCustomerToResponse(customer)
	return &resp, nil
}

// DeleteCustomer removes the customer together with its accounts.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID int64, advisorID string) error {
	if err := requireAdvisor(advisorID); err != nil {
		return err
	}
	if err := s.store.DeleteCustomer(ctx, customerID, advisorID); err != nil {
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}
	return nil
}

// CreateAccount opens an account for a customer the advisor owns.
func (s *CustomerService) CreateAccount(ctx context.Context, customerID int64, advisorID string, req models.CreateAccountRequest) (*models.AccountResponse, error) {
	if err := requireAdvisor(advisorID); err != nil {
		return nil, err
	}

	number := strings.TrimSpace(req.AccountNumber)
	if number == "" {
		return nil, fmt.Errorf("%w: account_number is required", ErrValidation)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: account_type must be one of %v", ErrValidation, models.AccountTypes)
	}
	balance := decimal.NewFromFloat(req.Balance).Round(2)
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance cannot be negative", ErrValidation)
	}

	// Ownership check; the store itself is not advisor-aware for accounts.
	if _, err := s.store.GetCustomerByID(ctx, customerID, advisorID); err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	account, err := s.store.CreateAccount(ctx, store.CreateAccountParams{
		CustomerID:    customerID,
		AccountNumber: number,
		AccountType:   req.AccountType,
		Balance:       balance,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account in store: %w", err)
	}

	resp := mapAccountToResponse(account)
	return &resp, nil
}
