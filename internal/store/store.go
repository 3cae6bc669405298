package store

import (
	"advisorchat-backend/internal/models"
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a specific record is not found, or exists but
// belongs to another advisor. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when an insert violates a unique constraint.
var ErrConflict = errors.New("record already exists")

// CreateCustomerParams contains parameters for creating a customer.
type CreateCustomerParams struct {
	AdvisorID string
	Name      string
	Email     string
	Phone     *string // Pointer to handle optional phone
}

// CreateAccountParams contains parameters for creating an account.
type CreateAccountParams struct {
	CustomerID    int64
	AccountNumber string
	AccountType   models.AccountType
	Balance       decimal.Decimal
}

// AddMessageParams contains parameters for appending a chat message.
type AddMessageParams struct {
	SessionID int64 // Row ID of the owning session, not the external token
	Role      models.ChatRole
	Content   string
	ChartData models.ChartData // nil stores SQL NULL
}

// CustomerStore holds customer and account records, scoped per advisor.
type CustomerStore interface {
	ListCustomersByAdvisor(ctx context.Context, advisorID string) ([]models.Customer, error)
	GetCustomerByID(ctx context.Context, customerID int64, advisorID string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, arg CreateCustomerParams) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64, advisorID string) error // Cascades to accounts
	CountCustomers(ctx context.Context) (int64, error)

	CreateAccount(ctx context.Context, arg CreateAccountParams) (*models.Account, error)
	ListAccounts(ctx context.Context, customerID int64) ([]models.Account, error)
	TotalBalance(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

// ChatStore holds chat sessions and their ordered messages.
type ChatStore interface {
	CreateSession(ctx context.Context, advisorID string) (*models.ChatSession, error)
	GetSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error)
	ListSessionsByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]models.ChatSession, error)
	EndSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error)
	DeleteSession(ctx context.Context, sessionToken string, advisorID string) error // Cascades to messages

	AddMessage(ctx context.Context, arg AddMessageParams) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) // Ascending (timestamp, id)
}

// Store defines the interface for database operations.
// This allows for mocking in tests and DB backend switching (PostgreSQL or SQLite).
type Store interface {
	CustomerStore
	ChatStore

	Ping(ctx context.Context) error
	Close() error
}
