package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// Valid reports whether r is one of the persisted roles.
func (r ChatRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// AccountType is the fixed set of account kinds a customer can hold.
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeRetirement AccountType = "retirement"
)

// AccountTypes lists the account types in display order.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeInvestment,
	AccountTypeRetirement,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

const DefaultAccountStatus = "active"

// ChartData is an arbitrary chart payload attached to assistant messages.
// Stored as JSON; nil means "no chart".
type ChartData map[string]any

// Customer is a client record owned by one advisor.
type Customer struct {
	ID            int64     `db:"id"`
	AdvisorID     string    `db:"advisor_id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"` // globally unique
	Phone         *string   `db:"phone"`
	AccountStatus string    `db:"account_status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Account belongs to exactly one Customer and is deleted with it.
type Account struct {
	ID            int64           `db:"id"`
	CustomerID    int64           `db:"customer_id"`
	AccountNumber string          `db:"account_number"` // globally unique
	AccountType   AccountType     `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// ChatSession groups the messages of one advisor conversation.
// SessionID is the externally visible token; ID is the row identity.
type ChatSession struct {
	ID        int64      `db:"id"`
	SessionID string     `db:"session_id"`
	AdvisorID string     `db:"advisor_id"`
	StartedAt time.Time  `db:"started_at"`
	EndedAt   *time.Time `db:"ended_at"`
}

// ChatMessage is one persisted turn half. SessionID references ChatSession.ID.
type ChatMessage struct {
	ID        int64     `db:"id"`
	SessionID int64     `db:"session_id"`
	Role      ChatRole  `db:"role"`
	Content   string    `db:"content"`
	ChartData ChartData `db:"chart_data"`
	Timestamp time.Time `db:"timestamp"`
}
