package sqlite

import (
	"advisorchat-backend/internal/models"
	"time"

	"github.com/shopspring/decimal"
)

// Table rows are kept separate from the domain models so GORM tags and
// association fields stay out of the API-facing types.

type customerRow struct {
	ID            int64   `gorm:"primaryKey;autoIncrement"`
	AdvisorID     string  `gorm:"not null;index"`
	Name          string  `gorm:"not null"`
	Email         string  `gorm:"not null;uniqueIndex"`
	Phone         *string
	AccountStatus string `gorm:"not null;default:active"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (customerRow) TableName() string { return "customers" }

type accountRow struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	CustomerID    int64           `gorm:"not null;index"`
	Customer      *customerRow    `gorm:"constraint:OnDelete:CASCADE"`
	AccountNumber string          `gorm:"not null;uniqueIndex"`
	AccountType   string          `gorm:"not null"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (accountRow) TableName() string { return "accounts" }

type sessionRow struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	SessionID string       `gorm:"not null;uniqueIndex"`
	AdvisorID string       `gorm:"not null;index"`
	StartedAt time.Time    `gorm:"not null"`
	EndedAt   *time.Time
	Messages  []messageRow `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (sessionRow) TableName() string { return "chat_sessions" }

type messageRow struct {
	ID        int64            `gorm:"primaryKey;autoIncrement"`
	SessionID int64            `gorm:"not null;index:idx_chat_messages_session_ts,priority:1"`
	Role      string           `gorm:"not null"`
	Content   string           `gorm:"type:text;not null"`
	ChartData models.ChartData `gorm:"serializer:json"`
	Timestamp time.Time        `gorm:"not null;index:idx_chat_messages_session_ts,priority:2"`
}

func (messageRow) TableName() string { return "chat_messages" }

func (r *customerRow) toModel() models.Customer {
	return models.Customer{
		ID:            r.ID,
		AdvisorID:     r.AdvisorID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		AccountStatus: r.AccountStatus,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *accountRow) toModel() models.Account {
	return models.Account{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		AccountNumber: r.AccountNumber,
		AccountType:   models.AccountType(r.AccountType),
		Balance:       r.Balance,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *sessionRow) toModel() models.ChatSession {
	return models.ChatSession{
		ID:        r.ID,
		SessionID: r.SessionID,
		AdvisorID: r.AdvisorID,
		StartedAt: r.StartedAt,
		EndedAt:   r.EndedAt,
	}
}

func (r *messageRow) toModel() models.ChatMessage {
	return models.ChatMessage{
		ID:        r.ID,
		SessionID: r.SessionID,
		Role:      models.ChatRole(r.Role),
		Content:   r.Content,
		ChartData: r.ChartData,
		Timestamp: r.Timestamp,
	}
}
