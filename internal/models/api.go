package models

import "time"

// --- Generic ---

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by the root endpoint.
type StatusResponse struct {
	App         string `json:"app"`
	Version     string `json:"version"`
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Responder string `json:"responder"`
}

// --- Chat DTOs ---

// ChatMessageRequest is the body of POST /chat/message.
type ChatMessageRequest struct {
	Message   string  `json:"message"`
	AdvisorID string  `json:"advisor_id"`
	SessionID *string `json:"session_id,omitempty"` // Optional; unknown tokens start a new session
}

// ChatMessageResponse is the result of one conversation turn.
type ChatMessageResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	ChartData ChartData `json:"chart_data"`
}

// CreateSessionRequest is the body of POST /chat/session.
type CreateSessionRequest struct {
	AdvisorID string `json:"advisor_id"`
}

// SessionResponse describes a chat session without its messages.
type SessionResponse struct {
	SessionID string     `json:"session_id"`
	AdvisorID string     `json:"advisor_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ListSessionsResponse wraps a page of sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// MessageResponse is one entry of a chat history.
type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	ChartData ChartData `json:"chart_data"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistoryResponse is returned by GET /chat/history/{sessionID}.
type ChatHistoryResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []MessageResponse `json:"messages"`
}

// --- Customer DTOs ---

// CreateCustomerRequest is the body of POST /customers.
type CreateCustomerRequest struct {
	AdvisorID string  `json:"advisor_id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
}

// CreateAccountRequest is the body of POST /customers/{customerID}/accounts.
type CreateAccountRequest struct {
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Balance       float64     `json:"balance"`
}

// AccountResponse is the API view of an account.
type AccountResponse struct {
	ID            int64       `json:"id"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Balance       float64     `json:"balance"`
}

// CustomerResponse is the list view of a customer.
type CustomerResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	AccountStatus string  `json:"account_status"`
}

// CustomerDetailResponse adds accounts and their total balance.
type CustomerDetailResponse struct {
	CustomerResponse
	Accounts     []AccountResponse `json:"accounts"`
	TotalBalance float64           `json:"total_balance"`
}

// --- Chart DTOs ---

// ChartGenerateRequest is the body of POST /charts/generate.
type ChartGenerateRequest struct {
	DataType  string         `json:"data_type"`  // accounts, portfolio, performance
	Filters   map[string]any `json:"filters"`    // accepted, currently unused
	ChartType string         `json:"chart_type"` // bar, line, pie, doughnut
}

// ChartDataResponse is a Chart.js style payload.
type ChartDataResponse struct {
	ChartType string         `json:"chartType"`
	Data      map[string]any `json:"data"`
	Options   map[string]any `json:"options,omitempty"`
}

// AsChartData flattens the response into the payload stored on assistant messages.
func (c *ChartDataResponse) AsChartData() ChartData {
	if c == nil {
		return nil
	}
	out := ChartData{
		"chartType": c.ChartType,
		"data":      c.Data,
	}
	if c.Options != nil {
		out["options"] = c.Options
	}
	return out
}
