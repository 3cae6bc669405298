package postgres

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// --- Customer Methods ---

const customerColumns = `id, advisor_id, name, email, phone, account_status, created_at, updated_at`

func scanCustomer(row pgx.Row, c *models.Customer) error {
	return row.Scan(
		&c.ID,
		&c.AdvisorID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.AccountStatus,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// ListCustomersByAdvisor retrieves all customers owned by the advisor.
func (s *PostgresStore) ListCustomersByAdvisor(ctx context.Context, advisorID string) ([]models.Customer, error) {
	s.log.Debug().Str("advisor_id", advisorID).Msg("ListCustomersByAdvisor called")
	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE advisor_id = $1
        ORDER BY id`

	rows, err := s.db.Query(ctx, query, advisorID)
	if err != nil {
		s.log.Error().Err(err).Str("advisor_id", advisorID).Msg("ListCustomersByAdvisor: failed query")
		return nil, fmt.Errorf("database error listing customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		var c models.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, fmt.Errorf("error scanning customer row: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return customers, nil
}

// GetCustomerByID retrieves a customer by ID, only if it belongs to the advisor.
// Returns store.ErrNotFound otherwise.
func (s *PostgresStore) GetCustomerByID(ctx context.Context, customerID int64, advisorID string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1 AND advisor_id = $2`

	c := &models.Customer{}
	if err := scanCustomer(s.db.QueryRow(ctx, query, customerID, advisorID), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Debug().Int64("customer_id", customerID).Str("advisor_id", advisorID).Msg("GetCustomerByID: not found")
			return nil, store.ErrNotFound
		}
		s.log.Error().Err(err).Int64("customer_id", customerID).Msg("GetCustomerByID: failed query/scan")
		return nil, fmt.Errorf("database error fetching customer: %w", err)
	}
	return c, nil
}

// CreateCustomer inserts a new customer. Returns store.ErrConflict on a duplicate email.
func (s *PostgresStore) CreateCustomer(ctx context.Context, arg store.CreateCustomerParams) (*models.Customer, error) {
	s.log.Debug().Str("advisor_id", arg.AdvisorID).Str("email", arg.Email).Msg("CreateCustomer called")
	query := `
        INSERT INTO customers (advisor_id, name, email, phone)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + customerColumns

	c := &models.Customer{}
	err := scanCustomer(s.db.QueryRow(ctx, query, arg.AdvisorID, arg.Name, arg.Email, arg.Phone), c)
	if err != nil {
		if pgErrorCode(err) == codeUniqueViolation {
			s.log.Warn().Str("email", arg.Email).Msg("CreateCustomer: duplicate email")
			return nil, fmt.Errorf("customer with email %q: %w", arg.Email, store.ErrConflict)
		}
		s.log.Error().Err(err).Str("email", arg.Email).Msg("CreateCustomer: failed insert")
		return nil, fmt.Errorf("database error creating customer: %w", err)
	}

	s.log.Info().Int64("customer_id", c.ID).Str("advisor_id", c.AdvisorID).Msg("CreateCustomer: inserted")
	return c, nil
}

// DeleteCustomer removes the customer; accounts go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeleteCustomer(ctx context.Context, customerID int64, advisorID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND advisor_id = $2`, customerID, advisorID)
	if err != nil {
		return fmt.Errorf("error executing delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("database error counting customers: %w", err)
	}
	return n, nil
}

// --- Account Methods ---

const accountColumns = `id, customer_id, account_number, account_type, balance, created_at, updated_at`

func scanAccount(row pgx.Row, a *models.Account) error {
	return row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.AccountNumber,
		&a.AccountType,
		&a.Balance,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
}

// CreateAccount inserts an account for an existing customer.
func (s *PostgresStore) CreateAccount(ctx context.Context, arg store.CreateAccountParams) (*models.Account, error) {
	query := `
        INSERT INTO accounts (customer_id, account_number, account_type, balance)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + accountColumns

	a := &models.Account{}
	err := scanAccount(s.db.QueryRow(ctx, query, arg.CustomerID, arg.AccountNumber, string(arg.AccountType), arg.Balance), a)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return nil, fmt.Errorf("account number %q: %w", arg.AccountNumber, store.ErrConflict)
		case codeForeignKeyViolation:
			return nil, fmt.Errorf("customer %d: %w", arg.CustomerID, store.ErrNotFound)
		}
		s.log.Error().Err(err).Int64("customer_id", arg.CustomerID).Msg("CreateAccount: failed insert")
		return nil, fmt.Errorf("database error creating account: %w", err)
	}
	return a, nil
}

// ListAccounts retrieves all accounts of a customer.
func (s *PostgresStore) ListAccounts(ctx context.Context, customerID int64) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + `
        FROM accounts
        WHERE customer_id = $1
        ORDER BY id`

	rows, err := s.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("database error listing accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// TotalBalance sums the balances of a customer's accounts; zero when there are none.
func (s *PostgresStore) TotalBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("database error summing balances: %w", err)
	}
	return total, nil
}
