package sqlite

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Compile-time check to ensure SQLiteStore implements store.Store
var _ store.Store = (*SQLiteStore)(nil)

// SQLiteStore implements store.Store on GORM with the SQLite driver.
// Foreign keys are enabled on the connection so cascades are enforced by the database.
type SQLiteStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// PathFromURL converts a DATABASE_URL such as sqlite://./advisorchat.db or
// sqlite:///./advisorchat.db into a file path.
func PathFromURL(databaseURL string) (string, bool) {
	if !strings.HasPrefix(databaseURL, "sqlite://") {
		return "", false
	}
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		path = ":memory:"
	}
	return path, true
}

// Open opens (creating if needed) the SQLite database at path and migrates it.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	l := logger.Component("SQLiteStore")

	var dsn string
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=1"
	} else {
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=60000&_foreign_keys=1", path)
	}
	l.Debug().Str("dsn", dsn).Msg("opening DB")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(l),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if path == ":memory:" {
		// Every new connection would see an empty in-memory database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, log: l}
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates or updates the tables.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&customerRow{},
		&accountRow{},
		&sessionRow{},
		&messageRow{},
	)
	if err != nil {
		s.log.Error().Err(err).Msg("Migrate: failed")
		return fmt.Errorf("failed to migrate sqlite database: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- Customer Methods ---

func (s *SQLiteStore) ListCustomersByAdvisor(ctx context.Context, advisorID string) ([]models.Customer, error) {
	var rows []customerRow
	if err := s.db.WithContext(ctx).Where("advisor_id = ?", advisorID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error listing customers: %w", err)
	}
	customers := make([]models.Customer, 0, len(rows))
	for i := range rows {
		customers = append(customers, rows[i].toModel())
	}
	return customers, nil
}

func (s *SQLiteStore) GetCustomerByID(ctx context.Context, customerID int64, advisorID string) (*models.Customer, error) {
	var row customerRow
	err := s.db.WithContext(ctx).Where("id = ? AND advisor_id = ?", customerID, advisorID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching customer: %w", err)
	}
	c := row.toModel()
	return &c, nil
}

func (s *SQLiteStore) CreateCustomer(ctx context.Context, arg store.CreateCustomerParams) (*models.Customer, error) {
	row := customerRow{
		AdvisorID:     arg.AdvisorID,
		Name:          arg.Name,
		Email:         arg.Email,
		Phone:         arg.Phone,
		AccountStatus: models.DefaultAccountStatus,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Warn().Str("email", arg.Email).Msg("CreateCustomer: duplicate email")
			return nil, fmt.Errorf("customer with email %q: %w", arg.Email, store.ErrConflict)
		}
		return nil, fmt.Errorf("database error creating customer: %w", err)
	}
	s.log.Info().Int64("customer_id", row.ID).Str("advisor_id", row.AdvisorID).Msg("CreateCustomer: inserted")
	c := row.toModel()
	return &c, nil
}

func (s *SQLiteStore) DeleteCustomer(ctx context.Context, customerID int64, advisorID string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND advisor_id = ?", customerID, advisorID).Delete(&customerRow{})
	if res.Error != nil {
		return fmt.Errorf("error executing delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&customerRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("database error counting customers: %w", err)
	}
	return n, nil
}

// --- Account Methods ---

func (s *SQLiteStore) CreateAccount(ctx context.Context, arg store.CreateAccountParams) (*models.Account, error) {
	row := accountRow{
		CustomerID:    arg.CustomerID,
		AccountNumber: arg.AccountNumber,
		AccountType:   string(arg.AccountType),
		Balance:       arg.Balance,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, fmt.Errorf("account number %q: %w", arg.AccountNumber, store.ErrConflict)
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, fmt.Errorf("customer %d: %w", arg.CustomerID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("database error creating account: %w", err)
	}
	a := row.toModel()
	return &a, nil
}

func (s *SQLiteStore) ListAccounts(ctx context.Context, customerID int64) ([]models.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("database error listing accounts: %w", err)
	}
	accounts := make([]models.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].toModel())
	}
	return accounts, nil
}

// TotalBalance sums in decimal arithmetic; SQLite's SUM would go through float64.
func (s *SQLiteStore) TotalBalance(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	accounts, err := s.ListAccounts(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total, nil
}

// --- Chat Session Methods ---

func (s *SQLiteStore) CreateSession(ctx context.Context, advisorID string) (*models.ChatSession, error) {
	row := sessionRow{
		SessionID: uuid.NewString(),
		AdvisorID: advisorID,
		StartedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("database error creating chat session: %w", err)
	}
	s.log.Info().Str("session_id", row.SessionID).Str("advisor_id", advisorID).Msg("CreateSession: inserted")
	cs := row.toModel()
	return &cs, nil
}

func (s *SQLiteStore) findSession(tx *gorm.DB, sessionToken, advisorID string) (*sessionRow, error) {
	var row sessionRow
	err := tx.Where("session_id = ? AND advisor_id = ?", sessionToken, advisorID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching chat session: %w", err)
	}
	return &row, nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error) {
	row, err := s.findSession(s.db.WithContext(ctx), sessionToken, advisorID)
	if err != nil {
		return nil, err
	}
	cs := row.toModel()
	return &cs, nil
}

func (s *SQLiteStore) ListSessionsByAdvisor(ctx context.Context, advisorID string, limit, offset int) ([]models.ChatSession, error) {
	var rows []sessionRow
	err := s.db.WithContext(ctx).
		Where("advisor_id = ?", advisorID).
		Order("started_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing chat sessions: %w", err)
	}
	sessions := make([]models.ChatSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, rows[i].toModel())
	}
	return sessions, nil
}

func (s *SQLiteStore) EndSession(ctx context.Context, sessionToken string, advisorID string) (*models.ChatSession, error) {
	var out *sessionRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.findSession(tx, sessionToken, advisorID)
		if err != nil {
			return err
		}
		if row.EndedAt == nil {
			now := time.Now().UTC()
			if err := tx.Model(row).Update("ended_at", now).Error; err != nil {
				return fmt.Errorf("database error ending chat session: %w", err)
			}
			row.EndedAt = &now
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs := out.toModel()
	return &cs, nil
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionToken string, advisorID string) error {
	res := s.db.WithContext(ctx).Where("session_id = ? AND advisor_id = ?", sessionToken, advisorID).Delete(&sessionRow{})
	if res.Error != nil {
		return fmt.Errorf("error executing delete chat session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Chat Message Methods ---

func (s *SQLiteStore) AddMessage(ctx context.Context, arg store.AddMessageParams) (*models.ChatMessage, error) {
	row := messageRow{
		SessionID: arg.SessionID,
		Role:      string(arg.Role),
		Content:   arg.Content,
		ChartData: arg.ChartData,
		Timestamp: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("chat session %d: %w", arg.SessionID, store.ErrNotFound)
		}
		return nil, fmt.Errorf("database error adding chat message: %w", err)
	}
	m := row.toModel()
	return &m, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID int64) ([]models.ChatMessage, error) {
	var rows []messageRow
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("database error listing chat messages: %w", err)
	}
	messages := make([]models.ChatMessage, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].toModel())
	}
	return messages, nil
}
