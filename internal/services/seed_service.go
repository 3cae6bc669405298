package services

import (
	"advisorchat-backend/internal/models"
	"advisorchat-backend/internal/store"
	"advisorchat-backend/pkg/logger"
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

// SampleAdvisorID owns every seeded customer.
const SampleAdvisorID = "advisor-1"

type sampleCustomer struct {
	name  string
	email string
	phone string
}

var sampleCustomers = []sampleCustomer{
	{"John Smith", "john.smith@email.com", "555-0101"},
	{"Sarah Johnson", "sarah.johnson@email.com", "555-0102"},
	{"Michael Brown", "michael.brown@email.com", "555-0103"},
	{"Emily Davis", "emily.davis@email.com", "555-0104"},
	{"Robert Wilson", "robert.wilson@email.com", "555-0105"},
}

// balanceRanges bounds the generated balance per account type.
var balanceRanges = map[models.AccountType][2]float64{
	models.AccountTypeChecking:   {1000, 25000},
	models.AccountTypeSavings:    {10000, 75000},
	models.AccountTypeInvestment: {50000, 500000},
	models.AccountTypeRetirement: {100000, 1000000},
}

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Skipped   bool
	Existing  int64
	Customers int
	Accounts  int
}

// SeedService fills an empty database with sample customers and accounts.
type SeedService struct {
	store store.CustomerStore
	rnd   *rand.Rand
}

// NewSeedService creates a SeedService; a nil rnd uses a randomly seeded source.
func NewSeedService(s store.CustomerStore, rnd *rand.Rand) *SeedService {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &SeedService{store: s, rnd: rnd}
}

// Seed creates five customers for SampleAdvisorID with two to four accounts each.
// Nothing is written if any customer already exists.
func (s *SeedService) Seed(ctx context.Context) (*SeedResult, error) {
	log := logger.Component("seed")

	existing, err := s.store.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if existing > 0 {
		log.Info().Int64("customers", existing).Msg("Database already has customers, skipping seed")
		return &SeedResult{Skipped: true, Existing: existing}, nil
	}

	result := &SeedResult{}
	for _, sc := range sampleCustomers {
		phone := sc.phone
		customer, err := s.store.CreateCustomer(ctx, store.CreateCustomerParams{
			AdvisorID: SampleAdvisorID,
			Name:      sc.name,
			Email:     sc.email,
			Phone:     &phone,
		})
		if err != nil {
			return result, fmt.Errorf("failed to seed customer %q: %w", sc.email, err)
		}
		result.Customers++

		n := 2 + s.rnd.IntN(3)
		for i := 0; i < n; i++ {
			accountType := models.AccountTypes[i%len(models.AccountTypes)]
			_, err := s.store.CreateAccount(ctx, store.CreateAccountParams{
				CustomerID:    customer.ID,
				AccountNumber: fmt.Sprintf("ACC-%04d-%02d", customer.ID, i+1),
				AccountType:   accountType,
				Balance:       s.balance(accountType),
			})
			if err != nil {
				return result, fmt.Errorf("failed to seed account for customer %d: %w", customer.ID, err)
			}
			result.Accounts++
		}
	}

	log.Info().Int("customers", result.Customers).Int("accounts", result.Accounts).Msg("Database seeded")
	return result, nil
}

func (s *SeedService) balance(t models.AccountType) decimal.Decimal {
	r := balanceRanges[t]
	v := r[0] + s.rnd.Float64()*(r[1]-r[0])
	return decimal.NewFromFloat(v).Round(2)
}
