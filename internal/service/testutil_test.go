package service

import (
	"testing"
	"time"

	"rentledger/internal/database"
	"rentledger/internal/model"
	"rentledger/internal/repository"
	"rentledger/pkg/crypto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// testServices wires the full service graph against one in-memory
// database so tests can cross entity boundaries.
type testServices struct {
	db           *gorm.DB
	auth         AuthService
	apartments   ApartmentService
	rates        RateService
	intermediary IntermediaryService
	incomes      IncomeService
	expenses     ExpenseService
	dashboard    DashboardService
	audit        AuditService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := setupTestDB(t)

	userRepo := repository.NewUserRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	rateRepo := repository.NewRateRepository(db)
	intermediaryRepo := repository.NewIntermediaryRepository(db)
	incomeRepo := repository.NewIncomeRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)
	pub := NopPublisher{}

	return &testServices{
		db:           db,
		auth:         NewAuthService(userRepo, "test-secret"),
		apartments:   NewApartmentService(apartmentRepo, rateRepo, incomeRepo, expenseRepo, auditRepo, txManager, pub),
		rates:        NewRateService(rateRepo, apartmentRepo, incomeRepo, auditRepo, txManager, pub),
		intermediary: NewIntermediaryService(intermediaryRepo, testCipher(t)),
		incomes:      NewIncomeService(incomeRepo, apartmentRepo, rateRepo, intermediaryRepo, auditRepo, txManager, pub),
		expenses:     NewExpenseService(expenseRepo, apartmentRepo, auditRepo, txManager, pub),
		dashboard:    NewDashboardService(incomeRepo, expenseRepo),
		audit:        NewAuditService(auditRepo),
	}
}

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, err := crypto.NewCipher("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	return c
}

func seedApartment(t *testing.T, db *gorm.DB, name string) *model.Apartment {
	t.Helper()
	apartment := &model.Apartment{Name: name, Address: "Calle Mayor 1", Owner: "Ana"}
	require.NoError(t, db.Create(apartment).Error)
	return apartment
}

func seedRate(t *testing.T, db *gorm.DB, apartmentID uuid.UUID, price, iva string) *model.Rate {
	t.Helper()
	rate := &model.Rate{
		ApartmentID:   apartmentID,
		Name:          "standard",
		PricePerNight: decimal.RequireFromString(price),
		IVA:           decimal.RequireFromString(iva),
	}
	require.NoError(t, db.Create(rate).Error)
	return rate
}

func seedIntermediary(t *testing.T, db *gorm.DB, name string) *model.Intermediary {
	t.Helper()
	intermediary := &model.Intermediary{Name: name, CommissionPct: decimal.RequireFromString("15")}
	require.NoError(t, db.Create(intermediary).Error)
	return intermediary
}

// ms converts a UTC calendar date to the epoch-millisecond form the API
// speaks on the wire.
func ms(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}
