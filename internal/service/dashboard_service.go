package service

import (
	"context"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/model"
	"rentledger/internal/repository"
	"rentledger/pkg/quarter"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// DashboardResponse is the settlement view: side totals, their balance,
// the VAT position and the records they were derived from.
type DashboardResponse struct {
	TotalIncomes   string            `json:"total_incomes"`
	TotalExpenses  string            `json:"total_expenses"`
	Result         string            `json:"result"`        // incomes minus expenses
	QuarterlyVAT   string            `json:"quarterly_vat"` // VAT collected minus VAT paid, sign preserved
	CurrentQuarter int               `json:"current_quarter"`
	StartOfQuarter *int64            `json:"start_of_quarter,omitempty"` // epoch milliseconds, windowed view only
	EndOfQuarter   *int64            `json:"end_of_quarter,omitempty"`   // epoch milliseconds, windowed view only
	Incomes        []IncomeResponse  `json:"incomes"`
	Expenses       []ExpenseResponse `json:"expenses"`
}

// --- Interface ---

type DashboardService interface {
	BuildDashboard(ctx context.Context) (*DashboardResponse, error)
	BuildQuarterDashboard(ctx context.Context, year, q int) (*DashboardResponse, error)
}

type dashboardService struct {
	incomeRepo  repository.IncomeRepository
	expenseRepo repository.ExpenseRepository
}

func NewDashboardService(incomeRepo repository.IncomeRepository, expenseRepo repository.ExpenseRepository) DashboardService {
	return &dashboardService{incomeRepo: incomeRepo, expenseRepo: expenseRepo}
}

// --- Implementation ---

// BuildDashboard settles over every stored record. The current quarter
// reported is the wall-clock one.
func (s *dashboardService) BuildDashboard(ctx context.Context) (*DashboardResponse, error) {
	incomes, err := s.incomeRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("load incomes", err)
	}
	expenses, err := s.expenseRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal("load expenses", err)
	}

	resp := buildSettlement(incomes, expenses)
	resp.CurrentQuarter = quarter.Of(time.Now())
	return resp, nil
}

// BuildQuarterDashboard settles over one quarter window: incomes are
// attributed by check-in, expenses by date, both bounds inclusive. The
// current quarter reported is the requested one.
func (s *dashboardService) BuildQuarterDashboard(ctx context.Context, year, q int) (*DashboardResponse, error) {
	rng, err := quarter.Bounds(year, q)
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}

	incomes, err := s.incomeRepo.ListByCheckInRange(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, apperror.Internal("load incomes", err)
	}
	expenses, err := s.expenseRepo.ListByDateRange(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, apperror.Internal("load expenses", err)
	}

	resp := buildSettlement(incomes, expenses)
	resp.CurrentQuarter = q
	start, end := rng.StartMillis(), rng.EndMillis()
	resp.StartOfQuarter = &start
	resp.EndOfQuarter = &end
	return resp, nil
}

// --- Helpers ---

// buildSettlement sums the STORED totals of both sides. Record lists ride
// along so the client can drill into the numbers.
func buildSettlement(incomes []model.Income, expenses []model.Expense) *DashboardResponse {
	totalIncomes := decimal.Zero
	vatIncomes := decimal.Zero
	incomeRes := make([]IncomeResponse, 0, len(incomes))
	for i := range incomes {
		totalIncomes = totalIncomes.Add(incomes[i].TotalInvoice)
		vatIncomes = vatIncomes.Add(incomes[i].TotalIVA)
		incomeRes = append(incomeRes, *toIncomeResponse(&incomes[i]))
	}

	totalExpenses := decimal.Zero
	vatExpenses := decimal.Zero
	expenseRes := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		totalExpenses = totalExpenses.Add(expenses[i].TotalInvoice)
		vatExpenses = vatExpenses.Add(expenses[i].TotalIVA)
		expenseRes = append(expenseRes, *toExpenseResponse(&expenses[i]))
	}

	return &DashboardResponse{
		TotalIncomes:  totalIncomes.StringFixed(2),
		TotalExpenses: totalExpenses.StringFixed(2),
		Result:        totalIncomes.Sub(totalExpenses).StringFixed(2),
		QuarterlyVAT:  vatIncomes.Sub(vatExpenses).StringFixed(2),
		Incomes:       incomeRes,
		Expenses:      expenseRes,
	}
}
