package service

import (
	"context"
	"encoding/json"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/billing"
	"rentledger/internal/model"
	"rentledger/internal/repository"
	"rentledger/pkg/pagination"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	ApartmentID string `json:"apartment_id" binding:"omitempty,uuid"` // empty for general costs
	Concept     string `json:"concept" binding:"required"`
	Expense     string `json:"expense" binding:"required"` // base amount, decimal string
	IVA         string `json:"iva" binding:"required"`     // percent, decimal string
	Date        int64  `json:"date" binding:"required"`    // epoch milliseconds, UTC
	Paid        bool   `json:"paid"`
}

type UpdateExpenseRequest struct {
	ApartmentID *string `json:"apartment_id"` // empty string clears the link
	Concept     *string `json:"concept"`
	Expense     *string `json:"expense"`
	IVA         *string `json:"iva"`
	Date        *int64  `json:"date"`
	Paid        *bool   `json:"paid"`
}

type ExpenseResponse struct {
	ID            string  `json:"id"`
	ApartmentID   *string `json:"apartment_id"`
	ApartmentName string  `json:"apartment_name,omitempty"`
	Concept       string  `json:"concept"`
	Expense       string  `json:"expense"`
	IVA           string  `json:"iva"`
	TotalIVA      string  `json:"total_iva"`
	TotalInvoice  string  `json:"total_invoice"`
	Date          int64   `json:"date"` // epoch milliseconds, UTC
	Paid          bool    `json:"paid"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID *uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error)
	ListExpenses(ctx context.Context, p pagination.Params) ([]ExpenseResponse, int64, error)
	UpdateExpense(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error)
	DeleteExpense(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error
}

type expenseService struct {
	expenseRepo   repository.ExpenseRepository
	apartmentRepo repository.ApartmentRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	publisher     ActivityPublisher
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	apartmentRepo repository.ApartmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher ActivityPublisher,
) ExpenseService {
	return &expenseService{
		expenseRepo:   expenseRepo,
		apartmentRepo: apartmentRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, userID *uuid.UUID, req CreateExpenseRequest) (*ExpenseResponse, error) {
	var apartmentID *uuid.UUID
	if req.ApartmentID != "" {
		parsed, _ := uuid.Parse(req.ApartmentID)
		if _, err := s.apartmentRepo.FindByID(ctx, parsed); err != nil {
			return nil, apperror.NotFound("apartment %s not found", parsed)
		}
		apartmentID = &parsed
	}

	amount, err := parseMoney("expense", req.Expense)
	if err != nil {
		return nil, err
	}
	iva, err := parsePercent("iva", req.IVA)
	if err != nil {
		return nil, err
	}

	totals := billing.ExpenseTotals(amount, iva).Rounded()
	expense := &model.Expense{
		ApartmentID:  apartmentID,
		Concept:      req.Concept,
		Amount:       amount,
		IVA:          iva,
		TotalIVA:     totals.TotalIVA,
		TotalInvoice: totals.TotalInvoice,
		Date:         msToUTC(req.Date),
		Paid:         req.Paid,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Create(txCtx, expense); err != nil {
			return apperror.Internal("create expense", err)
		}
		return s.logExpenseAudit(txCtx, userID, model.ActionCreateExpense, expense)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(EventExpenseCreated, map[string]interface{}{
		"id":            expense.ID.String(),
		"concept":       expense.Concept,
		"total_invoice": expense.TotalInvoice.StringFixed(2),
	})
	return toExpenseResponse(expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("expense %s not found", id)
	}
	return toExpenseResponse(expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, p pagination.Params) ([]ExpenseResponse, int64, error) {
	expenses, total, err := s.expenseRepo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, apperror.Internal("list expenses", err)
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, *toExpenseResponse(&expenses[i]))
	}
	return res, total, nil
}

// UpdateExpense applies the changed fields and re-derives the stored
// totals from the resulting amount and VAT percent.
func (s *expenseService) UpdateExpense(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateExpenseRequest) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("expense %s not found", id)
	}

	if req.ApartmentID != nil {
		if *req.ApartmentID == "" {
			expense.ApartmentID = nil
		} else {
			parsed, err := uuid.Parse(*req.ApartmentID)
			if err != nil {
				return nil, apperror.Validation("invalid apartment_id: %v", err)
			}
			if _, err := s.apartmentRepo.FindByID(ctx, parsed); err != nil {
				return nil, apperror.NotFound("apartment %s not found", parsed)
			}
			expense.ApartmentID = &parsed
		}
	}
	if req.Concept != nil {
		if *req.Concept == "" {
			return nil, apperror.Validation("concept must not be empty")
		}
		expense.Concept = *req.Concept
	}
	if req.Expense != nil {
		amount, err := parseMoney("expense", *req.Expense)
		if err != nil {
			return nil, err
		}
		expense.Amount = amount
	}
	if req.IVA != nil {
		iva, err := parsePercent("iva", *req.IVA)
		if err != nil {
			return nil, err
		}
		expense.IVA = iva
	}
	if req.Date != nil {
		expense.Date = msToUTC(*req.Date)
	}
	if req.Paid != nil {
		expense.Paid = *req.Paid
	}

	totals := billing.ExpenseTotals(expense.Amount, expense.IVA).Rounded()
	expense.TotalIVA = totals.TotalIVA
	expense.TotalInvoice = totals.TotalInvoice
	expense.Apartment = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return apperror.Internal("update expense", err)
		}
		return s.logExpenseAudit(txCtx, userID, model.ActionUpdateExpense, expense)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(EventExpenseUpdated, map[string]interface{}{
		"id":            expense.ID.String(),
		"total_invoice": expense.TotalInvoice.StringFixed(2),
	})
	return toExpenseResponse(expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return apperror.NotFound("expense %s not found", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.expenseRepo.Delete(txCtx, id); err != nil {
			return apperror.Internal("delete expense", err)
		}
		return s.logExpenseAudit(txCtx, userID, model.ActionDeleteExpense, expense)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(EventExpenseDeleted, map[string]string{"id": id.String()})
	return nil
}

// --- Helpers ---

func (s *expenseService) logExpenseAudit(ctx context.Context, userID *uuid.UUID, action string, expense *model.Expense) error {
	details, _ := json.Marshal(map[string]interface{}{
		"concept":       expense.Concept,
		"expense":       expense.Amount.StringFixed(2),
		"iva":           expense.IVA.StringFixed(2),
		"total_invoice": expense.TotalInvoice.StringFixed(2),
		"date":          expense.Date.UnixMilli(),
	})
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   expense.ID.String(),
		EntityName: expense.Concept,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return apperror.Internal("write audit log", err)
	}
	return nil
}

func toExpenseResponse(e *model.Expense) *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:           e.ID.String(),
		Concept:      e.Concept,
		Expense:      e.Amount.StringFixed(2),
		IVA:          e.IVA.StringFixed(2),
		TotalIVA:     e.TotalIVA.StringFixed(2),
		TotalInvoice: e.TotalInvoice.StringFixed(2),
		Date:         e.Date.UnixMilli(),
		Paid:         e.Paid,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ApartmentID != nil {
		id := e.ApartmentID.String()
		resp.ApartmentID = &id
	}
	if e.Apartment != nil {
		resp.ApartmentName = e.Apartment.Name
	}
	return resp
}
