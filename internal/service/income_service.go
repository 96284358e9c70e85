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
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateIncomeRequest struct {
	ApartmentID    string `json:"apartment_id" binding:"required,uuid"`
	RateID         string `json:"rate_id" binding:"required,uuid"`
	IntermediaryID string `json:"intermediary_id" binding:"omitempty,uuid"`
	Guest          string `json:"guest"`
	NumberOfPeople int    `json:"number_of_people" binding:"required,min=1"`
	CheckIn        int64  `json:"check_in" binding:"required"`  // epoch milliseconds, UTC
	CheckOut       int64  `json:"check_out" binding:"required"` // epoch milliseconds, UTC
	Discount       string `json:"discount"`                     // percent, decimal string, defaults to 0
	Paid           bool   `json:"paid"`
	Notes          string `json:"notes"`
}

type UpdateIncomeRequest struct {
	ApartmentID    *string `json:"apartment_id" binding:"omitempty,uuid"`
	RateID         *string `json:"rate_id" binding:"omitempty,uuid"`
	IntermediaryID *string `json:"intermediary_id"` // empty string clears the link
	Guest          *string `json:"guest"`
	NumberOfPeople *int    `json:"number_of_people"`
	CheckIn        *int64  `json:"check_in"`
	CheckOut       *int64  `json:"check_out"`
	Discount       *string `json:"discount"`
	Paid           *bool   `json:"paid"`
	Notes          *string `json:"notes"`
}

type IncomeResponse struct {
	ID               string  `json:"id"`
	ApartmentID      string  `json:"apartment_id"`
	ApartmentName    string  `json:"apartment_name,omitempty"`
	RateID           string  `json:"rate_id"`
	RateName         string  `json:"rate_name,omitempty"`
	IntermediaryID   *string `json:"intermediary_id"`
	IntermediaryName string  `json:"intermediary_name,omitempty"`
	Guest            string  `json:"guest"`
	NumberOfPeople   int     `json:"number_of_people"`
	CheckIn          int64   `json:"check_in"`  // epoch milliseconds, UTC
	CheckOut         int64   `json:"check_out"` // epoch milliseconds, UTC
	Discount         string  `json:"discount"`
	Nights           int     `json:"nights"`
	TotalIVA         string  `json:"total_iva"`
	TotalInvoice     string  `json:"total_invoice"`
	Paid             bool    `json:"paid"`
	Notes            string  `json:"notes"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// --- Interface ---

type IncomeService interface {
	CreateIncome(ctx context.Context, userID *uuid.UUID, req CreateIncomeRequest) (*IncomeResponse, error)
	GetIncome(ctx context.Context, id uuid.UUID) (*IncomeResponse, error)
	ListIncomes(ctx context.Context, p pagination.Params) ([]IncomeResponse, int64, error)
	UpdateIncome(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateIncomeRequest) (*IncomeResponse, error)
	DeleteIncome(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error
}

type incomeService struct {
	incomeRepo       repository.IncomeRepository
	apartmentRepo    repository.ApartmentRepository
	rateRepo         repository.RateRepository
	intermediaryRepo repository.IntermediaryRepository
	auditRepo        repository.AuditRepository
	txManager        repository.TransactionManager
	publisher        ActivityPublisher
}

func NewIncomeService(
	incomeRepo repository.IncomeRepository,
	apartmentRepo repository.ApartmentRepository,
	rateRepo repository.RateRepository,
	intermediaryRepo repository.IntermediaryRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher ActivityPublisher,
) IncomeService {
	return &incomeService{
		incomeRepo:       incomeRepo,
		apartmentRepo:    apartmentRepo,
		rateRepo:         rateRepo,
		intermediaryRepo: intermediaryRepo,
		auditRepo:        auditRepo,
		txManager:        txManager,
		publisher:        publisher,
	}
}

// --- Implementation ---

func (s *incomeService) CreateIncome(ctx context.Context, userID *uuid.UUID, req CreateIncomeRequest) (*IncomeResponse, error) {
	apartmentID, _ := uuid.Parse(req.ApartmentID)
	rateID, _ := uuid.Parse(req.RateID)

	if _, err := s.apartmentRepo.FindByID(ctx, apartmentID); err != nil {
		return nil, apperror.NotFound("apartment %s not found", apartmentID)
	}
	rate, err := s.rateRepo.FindByID(ctx, rateID)
	if err != nil {
		return nil, apperror.NotFound("rate %s not found", rateID)
	}
	if rate.ApartmentID != apartmentID {
		return nil, apperror.Validation("rate %s does not belong to apartment %s", rateID, apartmentID)
	}

	var intermediaryID *uuid.UUID
	if req.IntermediaryID != "" {
		parsed, _ := uuid.Parse(req.IntermediaryID)
		if _, err := s.intermediaryRepo.FindByID(ctx, parsed); err != nil {
			return nil, apperror.NotFound("intermediary %s not found", parsed)
		}
		intermediaryID = &parsed
	}

	if req.CheckOut <= req.CheckIn {
		return nil, apperror.Validation("check_out must be after check_in")
	}
	checkIn := msToUTC(req.CheckIn)
	checkOut := msToUTC(req.CheckOut)

	discount := decimal.Zero
	if req.Discount != "" {
		if discount, err = parsePercent("discount", req.Discount); err != nil {
			return nil, err
		}
	}

	nights := billing.Nights(checkIn, checkOut)
	totals := billing.IncomeTotals(rate.PricePerNight, req.NumberOfPeople, nights, discount, rate.IVA).Rounded()

	income := &model.Income{
		ApartmentID:    apartmentID,
		RateID:         rateID,
		IntermediaryID: intermediaryID,
		Guest:          req.Guest,
		NumberOfPeople: req.NumberOfPeople,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Discount:       discount,
		Nights:         nights,
		TotalIVA:       totals.TotalIVA,
		TotalInvoice:   totals.TotalInvoice,
		Paid:           req.Paid,
		Notes:          req.Notes,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.incomeRepo.Create(txCtx, income); err != nil {
			return apperror.Internal("create income", err)
		}
		return s.logIncomeAudit(txCtx, userID, model.ActionCreateIncome, income)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(EventIncomeCreated, map[string]interface{}{
		"id":            income.ID.String(),
		"guest":         income.Guest,
		"total_invoice": income.TotalInvoice.StringFixed(2),
	})
	return toIncomeResponse(income), nil
}

func (s *incomeService) GetIncome(ctx context.Context, id uuid.UUID) (*IncomeResponse, error) {
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("income %s not found", id)
	}
	return toIncomeResponse(income), nil
}

func (s *incomeService) ListIncomes(ctx context.Context, p pagination.Params) ([]IncomeResponse, int64, error) {
	incomes, total, err := s.incomeRepo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, apperror.Internal("list incomes", err)
	}

	res := make([]IncomeResponse, 0, len(incomes))
	for i := range incomes {
		res = append(res, *toIncomeResponse(&incomes[i]))
	}
	return res, total, nil
}

// UpdateIncome applies the changed fields, then re-derives nights and
// totals from the resulting state. Derived fields are never client-set.
func (s *incomeService) UpdateIncome(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateIncomeRequest) (*IncomeResponse, error) {
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("income %s not found", id)
	}

	if req.ApartmentID != nil {
		apartmentID, _ := uuid.Parse(*req.ApartmentID)
		if _, err := s.apartmentRepo.FindByID(ctx, apartmentID); err != nil {
			return nil, apperror.NotFound("apartment %s not found", apartmentID)
		}
		income.ApartmentID = apartmentID
	}
	if req.RateID != nil {
		rateID, _ := uuid.Parse(*req.RateID)
		income.RateID = rateID
	}

	rate, err := s.rateRepo.FindByID(ctx, income.RateID)
	if err != nil {
		return nil, apperror.NotFound("rate %s not found", income.RateID)
	}
	if rate.ApartmentID != income.ApartmentID {
		return nil, apperror.Validation("rate %s does not belong to apartment %s", income.RateID, income.ApartmentID)
	}

	if req.IntermediaryID != nil {
		if *req.IntermediaryID == "" {
			income.IntermediaryID = nil
		} else {
			parsed, err := uuid.Parse(*req.IntermediaryID)
			if err != nil {
				return nil, apperror.Validation("invalid intermediary_id: %v", err)
			}
			if _, err := s.intermediaryRepo.FindByID(ctx, parsed); err != nil {
				return nil, apperror.NotFound("intermediary %s not found", parsed)
			}
			income.IntermediaryID = &parsed
		}
	}
	if req.Guest != nil {
		income.Guest = *req.Guest
	}
	if req.NumberOfPeople != nil {
		if *req.NumberOfPeople < 1 {
			return nil, apperror.Validation("number_of_people must be at least 1")
		}
		income.NumberOfPeople = *req.NumberOfPeople
	}
	if req.CheckIn != nil {
		income.CheckIn = msToUTC(*req.CheckIn)
	}
	if req.CheckOut != nil {
		income.CheckOut = msToUTC(*req.CheckOut)
	}
	if !income.CheckOut.After(income.CheckIn) {
		return nil, apperror.Validation("check_out must be after check_in")
	}
	if req.Discount != nil {
		discount, err := parsePercent("discount", *req.Discount)
		if err != nil {
			return nil, err
		}
		income.Discount = discount
	}
	if req.Paid != nil {
		income.Paid = *req.Paid
	}
	if req.Notes != nil {
		income.Notes = *req.Notes
	}

	income.Nights = billing.Nights(income.CheckIn, income.CheckOut)
	totals := billing.IncomeTotals(rate.PricePerNight, income.NumberOfPeople, income.Nights, income.Discount, rate.IVA).Rounded()
	income.TotalIVA = totals.TotalIVA
	income.TotalInvoice = totals.TotalInvoice

	// Preloaded associations may be stale after the edits above; drop them
	// so gorm does not write them back.
	income.Apartment = nil
	income.Rate = nil
	income.Intermediary = nil

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.incomeRepo.Update(txCtx, income); err != nil {
			return apperror.Internal("update income", err)
		}
		return s.logIncomeAudit(txCtx, userID, model.ActionUpdateIncome, income)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(EventIncomeUpdated, map[string]interface{}{
		"id":            income.ID.String(),
		"total_invoice": income.TotalInvoice.StringFixed(2),
	})
	return toIncomeResponse(income), nil
}

func (s *incomeService) DeleteIncome(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	income, err := s.incomeRepo.FindByID(ctx, id)
	if err != nil {
		return apperror.NotFound("income %s not found", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.incomeRepo.Delete(txCtx, id); err != nil {
			return apperror.Internal("delete income", err)
		}
		return s.logIncomeAudit(txCtx, userID, model.ActionDeleteIncome, income)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(EventIncomeDeleted, map[string]string{"id": id.String()})
	return nil
}

// --- Helpers ---

func (s *incomeService) logIncomeAudit(ctx context.Context, userID *uuid.UUID, action string, income *model.Income) error {
	details, _ := json.Marshal(map[string]interface{}{
		"guest":         income.Guest,
		"check_in":      income.CheckIn.UnixMilli(),
		"check_out":     income.CheckOut.UnixMilli(),
		"nights":        income.Nights,
		"total_iva":     income.TotalIVA.StringFixed(2),
		"total_invoice": income.TotalInvoice.StringFixed(2),
	})
	entry := &model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityID:   income.ID.String(),
		EntityName: income.Guest,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return apperror.Internal("write audit log", err)
	}
	return nil
}

func toIncomeResponse(i *model.Income) *IncomeResponse {
	resp := &IncomeResponse{
		ID:             i.ID.String(),
		ApartmentID:    i.ApartmentID.String(),
		RateID:         i.RateID.String(),
		Guest:          i.Guest,
		NumberOfPeople: i.NumberOfPeople,
		CheckIn:        i.CheckIn.UnixMilli(),
		CheckOut:       i.CheckOut.UnixMilli(),
		Discount:       i.Discount.StringFixed(2),
		Nights:         i.Nights,
		TotalIVA:       i.TotalIVA.StringFixed(2),
		TotalInvoice:   i.TotalInvoice.StringFixed(2),
		Paid:           i.Paid,
		Notes:          i.Notes,
		CreatedAt:      i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      i.UpdatedAt.Format(time.RFC3339),
	}
	if i.IntermediaryID != nil {
		id := i.IntermediaryID.String()
		resp.IntermediaryID = &id
	}
	if i.Apartment != nil {
		resp.ApartmentName = i.Apartment.Name
	}
	if i.Rate != nil {
		resp.RateName = i.Rate.Name
	}
	if i.Intermediary != nil {
		resp.IntermediaryName = i.Intermediary.Name
	}
	return resp
}

// msToUTC converts an epoch-millisecond API timestamp to a UTC time.
func msToUTC(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
