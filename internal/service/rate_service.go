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

type CreateRateRequest struct {
	ApartmentID   string `json:"apartment_id" binding:"required,uuid"`
	Name          string `json:"name" binding:"required"`
	PricePerNight string `json:"price_per_night" binding:"required"` // Decimal string
	IVA           string `json:"iva" binding:"required"`             // Percent, decimal string
}

type UpdateRateRequest struct {
	Name          *string `json:"name"`
	PricePerNight *string `json:"price_per_night"`
	IVA           *string `json:"iva"`
}

type RateResponse struct {
	ID            string `json:"id"`
	ApartmentID   string `json:"apartment_id"`
	ApartmentName string `json:"apartment_name,omitempty"`
	Name          string `json:"name"`
	PricePerNight string `json:"price_per_night"`
	IVA           string `json:"iva"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// --- Interface ---

type RateService interface {
	CreateRate(ctx context.Context, userID *uuid.UUID, req CreateRateRequest) (*RateResponse, error)
	GetRate(ctx context.Context, id uuid.UUID) (*RateResponse, error)
	ListRates(ctx context.Context, apartmentID *uuid.UUID, p pagination.Params) ([]RateResponse, int64, error)
	UpdateRate(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateRateRequest) (*RateResponse, error)
	DeleteRate(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error
}

type rateService struct {
	rateRepo      repository.RateRepository
	apartmentRepo repository.ApartmentRepository
	incomeRepo    repository.IncomeRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	publisher     ActivityPublisher
}

func NewRateService(
	rateRepo repository.RateRepository,
	apartmentRepo repository.ApartmentRepository,
	incomeRepo repository.IncomeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher ActivityPublisher,
) RateService {
	return &rateService{
		rateRepo:      rateRepo,
		apartmentRepo: apartmentRepo,
		incomeRepo:    incomeRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// --- Implementation ---

func (s *rateService) CreateRate(ctx context.Context, userID *uuid.UUID, req CreateRateRequest) (*RateResponse, error) {
	apartmentID, err := uuid.Parse(req.ApartmentID)
	if err != nil {
		return nil, apperror.Validation("invalid apartment_id: %v", err)
	}
	if _, err := s.apartmentRepo.FindByID(ctx, apartmentID); err != nil {
		return nil, apperror.NotFound("apartment %s not found", apartmentID)
	}

	price, err := parseMoney("price_per_night", req.PricePerNight)
	if err != nil {
		return nil, err
	}
	iva, err := parsePercent("iva", req.IVA)
	if err != nil {
		return nil, err
	}

	rate := &model.Rate{
		ApartmentID:   apartmentID,
		Name:          req.Name,
		PricePerNight: price,
		IVA:           iva,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Create(txCtx, rate); err != nil {
			return apperror.Internal("create rate", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"price_per_night": rate.PricePerNight.StringFixed(2),
			"iva":             rate.IVA.StringFixed(2),
		})
		entry := &model.AuditLog{
			UserID:     userID,
			Action:     model.ActionCreateRate,
			EntityID:   rate.ID.String(),
			EntityName: rate.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return apperror.Internal("write audit log", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRateResponse(rate), nil
}

func (s *rateService) GetRate(ctx context.Context, id uuid.UUID) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("rate %s not found", id)
	}
	return toRateResponse(rate), nil
}

// ListRates lists price cards, optionally narrowed to one apartment.
func (s *rateService) ListRates(ctx context.Context, apartmentID *uuid.UUID, p pagination.Params) ([]RateResponse, int64, error) {
	var (
		rates []model.Rate
		total int64
		err   error
	)
	if apartmentID != nil {
		rates, err = s.rateRepo.ListByApartment(ctx, *apartmentID)
		total = int64(len(rates))
	} else {
		rates, total, err = s.rateRepo.List(ctx, p.Limit, p.Offset)
	}
	if err != nil {
		return nil, 0, apperror.Internal("list rates", err)
	}

	res := make([]RateResponse, 0, len(rates))
	for i := range rates {
		res = append(res, *toRateResponse(&rates[i]))
	}
	return res, total, nil
}

// UpdateRate changes the price card and, in the same transaction,
// recomputes the stored totals of every income booked under it. Stored
// totals therefore always reflect the latest rate write.
func (s *rateService) UpdateRate(ctx context.Context, userID *uuid.UUID, id uuid.UUID, req UpdateRateRequest) (*RateResponse, error) {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("rate %s not found", id)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		rate.Name = *req.Name
	}
	if req.PricePerNight != nil {
		price, err := parseMoney("price_per_night", *req.PricePerNight)
		if err != nil {
			return nil, err
		}
		rate.PricePerNight = price
	}
	if req.IVA != nil {
		iva, err := parsePercent("iva", *req.IVA)
		if err != nil {
			return nil, err
		}
		rate.IVA = iva
	}

	var recomputed int
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Update(txCtx, rate); err != nil {
			return apperror.Internal("update rate", err)
		}

		incomes, err := s.incomeRepo.ListByRate(txCtx, id)
		if err != nil {
			return apperror.Internal("list incomes of rate", err)
		}
		for i := range incomes {
			income := &incomes[i]
			totals := billing.IncomeTotals(rate.PricePerNight, income.NumberOfPeople, income.Nights, income.Discount, rate.IVA).Rounded()
			income.TotalIVA = totals.TotalIVA
			income.TotalInvoice = totals.TotalInvoice
			if err := s.incomeRepo.Update(txCtx, income); err != nil {
				return apperror.Internal("recompute income totals", err)
			}
		}
		recomputed = len(incomes)

		details, _ := json.Marshal(map[string]interface{}{
			"price_per_night":    rate.PricePerNight.StringFixed(2),
			"iva":                rate.IVA.StringFixed(2),
			"recomputed_incomes": recomputed,
		})
		entry := &model.AuditLog{
			UserID:     userID,
			Action:     model.ActionUpdateRate,
			EntityID:   rate.ID.String(),
			EntityName: rate.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return apperror.Internal("write audit log", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(EventRateUpdated, map[string]interface{}{
		"id":                 rate.ID.String(),
		"name":               rate.Name,
		"recomputed_incomes": recomputed,
	})
	return toRateResponse(rate), nil
}

func (s *rateService) DeleteRate(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	rate, err := s.rateRepo.FindByID(ctx, id)
	if err != nil {
		return apperror.NotFound("rate %s not found", id)
	}

	incomes, err := s.incomeRepo.ListByRate(ctx, id)
	if err != nil {
		return apperror.Internal("list incomes of rate", err)
	}
	if len(incomes) > 0 {
		return apperror.Conflict("rate %s is referenced by %d incomes", id, len(incomes))
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.rateRepo.Delete(txCtx, id); err != nil {
			return apperror.Internal("delete rate", err)
		}

		entry := &model.AuditLog{
			UserID:     userID,
			Action:     model.ActionDeleteRate,
			EntityID:   id.String(),
			EntityName: rate.Name,
		}
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return apperror.Internal("write audit log", err)
		}
		return nil
	})
}

// --- Helpers ---

func toRateResponse(r *model.Rate) *RateResponse {
	resp := &RateResponse{
		ID:            r.ID.String(),
		ApartmentID:   r.ApartmentID.String(),
		Name:          r.Name,
		PricePerNight: r.PricePerNight.StringFixed(2),
		IVA:           r.IVA.StringFixed(2),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
	if r.Apartment != nil {
		resp.ApartmentName = r.Apartment.Name
	}
	return resp
}

// parseMoney parses a non-negative decimal amount from its string form.
func parseMoney(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid %s: %v", field, err)
	}
	if d.IsNegative() {
		return decimal.Zero, apperror.Validation("%s must not be negative", field)
	}
	return d, nil
}

// parsePercent parses a percentage in [0, 100] from its string form.
func parsePercent(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid %s: %v", field, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, apperror.Validation("%s must be between 0 and 100", field)
	}
	return d, nil
}
