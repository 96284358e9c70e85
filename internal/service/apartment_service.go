package service

import (
	"context"
	"encoding/json"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/model"
	"rentledger/internal/repository"
	"rentledger/pkg/pagination"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateApartmentRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Notes   string `json:"notes"`
}

type UpdateApartmentRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Owner   *string `json:"owner"`
	Notes   *string `json:"notes"`
}

type ApartmentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Owner     string `json:"owner"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// --- Interface ---

type ApartmentService interface {
	CreateApartment(ctx context.Context, req CreateApartmentRequest) (*ApartmentResponse, error)
	GetApartment(ctx context.Context, id uuid.UUID) (*ApartmentResponse, error)
	ListApartments(ctx context.Context, p pagination.Params) ([]ApartmentResponse, int64, error)
	UpdateApartment(ctx context.Context, id uuid.UUID, req UpdateApartmentRequest) (*ApartmentResponse, error)
	DeleteApartment(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error
}

type apartmentService struct {
	apartmentRepo repository.ApartmentRepository
	rateRepo      repository.RateRepository
	incomeRepo    repository.IncomeRepository
	expenseRepo   repository.ExpenseRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	publisher     ActivityPublisher
}

func NewApartmentService(
	apartmentRepo repository.ApartmentRepository,
	rateRepo repository.RateRepository,
	incomeRepo repository.IncomeRepository,
	expenseRepo repository.ExpenseRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	publisher ActivityPublisher,
) ApartmentService {
	return &apartmentService{
		apartmentRepo: apartmentRepo,
		rateRepo:      rateRepo,
		incomeRepo:    incomeRepo,
		expenseRepo:   expenseRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		publisher:     publisher,
	}
}

// --- Implementation ---

func (s *apartmentService) CreateApartment(ctx context.Context, req CreateApartmentRequest) (*ApartmentResponse, error) {
	if _, err := s.apartmentRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.Conflict("apartment %q already exists", req.Name)
	}

	apartment := &model.Apartment{
		Name:    req.Name,
		Address: req.Address,
		Owner:   req.Owner,
		Notes:   req.Notes,
	}
	if err := s.apartmentRepo.Create(ctx, apartment); err != nil {
		return nil, apperror.Internal("create apartment", err)
	}

	return toApartmentResponse(apartment), nil
}

func (s *apartmentService) GetApartment(ctx context.Context, id uuid.UUID) (*ApartmentResponse, error) {
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("apartment %s not found", id)
	}
	return toApartmentResponse(apartment), nil
}

func (s *apartmentService) ListApartments(ctx context.Context, p pagination.Params) ([]ApartmentResponse, int64, error) {
	apartments, total, err := s.apartmentRepo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, apperror.Internal("list apartments", err)
	}

	res := make([]ApartmentResponse, 0, len(apartments))
	for i := range apartments {
		res = append(res, *toApartmentResponse(&apartments[i]))
	}
	return res, total, nil
}

func (s *apartmentService) UpdateApartment(ctx context.Context, id uuid.UUID, req UpdateApartmentRequest) (*ApartmentResponse, error) {
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("apartment %s not found", id)
	}

	if req.Name != nil && *req.Name != apartment.Name {
		if *req.Name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		if _, err := s.apartmentRepo.FindByName(ctx, *req.Name); err == nil {
			return nil, apperror.Conflict("apartment %q already exists", *req.Name)
		}
		apartment.Name = *req.Name
	}
	if req.Address != nil {
		apartment.Address = *req.Address
	}
	if req.Owner != nil {
		apartment.Owner = *req.Owner
	}
	if req.Notes != nil {
		apartment.Notes = *req.Notes
	}

	if err := s.apartmentRepo.Update(ctx, apartment); err != nil {
		return nil, apperror.Internal("update apartment", err)
	}
	return toApartmentResponse(apartment), nil
}

// DeleteApartment removes the apartment together with its rates, incomes
// and expenses in one transaction, so the ledger never holds orphans.
func (s *apartmentService) DeleteApartment(ctx context.Context, userID *uuid.UUID, id uuid.UUID) error {
	apartment, err := s.apartmentRepo.FindByID(ctx, id)
	if err != nil {
		return apperror.NotFound("apartment %s not found", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.incomeRepo.DeleteByApartment(txCtx, id); err != nil {
			return apperror.Internal("delete incomes of apartment", err)
		}
		if err := s.expenseRepo.DeleteByApartment(txCtx, id); err != nil {
			return apperror.Internal("delete expenses of apartment", err)
		}
		if err := s.rateRepo.DeleteByApartment(txCtx, id); err != nil {
			return apperror.Internal("delete rates of apartment", err)
		}
		if err := s.apartmentRepo.Delete(txCtx, id); err != nil {
			return apperror.Internal("delete apartment", err)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"name":    apartment.Name,
			"address": apartment.Address,
		})
		entry := &model.AuditLog{
			UserID:     userID,
			Action:     model.ActionDeleteApartment,
			EntityID:   id.String(),
			EntityName: apartment.Name,
			Details:    string(details),
		}
		if err := s.auditRepo.Log(txCtx, entry); err != nil {
			return apperror.Internal("write audit log", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(EventApartmentGone, map[string]string{
		"id":   id.String(),
		"name": apartment.Name,
	})
	return nil
}

// --- Helpers ---

func toApartmentResponse(a *model.Apartment) *ApartmentResponse {
	return &ApartmentResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Address:   a.Address,
		Owner:     a.Owner,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}
