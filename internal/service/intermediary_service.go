package service

import (
	"context"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/model"
	"rentledger/internal/repository"
	"rentledger/pkg/crypto"
	"rentledger/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateIntermediaryRequest struct {
	Name           string `json:"name" binding:"required"`
	ContactEmail   string `json:"contact_email" binding:"omitempty,email"`
	CommissionPct  string `json:"commission_pct"` // Percent, decimal string, defaults to 0
	PortalURL      string `json:"portal_url"`
	PortalUsername string `json:"portal_username"`
	PortalPassword string `json:"portal_password"`
	Notes          string `json:"notes"`
}

type UpdateIntermediaryRequest struct {
	Name           *string `json:"name"`
	ContactEmail   *string `json:"contact_email" binding:"omitempty,email"`
	CommissionPct  *string `json:"commission_pct"`
	PortalURL      *string `json:"portal_url"`
	PortalUsername *string `json:"portal_username"`
	PortalPassword *string `json:"portal_password"`
	Notes          *string `json:"notes"`
}

// IntermediaryResponse exposes the decrypted portal username but never
// the password; clients only learn whether one is stored.
type IntermediaryResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ContactEmail      string `json:"contact_email"`
	CommissionPct     string `json:"commission_pct"`
	PortalURL         string `json:"portal_url"`
	PortalUsername    string `json:"portal_username"`
	HasPortalPassword bool   `json:"has_portal_password"`
	Notes             string `json:"notes"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// --- Interface ---

type IntermediaryService interface {
	CreateIntermediary(ctx context.Context, req CreateIntermediaryRequest) (*IntermediaryResponse, error)
	GetIntermediary(ctx context.Context, id uuid.UUID) (*IntermediaryResponse, error)
	ListIntermediaries(ctx context.Context, p pagination.Params) ([]IntermediaryResponse, int64, error)
	UpdateIntermediary(ctx context.Context, id uuid.UUID, req UpdateIntermediaryRequest) (*IntermediaryResponse, error)
	DeleteIntermediary(ctx context.Context, id uuid.UUID) error
}

type intermediaryService struct {
	repo   repository.IntermediaryRepository
	cipher *crypto.Cipher
}

func NewIntermediaryService(repo repository.IntermediaryRepository, cipher *crypto.Cipher) IntermediaryService {
	return &intermediaryService{repo: repo, cipher: cipher}
}

// --- Implementation ---

func (s *intermediaryService) CreateIntermediary(ctx context.Context, req CreateIntermediaryRequest) (*IntermediaryResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.Conflict("intermediary %q already exists", req.Name)
	}

	commission := decimal.Zero
	if req.CommissionPct != "" {
		var err error
		if commission, err = parsePercent("commission_pct", req.CommissionPct); err != nil {
			return nil, err
		}
	}

	encUsername, err := s.cipher.Encrypt(req.PortalUsername)
	if err != nil {
		return nil, apperror.Internal("encrypt portal username", err)
	}
	encPassword, err := s.cipher.Encrypt(req.PortalPassword)
	if err != nil {
		return nil, apperror.Internal("encrypt portal password", err)
	}

	intermediary := &model.Intermediary{
		Name:           req.Name,
		ContactEmail:   req.ContactEmail,
		CommissionPct:  commission,
		PortalURL:      req.PortalURL,
		PortalUsername: encUsername,
		PortalPassword: encPassword,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, intermediary); err != nil {
		return nil, apperror.Internal("create intermediary", err)
	}

	return s.toResponse(intermediary)
}

func (s *intermediaryService) GetIntermediary(ctx context.Context, id uuid.UUID) (*IntermediaryResponse, error) {
	intermediary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("intermediary %s not found", id)
	}
	return s.toResponse(intermediary)
}

func (s *intermediaryService) ListIntermediaries(ctx context.Context, p pagination.Params) ([]IntermediaryResponse, int64, error) {
	intermediaries, total, err := s.repo.List(ctx, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, apperror.Internal("list intermediaries", err)
	}

	res := make([]IntermediaryResponse, 0, len(intermediaries))
	for i := range intermediaries {
		resp, err := s.toResponse(&intermediaries[i])
		if err != nil {
			return nil, 0, err
		}
		res = append(res, *resp)
	}
	return res, total, nil
}

func (s *intermediaryService) UpdateIntermediary(ctx context.Context, id uuid.UUID, req UpdateIntermediaryRequest) (*IntermediaryResponse, error) {
	intermediary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("intermediary %s not found", id)
	}

	if req.Name != nil && *req.Name != intermediary.Name {
		if *req.Name == "" {
			return nil, apperror.Validation("name must not be empty")
		}
		if _, err := s.repo.FindByName(ctx, *req.Name); err == nil {
			return nil, apperror.Conflict("intermediary %q already exists", *req.Name)
		}
		intermediary.Name = *req.Name
	}
	if req.ContactEmail != nil {
		intermediary.ContactEmail = *req.ContactEmail
	}
	if req.CommissionPct != nil {
		commission, err := parsePercent("commission_pct", *req.CommissionPct)
		if err != nil {
			return nil, err
		}
		intermediary.CommissionPct = commission
	}
	if req.PortalURL != nil {
		intermediary.PortalURL = *req.PortalURL
	}
	if req.PortalUsername != nil {
		enc, err := s.cipher.Encrypt(*req.PortalUsername)
		if err != nil {
			return nil, apperror.Internal("encrypt portal username", err)
		}
		intermediary.PortalUsername = enc
	}
	if req.PortalPassword != nil {
		enc, err := s.cipher.Encrypt(*req.PortalPassword)
		if err != nil {
			return nil, apperror.Internal("encrypt portal password", err)
		}
		intermediary.PortalPassword = enc
	}
	if req.Notes != nil {
		intermediary.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, intermediary); err != nil {
		return nil, apperror.Internal("update intermediary", err)
	}
	return s.toResponse(intermediary)
}

func (s *intermediaryService) DeleteIntermediary(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperror.NotFound("intermediary %s not found", id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.Internal("delete intermediary", err)
	}
	return nil
}

// --- Helpers ---

func (s *intermediaryService) toResponse(i *model.Intermediary) (*IntermediaryResponse, error) {
	username, err := s.cipher.Decrypt(i.PortalUsername)
	if err != nil {
		return nil, apperror.Internal("decrypt portal username", err)
	}

	return &IntermediaryResponse{
		ID:                i.ID.String(),
		Name:              i.Name,
		ContactEmail:      i.ContactEmail,
		CommissionPct:     i.CommissionPct.StringFixed(2),
		PortalURL:         i.PortalURL,
		PortalUsername:    username,
		HasPortalPassword: i.PortalPassword != "",
		Notes:             i.Notes,
		CreatedAt:         i.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         i.UpdatedAt.Format(time.RFC3339),
	}, nil
}
