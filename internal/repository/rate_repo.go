package repository

import (
	"context"

	"rentledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RateRepository interface {
	Create(ctx context.Context, rate *model.Rate) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rate, error)
	List(ctx context.Context, limit, offset int) ([]model.Rate, int64, error)
	ListByApartment(ctx context.Context, apartmentID uuid.UUID) ([]model.Rate, error)
	Update(ctx context.Context, rate *model.Rate) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error
}

type rateRepository struct {
	db *gorm.DB
}

func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

func (r *rateRepository) Create(ctx context.Context, rate *model.Rate) error {
	return GetDB(ctx, r.db).Create(rate).Error
}

func (r *rateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rate, error) {
	var rate model.Rate
	if err := GetDB(ctx, r.db).First(&rate, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *rateRepository) List(ctx context.Context, limit, offset int) ([]model.Rate, int64, error) {
	var rates []model.Rate
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Rate{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Apartment").Order("created_at desc").Offset(offset).Limit(limit).Find(&rates).Error; err != nil {
		return nil, 0, err
	}

	return rates, total, nil
}

func (r *rateRepository) ListByApartment(ctx context.Context, apartmentID uuid.UUID) ([]model.Rate, error) {
	var rates []model.Rate
	if err := GetDB(ctx, r.db).Where("apartment_id = ?", apartmentID).Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *rateRepository) Update(ctx context.Context, rate *model.Rate) error {
	return GetDB(ctx, r.db).Save(rate).Error
}

func (r *rateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Rate{}).Error
}

func (r *rateRepository) DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("apartment_id = ?", apartmentID).Delete(&model.Rate{}).Error
}
