package repository

import (
	"context"

	"rentledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApartmentRepository interface {
	Create(ctx context.Context, apartment *model.Apartment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Apartment, error)
	FindByName(ctx context.Context, name string) (*model.Apartment, error)
	List(ctx context.Context, limit, offset int) ([]model.Apartment, int64, error)
	Update(ctx context.Context, apartment *model.Apartment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type apartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) ApartmentRepository {
	return &apartmentRepository{db: db}
}

func (r *apartmentRepository) Create(ctx context.Context, apartment *model.Apartment) error {
	return GetDB(ctx, r.db).Create(apartment).Error
}

func (r *apartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Apartment, error) {
	var apartment model.Apartment
	if err := GetDB(ctx, r.db).First(&apartment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepository) FindByName(ctx context.Context, name string) (*model.Apartment, error) {
	var apartment model.Apartment
	if err := GetDB(ctx, r.db).First(&apartment, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepository) List(ctx context.Context, limit, offset int) ([]model.Apartment, int64, error) {
	var apartments []model.Apartment
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Apartment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&apartments).Error; err != nil {
		return nil, 0, err
	}

	return apartments, total, nil
}

func (r *apartmentRepository) Update(ctx context.Context, apartment *model.Apartment) error {
	return GetDB(ctx, r.db).Save(apartment).Error
}

func (r *apartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Apartment{}).Error
}
