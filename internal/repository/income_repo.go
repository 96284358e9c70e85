package repository

import (
	"context"
	"time"

	"rentledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IncomeRepository interface {
	Create(ctx context.Context, income *model.Income) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Income, error)
	List(ctx context.Context, limit, offset int) ([]model.Income, int64, error)
	ListAll(ctx context.Context) ([]model.Income, error)
	ListByCheckInRange(ctx context.Context, start, end time.Time) ([]model.Income, error)
	ListByRate(ctx context.Context, rateID uuid.UUID) ([]model.Income, error)
	Update(ctx context.Context, income *model.Income) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error
}

type incomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) IncomeRepository {
	return &incomeRepository{db: db}
}

func (r *incomeRepository) Create(ctx context.Context, income *model.Income) error {
	return GetDB(ctx, r.db).Create(income).Error
}

func (r *incomeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Income, error) {
	var income model.Income
	if err := GetDB(ctx, r.db).Preload("Apartment").Preload("Rate").Preload("Intermediary").
		First(&income, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &income, nil
}

func (r *incomeRepository) List(ctx context.Context, limit, offset int) ([]model.Income, int64, error) {
	var incomes []model.Income
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Income{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Apartment").Preload("Rate").Preload("Intermediary").
		Order("check_in desc").Offset(offset).Limit(limit).Find(&incomes).Error; err != nil {
		return nil, 0, err
	}

	return incomes, total, nil
}

// ListAll returns every stored income, oldest stay first. Used by the
// unbounded settlement, which must see the full ledger.
func (r *incomeRepository) ListAll(ctx context.Context) ([]model.Income, error) {
	var incomes []model.Income
	if err := GetDB(ctx, r.db).Order("check_in asc").Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}

// ListByCheckInRange returns incomes whose check_in falls inside
// [start, end], both bounds inclusive.
func (r *incomeRepository) ListByCheckInRange(ctx context.Context, start, end time.Time) ([]model.Income, error) {
	var incomes []model.Income
	if err := GetDB(ctx, r.db).Where("check_in >= ? AND check_in <= ?", start, end).
		Order("check_in asc").Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}

func (r *incomeRepository) ListByRate(ctx context.Context, rateID uuid.UUID) ([]model.Income, error) {
	var incomes []model.Income
	if err := GetDB(ctx, r.db).Where("rate_id = ?", rateID).Find(&incomes).Error; err != nil {
		return nil, err
	}
	return incomes, nil
}

func (r *incomeRepository) Update(ctx context.Context, income *model.Income) error {
	return GetDB(ctx, r.db).Save(income).Error
}

func (r *incomeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Income{}).Error
}

func (r *incomeRepository) DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("apartment_id = ?", apartmentID).Delete(&model.Income{}).Error
}
