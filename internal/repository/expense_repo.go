package repository

import (
	"context"
	"time"

	"rentledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, limit, offset int) ([]model.Expense, int64, error)
	ListAll(ctx context.Context) ([]model.Expense, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Expense, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Apartment").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, limit, offset int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Expense{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Apartment").Order("date desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAll returns every stored expense, oldest first, for the unbounded
// settlement.
func (r *expenseRepository) ListAll(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := GetDB(ctx, r.db).Order("date asc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

// ListByDateRange returns expenses whose date falls inside [start, end],
// both bounds inclusive.
func (r *expenseRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := GetDB(ctx, r.db).Where("date >= ? AND date <= ?", start, end).
		Order("date asc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *expenseRepository) DeleteByApartment(ctx context.Context, apartmentID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("apartment_id = ?", apartmentID).Delete(&model.Expense{}).Error
}
