package repository

import (
	"context"

	"rentledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntermediaryRepository interface {
	Create(ctx context.Context, intermediary *model.Intermediary) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Intermediary, error)
	FindByName(ctx context.Context, name string) (*model.Intermediary, error)
	List(ctx context.Context, limit, offset int) ([]model.Intermediary, int64, error)
	Update(ctx context.Context, intermediary *model.Intermediary) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type intermediaryRepository struct {
	db *gorm.DB
}

func NewIntermediaryRepository(db *gorm.DB) IntermediaryRepository {
	return &intermediaryRepository{db: db}
}

func (r *intermediaryRepository) Create(ctx context.Context, intermediary *model.Intermediary) error {
	return GetDB(ctx, r.db).Create(intermediary).Error
}

func (r *intermediaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Intermediary, error) {
	var intermediary model.Intermediary
	if err := GetDB(ctx, r.db).First(&intermediary, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &intermediary, nil
}

func (r *intermediaryRepository) FindByName(ctx context.Context, name string) (*model.Intermediary, error) {
	var intermediary model.Intermediary
	if err := GetDB(ctx, r.db).First(&intermediary, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &intermediary, nil
}

func (r *intermediaryRepository) List(ctx context.Context, limit, offset int) ([]model.Intermediary, int64, error) {
	var intermediaries []model.Intermediary
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Intermediary{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&intermediaries).Error; err != nil {
		return nil, 0, err
	}

	return intermediaries, total, nil
}

func (r *intermediaryRepository) Update(ctx context.Context, intermediary *model.Intermediary) error {
	return GetDB(ctx, r.db).Save(intermediary).Error
}

func (r *intermediaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Intermediary{}).Error
}
