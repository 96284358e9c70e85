package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Apartment represents a rental unit under management. Deleting one
// removes its rates, incomes and expenses in the same transaction.
type Apartment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Owner     string    `gorm:"type:varchar(255)" json:"owner"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Apartment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
