package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Rate is a price card for an apartment: nightly price per guest plus
// the VAT percent applied to stays booked under it.
type Rate struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"apartment_id"`
	Apartment     *Apartment      `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	PricePerNight decimal.Decimal `gorm:"column:price_per_night;type:decimal(12,2);not null" json:"price_per_night"`
	IVA           decimal.Decimal `gorm:"column:iva;type:decimal(5,2);not null" json:"iva"` // VAT percent, 0-100
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Rate) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
