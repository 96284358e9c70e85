package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a cost entry against an apartment. TotalIVA and TotalInvoice
// are derived from Amount and IVA on every write.
type Expense struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentID  *uuid.UUID      `gorm:"type:uuid;index" json:"apartment_id"` // nil for costs not tied to one unit
	Apartment    *Apartment      `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
	Concept      string          `gorm:"type:varchar(255);not null" json:"concept"`
	Amount       decimal.Decimal `gorm:"column:expense;type:decimal(12,2);not null" json:"expense"`
	IVA          decimal.Decimal `gorm:"column:iva;type:decimal(5,2);not null" json:"iva"` // VAT percent, 0-100
	TotalIVA     decimal.Decimal `gorm:"column:total_iva;type:decimal(12,2);not null" json:"total_iva"`
	TotalInvoice decimal.Decimal `gorm:"column:total_invoice;type:decimal(12,2);not null" json:"total_invoice"`
	Date         time.Time       `gorm:"not null;index" json:"date"`
	Paid         bool            `gorm:"default:false" json:"paid"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
