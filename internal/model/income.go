package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income is a booked stay. Nights, TotalIVA and TotalInvoice are derived
// from the referenced rate on every write and never accepted from clients.
type Income struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ApartmentID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"apartment_id"`
	Apartment      *Apartment      `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
	RateID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"rate_id"`
	Rate           *Rate           `gorm:"foreignKey:RateID" json:"rate,omitempty"`
	IntermediaryID *uuid.UUID      `gorm:"type:uuid;index" json:"intermediary_id"`
	Intermediary   *Intermediary   `gorm:"foreignKey:IntermediaryID" json:"intermediary,omitempty"`
	Guest          string          `gorm:"type:varchar(255)" json:"guest"`
	NumberOfPeople int             `gorm:"column:number_of_people;not null" json:"number_of_people"`
	CheckIn        time.Time       `gorm:"column:check_in;not null;index" json:"check_in"`
	CheckOut       time.Time       `gorm:"column:check_out;not null" json:"check_out"`
	Discount       decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount"` // percent, 0-100, applied before VAT
	Nights         int             `gorm:"not null" json:"nights"`
	TotalIVA       decimal.Decimal `gorm:"column:total_iva;type:decimal(12,2);not null" json:"total_iva"`
	TotalInvoice   decimal.Decimal `gorm:"column:total_invoice;type:decimal(12,2);not null" json:"total_invoice"`
	Paid           bool            `gorm:"default:false" json:"paid"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Income) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
