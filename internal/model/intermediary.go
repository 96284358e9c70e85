package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Intermediary is a booking channel (OTA, agency) that sources stays.
// Portal credentials are AES-GCM encrypted before they reach this struct's
// columns and are never serialized raw.
type Intermediary struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	ContactEmail   string          `gorm:"type:varchar(255)" json:"contact_email"`
	CommissionPct  decimal.Decimal `gorm:"column:commission_pct;type:decimal(5,2);default:0" json:"commission_pct"` // percent, 0-100
	PortalURL      string          `gorm:"type:varchar(255)" json:"portal_url"`
	PortalUsername string          `gorm:"type:text" json:"-"`
	PortalPassword string          `gorm:"type:text" json:"-"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Intermediary) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
