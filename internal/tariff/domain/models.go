package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tariff prices consumption of one utility: fixedCharge + rate * max(units, minUnits).
type Tariff struct {
	ID          string          `gorm:"primaryKey;type:varchar(32)" json:"id"`
	UtilityID   string          `gorm:"type:varchar(32);not null;index" json:"utilityId"`
	Name        string          `gorm:"type:varchar(120);not null" json:"name"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	MinUnits    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"minUnits"`
	FixedCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fixedCharge"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updatedAt"`
}

func (Tariff) TableName() string { return "tariffs" }
