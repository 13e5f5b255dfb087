package domain

import "time"

// UtilityType is reference data: created by administrators, never updated or deleted.
type UtilityType struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Unit      string    `gorm:"type:varchar(16)" json:"unit,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (UtilityType) TableName() string { return "utility_types" }
