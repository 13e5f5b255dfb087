package domain

import "time"

// IDPrefix marks generated customer ids.
const IDPrefix = "CUST-"

type Customer struct {
	ID             string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name           string    `gorm:"type:varchar(120);not null" json:"name"`
	Type           string    `gorm:"type:varchar(32);not null" json:"type"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone          string    `gorm:"type:varchar(32)" json:"phone,omitempty"`
	ServiceAddress string    `gorm:"type:varchar(255)" json:"serviceAddress,omitempty"`
	BillingAddress string    `gorm:"type:varchar(255)" json:"billingAddress,omitempty"`
	RegisteredAt   time.Time `gorm:"not null" json:"registeredAt"`
	UpdatedAt      time.Time `gorm:"not null" json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }
