package domain

import (
	"strings"
	"time"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// ParseStatus accepts the two meter states case-insensitively.
func ParseStatus(value string) (Status, bool) {
	switch {
	case strings.EqualFold(strings.TrimSpace(value), string(StatusActive)):
		return StatusActive, true
	case strings.EqualFold(strings.TrimSpace(value), string(StatusInactive)):
		return StatusInactive, true
	default:
		return "", false
	}
}

type Meter struct {
	ID          string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	CustomerID  string    `gorm:"type:varchar(32);not null;index" json:"customerId"`
	UtilityID   string    `gorm:"type:varchar(32);not null;index" json:"utilityId"`
	Status      Status    `gorm:"type:varchar(16);not null" json:"status"`
	Location    string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	InstalledAt time.Time `gorm:"not null" json:"installedAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Meter) TableName() string { return "meters" }

// MeterDetails is a meter joined with its customer and utility names.
type MeterDetails struct {
	Meter
	CustomerName   string `json:"customerName"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
	UtilityName    string `json:"utilityName"`
}

// RouteStop is an active meter still waiting for its reading in a period.
type RouteStop struct {
	MeterID        string `json:"meterId"`
	CustomerID     string `json:"customerId"`
	CustomerName   string `json:"customerName"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
	UtilityName    string `json:"utilityName"`
	Location       string `json:"location,omitempty"`
}
