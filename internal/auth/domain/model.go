// Package domain contains core types for staff authentication.
package domain

import "time"

// IDPrefix marks generated staff ids.
const IDPrefix = "STAFF-"

// Staff is a back-office account. PasswordHash holds an Argon2id encoding, or
// a legacy plaintext value awaiting rehash.
type Staff struct {
	ID           string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Username     string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	FullName     string    `gorm:"type:varchar(120);not null" json:"fullName"`
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Staff) TableName() string { return "staff_users" }

// Identity is what a successful verification yields.
type Identity struct {
	StaffID  string `json:"staffId"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (s Staff) Identity() Identity {
	return Identity{StaffID: s.ID, FullName: s.FullName, Role: s.Role}
}
