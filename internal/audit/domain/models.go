package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ActorType string

const (
	ActorTypeStaff  ActorType = "staff"
	ActorTypeSystem ActorType = "system"
)

type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ActorType  string            `gorm:"type:varchar(16);not null" json:"actorType"`
	ActorID    *string           `gorm:"type:varchar(32)" json:"actorId,omitempty"`
	Action     string            `gorm:"type:varchar(64);not null;index" json:"action"`
	TargetType string            `gorm:"type:varchar(32);not null" json:"targetType"`
	TargetID   *string           `gorm:"type:varchar(32);index" json:"targetId,omitempty"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }
