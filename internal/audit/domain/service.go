package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry describes one mutation to record. Actor fields fall back to the
// actor carried on the context.
type Entry struct {
	ActorType  ActorType
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Metadata   map[string]any
}

type ListAuditLogRequest struct {
	pagination.Pagination
	Action     string
	TargetType string
	TargetID   string
}

type ListAuditLogResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"auditLogs"`
}

type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]AuditLog, error)
}

type Service interface {
	// Record writes entry on db, which is the transaction of the mutation
	// being recorded.
	Record(ctx context.Context, db *gorm.DB, entry Entry) error
	List(ctx context.Context, req ListAuditLogRequest) (ListAuditLogResponse, error)
}

var (
	ErrInvalidAction     = errors.New("invalid_action")
	ErrInvalidTargetType = errors.New("invalid_target_type")
)
