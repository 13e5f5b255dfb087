package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CreateUtilityTypeRequest struct {
	ID   string
	Name string
	Unit string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, utility *UtilityType) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*UtilityType, error)
	List(ctx context.Context, db *gorm.DB) ([]UtilityType, error)
}

type Service interface {
	Create(context.Context, CreateUtilityTypeRequest) (UtilityType, error)
	GetByID(context.Context, string) (UtilityType, error)
	List(context.Context) ([]UtilityType, error)
}

var (
	ErrInvalidID   = errors.New("invalid_utility_id")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidUnit = errors.New("invalid_unit")
	ErrNotFound    = errors.New("utility_type_not_found")
	ErrExists      = errors.New("utility_type_exists")
)
