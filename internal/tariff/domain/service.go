package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateRequest struct {
	ID          string
	UtilityID   string
	Name        string
	Rate        decimal.Decimal
	MinUnits    *decimal.Decimal
	FixedCharge *decimal.Decimal
}

type UpdateRequest struct {
	ID          string
	UtilityID   *string
	Name        *string
	Rate        *decimal.Decimal
	MinUnits    *decimal.Decimal
	FixedCharge *decimal.Decimal
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tariff *Tariff) error
	Update(ctx context.Context, db *gorm.DB, tariff *Tariff) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Tariff, error)
	List(ctx context.Context, db *gorm.DB, utilityID string) ([]Tariff, error)
	UtilityExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Tariff, error)
	Update(ctx context.Context, req UpdateRequest) (Tariff, error)
	GetByID(ctx context.Context, id string) (Tariff, error)
	List(ctx context.Context, utilityID string) ([]Tariff, error)
}

var (
	ErrInvalidID          = errors.New("invalid_tariff_id")
	ErrInvalidUtility     = errors.New("invalid_utility_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidRate        = errors.New("invalid_rate")
	ErrInvalidMinUnits    = errors.New("invalid_min_units")
	ErrInvalidFixedCharge = errors.New("invalid_fixed_charge")
	ErrUnknownUtility     = errors.New("unknown_utility")
	ErrNotFound           = errors.New("tariff_not_found")
	ErrExists             = errors.New("tariff_exists")
)
