package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListMeterFilter struct {
	CustomerID string
	UtilityID  string
	Status     Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, meter *Meter) error
	Update(ctx context.Context, db *gorm.DB, meter *Meter) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Meter, error)
	FindDetails(ctx context.Context, db *gorm.DB, id string) (*MeterDetails, error)
	List(ctx context.Context, db *gorm.DB, filter ListMeterFilter) ([]MeterDetails, error)
	ListUnread(ctx context.Context, db *gorm.DB, period string) ([]RouteStop, error)
	CustomerExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
	UtilityExists(ctx context.Context, db *gorm.DB, id string) (bool, error)
}
