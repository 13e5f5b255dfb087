package domain

import (
	"context"
	"errors"
)

type CreateRequest struct {
	ID         string
	CustomerID string
	UtilityID  string
	Status     string
	Location   string
}

type UpdateRequest struct {
	ID         string
	CustomerID *string
	UtilityID  *string
	Status     *string
	Location   *string
}

type ListRequest struct {
	CustomerID string
	UtilityID  string
	Status     string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Meter, error)
	Update(ctx context.Context, req UpdateRequest) (Meter, error)
	GetByID(ctx context.Context, id string) (MeterDetails, error)
	List(ctx context.Context, req ListRequest) ([]MeterDetails, error)
	// RouteSheet lists active meters with no reading for period ("YYYY-MM").
	// An empty period means the current month.
	RouteSheet(ctx context.Context, period string) ([]RouteStop, error)
}

var (
	ErrInvalidID       = errors.New("invalid_meter_id")
	ErrInvalidCustomer = errors.New("invalid_customer_id")
	ErrInvalidUtility  = errors.New("invalid_utility_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidLocation = errors.New("invalid_location")
	ErrInvalidPeriod   = errors.New("invalid_period")
	ErrUnknownCustomer = errors.New("unknown_customer")
	ErrUnknownUtility  = errors.New("unknown_utility")
	ErrNotFound        = errors.New("meter_not_found")
	ErrExists          = errors.New("meter_exists")
)
