package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	ID             string
	Name           string
	Type           string
	Email          string
	Phone          string
	ServiceAddress string
	BillingAddress string
}

type UpdateCustomerRequest struct {
	ID             string
	Name           string
	Type           string
	Email          string
	Phone          string
	ServiceAddress string
	BillingAddress string
}

type ListCustomerRequest struct {
	PageToken string
	PageSize  int
	Name      string
	Type      string
}

type ListCustomerFilter struct {
	Name string
	Type string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	GetByID(context.Context, string) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
}

var (
	ErrInvalidID    = errors.New("invalid_customer_id")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidType  = errors.New("invalid_customer_type")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrNotFound     = errors.New("customer_not_found")
	ErrExists       = errors.New("customer_exists")
)
