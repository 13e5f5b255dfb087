package domain

import "context"

type Service interface {
	Verify(ctx context.Context, req VerifyRequest) (Identity, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (Staff, error)
	GetStaff(ctx context.Context, id string) (Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)
}

type VerifyRequest struct {
	Username string
	Password string
	Role     string
}

type CreateStaffRequest struct {
	ID       string
	Username string
	FullName string
	Role     string
	Password string
}
