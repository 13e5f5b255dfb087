package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, staff *Staff) error
	FindByID(ctx context.Context, db *gorm.DB, id string) (*Staff, error)
	FindByUsername(ctx context.Context, db *gorm.DB, username string) (*Staff, error)
	UpdatePasswordHash(ctx context.Context, db *gorm.DB, id, hash string) error
	List(ctx context.Context, db *gorm.DB) ([]Staff, error)
}
