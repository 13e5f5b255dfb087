package repository

import (
	"context"

	"github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, utility *domain.UtilityType) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO utility_types (id, name, unit, created_at) VALUES (?, ?, ?, ?)`,
		utility.ID,
		utility.Name,
		utility.Unit,
		utility.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.UtilityType, error) {
	var utility domain.UtilityType
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, unit, created_at FROM utility_types WHERE id = ?`,
		id,
	).Scan(&utility).Error
	if err != nil {
		return nil, err
	}
	if utility.ID == "" {
		return nil, nil
	}
	return &utility, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.UtilityType, error) {
	var items []domain.UtilityType
	err := db.WithContext(ctx).
		Model(&domain.UtilityType{}).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
