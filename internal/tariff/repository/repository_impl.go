package repository

import (
	"context"

	"github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tariff *domain.Tariff) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO tariffs (id, utility_id, name, rate, min_units, fixed_charge, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tariff.ID,
		tariff.UtilityID,
		tariff.Name,
		tariff.Rate,
		tariff.MinUnits,
		tariff.FixedCharge,
		tariff.CreatedAt,
		tariff.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tariff *domain.Tariff) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE tariffs SET utility_id = ?, name = ?, rate = ?, min_units = ?, fixed_charge = ?, updated_at = ?
		 WHERE id = ?`,
		tariff.UtilityID,
		tariff.Name,
		tariff.Rate,
		tariff.MinUnits,
		tariff.FixedCharge,
		tariff.UpdatedAt,
		tariff.ID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Tariff, error) {
	var tariff domain.Tariff
	err := db.WithContext(ctx).Raw(
		`SELECT id, utility_id, name, rate, min_units, fixed_charge, created_at, updated_at
		 FROM tariffs WHERE id = ?`,
		id,
	).Scan(&tariff).Error
	if err != nil {
		return nil, err
	}
	if tariff.ID == "" {
		return nil, nil
	}
	return &tariff, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, utilityID string) ([]domain.Tariff, error) {
	stmt := db.WithContext(ctx).Model(&domain.Tariff{})
	if utilityID != "" {
		stmt = stmt.Where("utility_id = ?", utilityID)
	}
	var items []domain.Tariff
	if err := stmt.Order("utility_id asc, created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UtilityExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Raw(`SELECT COUNT(1) FROM utility_types WHERE id = ?`, id).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
