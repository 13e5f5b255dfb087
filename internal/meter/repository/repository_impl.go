package repository

import (
	"context"

	"github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const detailsSelect = `m.id, m.customer_id, m.utility_id, m.status, m.location, m.installed_at, m.updated_at,
	c.name AS customer_name, c.service_address, u.name AS utility_name`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, meter *domain.Meter) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO meters (id, customer_id, utility_id, status, location, installed_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meter.ID,
		meter.CustomerID,
		meter.UtilityID,
		meter.Status,
		meter.Location,
		meter.InstalledAt,
		meter.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, meter *domain.Meter) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE meters SET customer_id = ?, utility_id = ?, status = ?, location = ?, updated_at = ? WHERE id = ?`,
		meter.CustomerID,
		meter.UtilityID,
		meter.Status,
		meter.Location,
		meter.UpdatedAt,
		meter.ID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Meter, error) {
	var meter domain.Meter
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, utility_id, status, location, installed_at, updated_at FROM meters WHERE id = ?`,
		id,
	).Scan(&meter).Error
	if err != nil {
		return nil, err
	}
	if meter.ID == "" {
		return nil, nil
	}
	return &meter, nil
}

func (r *repo) FindDetails(ctx context.Context, db *gorm.DB, id string) (*domain.MeterDetails, error) {
	var details domain.MeterDetails
	err := db.WithContext(ctx).Raw(
		`SELECT `+detailsSelect+`
		 FROM meters m
		 JOIN customers c ON c.id = m.customer_id
		 JOIN utility_types u ON u.id = m.utility_id
		 WHERE m.id = ?`,
		id,
	).Scan(&details).Error
	if err != nil {
		return nil, err
	}
	if details.ID == "" {
		return nil, nil
	}
	return &details, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListMeterFilter) ([]domain.MeterDetails, error) {
	stmt := db.WithContext(ctx).
		Table("meters m").
		Select(detailsSelect).
		Joins("JOIN customers c ON c.id = m.customer_id").
		Joins("JOIN utility_types u ON u.id = m.utility_id")
	if filter.CustomerID != "" {
		stmt = stmt.Where("m.customer_id = ?", filter.CustomerID)
	}
	if filter.UtilityID != "" {
		stmt = stmt.Where("m.utility_id = ?", filter.UtilityID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("m.status = ?", filter.Status)
	}

	var items []domain.MeterDetails
	if err := stmt.Order("m.id asc").Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListUnread(ctx context.Context, db *gorm.DB, period string) ([]domain.RouteStop, error) {
	var stops []domain.RouteStop
	err := db.WithContext(ctx).Raw(
		`SELECT m.id AS meter_id, m.customer_id, c.name AS customer_name, c.service_address,
		        u.name AS utility_name, m.location
		 FROM meters m
		 JOIN customers c ON c.id = m.customer_id
		 JOIN utility_types u ON u.id = m.utility_id
		 WHERE m.status = ?
		   AND NOT EXISTS (
		     SELECT 1 FROM meter_readings r
		     WHERE r.meter_id = m.id AND r.reading_period = ?
		   )
		 ORDER BY c.service_address, m.id`,
		domain.StatusActive,
		period,
	).Scan(&stops).Error
	if err != nil {
		return nil, err
	}
	return stops, nil
}

func (r *repo) CustomerExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return exists(ctx, db, `SELECT COUNT(1) FROM customers WHERE id = ?`, id)
}

func (r *repo) UtilityExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	return exists(ctx, db, `SELECT COUNT(1) FROM utility_types WHERE id = ?`, id)
}

func exists(ctx context.Context, db *gorm.DB, query string, id string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Raw(query, id).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
