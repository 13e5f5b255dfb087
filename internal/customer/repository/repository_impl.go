package repository

import (
	"context"

	"github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, type, email, phone, service_address, billing_address, registered_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Type,
		customer.Email,
		customer.Phone,
		customer.ServiceAddress,
		customer.BillingAddress,
		customer.RegisteredAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE customers
		 SET name = ?, type = ?, email = ?, phone = ?, service_address = ?, billing_address = ?, updated_at = ?
		 WHERE id = ?`,
		customer.Name,
		customer.Type,
		customer.Email,
		customer.Phone,
		customer.ServiceAddress,
		customer.BillingAddress,
		customer.UpdatedAt,
		customer.ID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, type, email, phone, service_address, billing_address, registered_at, updated_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == "" {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]domain.Customer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	stmt, err := pagination.Apply(stmt, page, "id", nil)
	if err != nil {
		return nil, err
	}

	var customers []domain.Customer
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}
