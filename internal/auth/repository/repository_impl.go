package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const staffColumns = `id, username, full_name, role, password_hash, created_at, updated_at`

func (r *repo) Insert(ctx context.Context, db *gorm.DB, staff *domain.Staff) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO staff_users (`+staffColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		staff.ID,
		staff.Username,
		staff.FullName,
		staff.Role,
		staff.PasswordHash,
		staff.CreatedAt,
		staff.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Staff, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.Staff, error) {
	return r.findOne(ctx, db, `username = ?`, username)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, cond string, arg any) (*domain.Staff, error) {
	var staff domain.Staff
	err := db.WithContext(ctx).Raw(
		`SELECT `+staffColumns+` FROM staff_users WHERE `+cond,
		arg,
	).Scan(&staff).Error
	if err != nil {
		return nil, err
	}
	if staff.ID == "" {
		return nil, nil
	}
	return &staff, nil
}

func (r *repo) UpdatePasswordHash(ctx context.Context, db *gorm.DB, id, hash string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE staff_users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		hash, time.Now().UTC(), id,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := db.WithContext(ctx).Raw(
		`SELECT ` + staffColumns + ` FROM staff_users ORDER BY username`,
	).Scan(&staff).Error
	return staff, err
}
