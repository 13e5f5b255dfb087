package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Locker takes pessimistic locks inside a unit of work. Locks are released
// when the transaction ends.
type Locker struct {
	timeout time.Duration
}

func NewLocker(opts Options) *Locker {
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Locker{timeout: timeout}
}

// Advisory serializes units of work sharing key. Dialects without a
// transaction-scoped named lock rely on row locks and unique indexes instead.
func (l *Locker) Advisory(ctx context.Context, tx *gorm.DB, key string) error {
	tx = tx.WithContext(ctx)
	switch tx.Dialector.Name() {
	case "postgres":
		return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
	case "sqlserver":
		var status int
		err := tx.Raw(
			"DECLARE @r int; EXEC @r = sp_getapplock @Resource = ?, @LockMode = 'Exclusive', @LockOwner = 'Transaction', @LockTimeout = ?; SELECT @r",
			key, l.timeout.Milliseconds(),
		).Scan(&status).Error
		if err != nil {
			return err
		}
		if status < 0 {
			return fmt.Errorf("advisory lock %q not granted: %d", key, status)
		}
		return nil
	default:
		return nil
	}
}

// LockRow loads the row where column = key into dest and holds an update lock
// on it. It reports false when no such row exists.
func (l *Locker) LockRow(ctx context.Context, tx *gorm.DB, table, column string, key any, dest any) (bool, error) {
	err := l.forUpdate(ctx, tx, table).Where(column+" = ?", key).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LockRows loads every row where column = key into dest, a pointer to a
// slice, and holds update locks on them in primary key order.
func (l *Locker) LockRows(ctx context.Context, tx *gorm.DB, table, column string, key any, dest any) error {
	return l.forUpdate(ctx, tx, table).Where(column+" = ?", key).Order("id").Find(dest).Error
}

func (l *Locker) forUpdate(ctx context.Context, tx *gorm.DB, table string) *gorm.DB {
	q := tx.WithContext(ctx)
	switch q.Dialector.Name() {
	case "postgres", "mysql":
		return q.Table(table).Clauses(clause.Locking{Strength: "UPDATE"})
	case "sqlserver":
		return q.Table(table + " WITH (UPDLOCK, ROWLOCK)")
	default:
		return q.Table(table)
	}
}
