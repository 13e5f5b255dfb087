package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type widget struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func TestDoCommits(t *testing.T) {
	conn := newTestDB(t)
	uow := NewUnitOfWork(conn, Options{}, zap.NewNop())

	err := uow.Do(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&widget{ID: "w1", Name: "first"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDoRollsBackOnError(t *testing.T) {
	conn := newTestDB(t)
	uow := NewUnitOfWork(conn, Options{}, zap.NewNop())
	boom := errors.New("boom")

	err := uow.Do(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&widget{ID: "w1"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrUnavailable))

	var count int64
	require.NoError(t, conn.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDomainErrorsDoNotTripBreaker(t *testing.T) {
	conn := newTestDB(t)
	uow := NewUnitOfWork(conn, Options{BreakerFailures: 2}, zap.NewNop())
	rejected := errors.New("duplicate_reading")

	for i := 0; i < 5; i++ {
		err := uow.Do(context.Background(), func(*gorm.DB) error { return rejected })
		assert.ErrorIs(t, err, rejected)
	}
	assert.Equal(t, gobreaker.StateClosed, uow.breaker.State())
}

func TestClosedDatabaseOpensBreaker(t *testing.T) {
	conn := newTestDB(t)
	uow := NewUnitOfWork(conn, Options{BreakerFailures: 2, BreakerTimeout: time.Minute}, zap.NewNop())

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for i := 0; i < 2; i++ {
		err := uow.Do(context.Background(), func(tx *gorm.DB) error {
			return tx.Create(&widget{ID: "w1"}).Error
		})
		assert.ErrorIs(t, err, ErrUnavailable)
	}

	called := false
	err = uow.Do(context.Background(), func(*gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, called)
}

func TestLockRow(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, conn.Create(&widget{ID: "w1", Name: "first"}).Error)
	uow := NewUnitOfWork(conn, Options{}, zap.NewNop())
	locker := NewLocker(Options{})

	err := uow.Do(context.Background(), func(tx *gorm.DB) error {
		var w widget
		found, err := locker.LockRow(context.Background(), tx, "widgets", "id", "w1", &w)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "first", w.Name)

		found, err = locker.LockRow(context.Background(), tx, "widgets", "id", "missing", &widget{})
		require.NoError(t, err)
		assert.False(t, found)

		return locker.Advisory(context.Background(), tx, "widget:w1")
	})
	require.NoError(t, err)
}

func TestLockRowsLoadsEveryMatch(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, conn.Create([]widget{
		{ID: "w2", Name: "shared"},
		{ID: "w1", Name: "shared"},
		{ID: "w3", Name: "other"},
	}).Error)
	uow := NewUnitOfWork(conn, Options{}, zap.NewNop())
	locker := NewLocker(Options{})

	err := uow.Do(context.Background(), func(tx *gorm.DB) error {
		var locked []widget
		if err := locker.LockRows(context.Background(), tx, "widgets", "name", "shared", &locked); err != nil {
			return err
		}
		require.Len(t, locked, 2)
		assert.Equal(t, "w1", locked[0].ID)
		assert.Equal(t, "w2", locked[1].ID)

		var none []widget
		if err := locker.LockRows(context.Background(), tx, "widgets", "name", "missing", &none); err != nil {
			return err
		}
		assert.Empty(t, none)
		return nil
	})
	require.NoError(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(errors.New("UNIQUE constraint failed: bills.id")))
	assert.False(t, IsTransient(nil))
}

func TestParseIsolation(t *testing.T) {
	assert.Equal(t, "Serializable", parseIsolation("serializable").String())
	assert.Equal(t, "Repeatable Read", parseIsolation("repeatable_read").String())
	assert.Equal(t, "Read Committed", parseIsolation("").String())
}
