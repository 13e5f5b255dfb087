package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options tunes the unit-of-work runner.
type Options struct {
	Isolation       string
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	LockTimeout     time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Isolation:       cfg.DBIsolation,
		BreakerFailures: cfg.Store.BreakerFailures,
		BreakerTimeout:  cfg.Store.BreakerTimeout,
		LockTimeout:     cfg.Store.LockTimeout,
	}
}

// UnitOfWork runs a function inside one database transaction. Everything the
// function does commits together or not at all.
type UnitOfWork struct {
	db      *gorm.DB
	breaker *gobreaker.CircuitBreaker
	opts    Options
	log     *zap.Logger
}

func NewUnitOfWork(db *gorm.DB, opts Options, log *zap.Logger) *UnitOfWork {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("store.unit_of_work")
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 10 * time.Second
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = 5 * time.Second
	}

	failures := opts.BreakerFailures
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "store",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return !IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &UnitOfWork{db: db, breaker: breaker, opts: opts, log: log}
}

// Do runs fn in a transaction. fn must issue every statement on tx.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	_, err := u.breaker.Execute(func() (interface{}, error) {
		db := u.db.WithContext(ctx)
		return nil, db.Transaction(func(tx *gorm.DB) error {
			if err := u.prepare(tx); err != nil {
				return err
			}
			return fn(tx)
		}, u.txOptions(db)...)
	})
	return u.classify(err)
}

// Read runs fn outside a transaction, still guarded by the breaker.
func (u *UnitOfWork) Read(ctx context.Context, fn func(db *gorm.DB) error) error {
	_, err := u.breaker.Execute(func() (interface{}, error) {
		return nil, fn(u.db.WithContext(ctx))
	})
	return u.classify(err)
}

func (u *UnitOfWork) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case IsTransient(err):
		u.log.Warn("transient store failure", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		return err
	}
}

func (u *UnitOfWork) prepare(tx *gorm.DB) error {
	if tx.Dialector.Name() == "postgres" {
		return tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.opts.LockTimeout.Milliseconds())).Error
	}
	return nil
}

func (u *UnitOfWork) txOptions(db *gorm.DB) []*sql.TxOptions {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []*sql.TxOptions{{Isolation: parseIsolation(u.opts.Isolation)}}
}

func parseIsolation(level string) sql.IsolationLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "repeatable_read":
		return sql.LevelRepeatableRead
	case "serializable":
		return sql.LevelSerializable
	default:
		return sql.LevelReadCommitted
	}
}
