package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"mysql", &mysql.MySQLError{Number: 1062}, true},
		{"sqlserver", mssql.Error{Number: 2627}, true},
		{"sqlserver index", mssql.Error{Number: 2601}, true},
		{"sqlite text", errors.New("UNIQUE constraint failed: bills.customer_id, bills.billing_period"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDuplicateKeyErr(tc.err); got != tc.want {
				t.Fatalf("IsDuplicateKeyErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestUniqueIndexViolationOnSqlite(t *testing.T) {
	conn, err := NewTest()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := conn.Exec("CREATE TABLE t (k TEXT NOT NULL UNIQUE)").Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Exec("INSERT INTO t (k) VALUES (?)", "a").Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	err = conn.Exec("INSERT INTO t (k) VALUES (?)", "a").Error
	if !IsDuplicateKeyErr(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}
