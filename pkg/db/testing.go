package db

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testSeq atomic.Int64

// NewTest opens an isolated in-memory database limited to one connection,
// so every statement inside a unit of work must run on its transaction.
func NewTest() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", testSeq.Add(1))
	conn, err := openTest(dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return conn, nil
}

// NewTestFile opens a file database under dir with a pool of conns
// connections, so units of work run on separate connections and contend for
// the database lock the way concurrent requests do.
func NewTestFile(dir string, conns int) (*gorm.DB, error) {
	path := filepath.Join(dir, fmt.Sprintf("ledger_%d.db", testSeq.Add(1)))
	dsn := path + "?_pragma=busy_timeout(5000)&_txlock=immediate"
	conn, err := openTest(dsn)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(conns)
	sqlDB.SetMaxIdleConns(conns)
	return conn, nil
}

func openTest(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
}
