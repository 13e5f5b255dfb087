package db

import (
	"fmt"
	"net/url"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// sqliteParams makes writers queue on the database lock instead of failing
// with SQLITE_BUSY, and takes that lock when the transaction begins.
const sqliteParams = "_busy_timeout=5000&_txlock=immediate"

func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.Port,
			cfg.SSLMode,
		)), nil
	case "sqlserver":
		dsn := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(cfg.User, cfg.Password),
			Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			RawQuery: url.Values{"database": []string{cfg.Name}}.Encode(),
		}
		return sqlserver.Open(dsn.String()), nil
	case "sqlite":
		name := cfg.Name
		if name == "" {
			name = "utilitydesk"
		}
		return sqlite.Open(name + ".db?" + sqliteParams), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
}
