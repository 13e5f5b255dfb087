package logger

import (
	"context"
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	cases := []struct {
		sql  string
		want string
	}{
		{"SELECT id FROM bills", "SELECT"},
		{"  insert into payments (id) values (?)", "INSERT"},
		{"WITH x AS (SELECT 1) DELETE FROM bills", "SELECT"},
		{"EXEC sp_getapplock @Resource = ?", "EXEC"},
		{"(UPDATE bills SET status = ?)", "UPDATE"},
		{"", "UNKNOWN"},
		{"PRAGMA foreign_keys = ON", "UNKNOWN"},
	}
	for _, tc := range cases {
		if got := OperationFromSQL(tc.sql); got != tc.want {
			t.Fatalf("OperationFromSQL(%q) = %s, want %s", tc.sql, got, tc.want)
		}
	}
}

func TestLogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger(DefaultGormLoggerConfig())
	quiet := base.LogMode(gormlogger.Silent).(*GormLogger)
	if quiet.cfg.Level != gormlogger.Silent {
		t.Fatalf("expected silent level, got %v", quiet.cfg.Level)
	}
	if base.cfg.Level != gormlogger.Warn {
		t.Fatalf("base logger level mutated: %v", base.cfg.Level)
	}
}

func TestParamsFilterDropsValues(t *testing.T) {
	l := NewGormLogger(DefaultGormLoggerConfig())
	sql, params := l.ParamsFilter(context.Background(), "SELECT 1 WHERE password_hash = ?", "secret")
	if sql != "SELECT 1 WHERE password_hash = ?" || params != nil {
		t.Fatalf("unexpected filter result %q %v", sql, params)
	}
}
