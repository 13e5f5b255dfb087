package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSqlite(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))

	for _, table := range []string{"meters", "meter_readings", "bills", "bill_lines", "payments", "audit_logs"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	// idempotent
	require.NoError(t, Migrate(conn))
}

func TestForeignKeyStatement(t *testing.T) {
	fk := foreignKey{"bill_lines", "reading_id", "meter_readings"}
	assert.Equal(t, "fk_bill_lines_reading_id", fk.name())
	assert.Equal(t,
		"ALTER TABLE bill_lines ADD CONSTRAINT fk_bill_lines_reading_id FOREIGN KEY (reading_id) REFERENCES meter_readings (id)",
		fk.statement())
}

func TestBillReferencesAreDeclared(t *testing.T) {
	up, err := fs.ReadFile(embeddedMigrations, "migrations/000002_bill_references.up.sql")
	require.NoError(t, err)
	for _, name := range []string{"fk_bills_reading_id", "fk_bill_lines_meter_id", "fk_bill_lines_reading_id"} {
		assert.Contains(t, string(up), name)
	}

	declared := map[string]bool{}
	for _, fk := range foreignKeys {
		declared[fk.table+"."+fk.column] = true
	}
	for _, col := range []string{"bills.reading_id", "bill_lines.meter_id", "bill_lines.reading_id"} {
		assert.True(t, declared[col], col)
	}
}
