package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table the ledger owns, in dependency order.
func Models() []any {
	return []any{
		&utilitydomain.UtilityType{},
		&customerdomain.Customer{},
		&meterdomain.Meter{},
		&tariffdomain.Tariff{},
		&billingdomain.MeterReading{},
		&billingdomain.Bill{},
		&billingdomain.BillLine{},
		&billingdomain.Payment{},
		&authdomain.Staff{},
		&auditdomain.AuditLog{},
	}
}

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; every other dialect is migrated from the models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if conn.Dialector.Name() == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return addForeignKeys(conn)
}

type foreignKey struct {
	table    string
	column   string
	refTable string
}

func (fk foreignKey) name() string {
	return "fk_" + fk.table + "_" + fk.column
}

func (fk foreignKey) statement() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (id)",
		fk.table, fk.name(), fk.column, fk.refTable)
}

// foreignKeys mirrors the references the SQL migrations declare. The models
// carry no associations, so AutoMigrate never creates them.
var foreignKeys = []foreignKey{
	{"meters", "customer_id", "customers"},
	{"meters", "utility_id", "utility_types"},
	{"tariffs", "utility_id", "utility_types"},
	{"meter_readings", "meter_id", "meters"},
	{"bills", "customer_id", "customers"},
	{"bills", "reading_id", "meter_readings"},
	{"bills", "tariff_id", "tariffs"},
	{"bill_lines", "bill_id", "bills"},
	{"bill_lines", "meter_id", "meters"},
	{"bill_lines", "reading_id", "meter_readings"},
	{"bill_lines", "tariff_id", "tariffs"},
	{"payments", "bill_id", "bills"},
}

// addForeignKeys adds the missing references on mysql and sqlserver. SQLite
// cannot add a constraint to an existing table.
func addForeignKeys(conn *gorm.DB) error {
	switch conn.Dialector.Name() {
	case "mysql", "sqlserver":
	default:
		return nil
	}

	migrator := conn.Migrator()
	for _, fk := range foreignKeys {
		if migrator.HasConstraint(fk.table, fk.name()) {
			continue
		}
		if err := conn.Exec(fk.statement()).Error; err != nil {
			return fmt.Errorf("add %s: %w", fk.name(), err)
		}
	}
	return nil
}

// RunMigrations applies the embedded SQL migrations to a postgres database.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}
