package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListBillsFilter struct {
	CustomerID string
	Status     BillStatus
	Period     string
}

// Repository issues every statement on the handle it is given, which inside
// the engine is always the unit-of-work transaction.
type Repository interface {
	ReadingExists(ctx context.Context, db *gorm.DB, meterID, period string) (bool, error)
	FindReading(ctx context.Context, db *gorm.DB, meterID, period string) (*MeterReading, error)
	InsertReading(ctx context.Context, db *gorm.DB, reading *MeterReading) error
	ListReadings(ctx context.Context, db *gorm.DB, meterID string) ([]MeterReading, error)

	BillExists(ctx context.Context, db *gorm.DB, customerID, period string) (bool, error)
	ListActiveMeters(ctx context.Context, db *gorm.DB, customerID string) ([]meterdomain.Meter, error)
	CurrentTariff(ctx context.Context, db *gorm.DB, utilityID string) (*tariffdomain.Tariff, error)
	InsertBill(ctx context.Context, db *gorm.DB, bill *Bill) error
	InsertBillLines(ctx context.Context, db *gorm.DB, lines []BillLine) error
	ListBillLines(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]BillLine, error)
	ListBills(ctx context.Context, db *gorm.DB, filter ListBillsFilter, page pagination.Pagination) ([]Bill, error)
	ListBillableCustomers(ctx context.Context, db *gorm.DB, period string) ([]string, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	ListPayments(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]Payment, error)
	MarkPaid(ctx context.Context, db *gorm.DB, billID snowflake.ID, paidAt time.Time) (int64, error)

	MeterOwner(ctx context.Context, db *gorm.DB, meterID string) (string, error)
	BillIDsInScope(ctx context.Context, db *gorm.DB, customerID string, meterIDs []string) ([]snowflake.ID, error)
	DeletePayments(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error)
	DeleteBillLines(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error)
	DeleteBills(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error)
	DeleteReadings(ctx context.Context, db *gorm.DB, meterIDs []string) (int64, error)
	DeleteMetersByCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error)
	DeleteCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error)
	DeleteMeter(ctx context.Context, db *gorm.DB, meterID string) (int64, error)
	CountTariffReferences(ctx context.Context, db *gorm.DB, tariffID string) (int64, error)
	DeleteTariff(ctx context.Context, db *gorm.DB, tariffID string) (int64, error)
}
