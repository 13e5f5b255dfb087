package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const readingColumns = `id, meter_id, staff_id, value, reading_date, reading_period, notes, created_at`

const billColumns = `id, reading_id, customer_id, tariff_id, billing_period, amount_due, status, bill_date, paid_at`

func (r *repo) ReadingExists(ctx context.Context, db *gorm.DB, meterID, period string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM meter_readings WHERE meter_id = ? AND reading_period = ?`,
		meterID, period,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) FindReading(ctx context.Context, db *gorm.DB, meterID, period string) (*domain.MeterReading, error) {
	var reading domain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+` FROM meter_readings WHERE meter_id = ? AND reading_period = ?`,
		meterID, period,
	).Scan(&reading).Error
	if err != nil {
		return nil, err
	}
	if reading.ID == 0 {
		return nil, nil
	}
	return &reading, nil
}

func (r *repo) InsertReading(ctx context.Context, db *gorm.DB, reading *domain.MeterReading) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO meter_readings (`+readingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(reading.ID),
		reading.MeterID,
		reading.StaffID,
		reading.Value,
		reading.ReadingDate,
		reading.ReadingPeriod,
		reading.Notes,
		reading.CreatedAt,
	).Error
}

func (r *repo) ListReadings(ctx context.Context, db *gorm.DB, meterID string) ([]domain.MeterReading, error) {
	var readings []domain.MeterReading
	err := db.WithContext(ctx).Raw(
		`SELECT `+readingColumns+` FROM meter_readings WHERE meter_id = ? ORDER BY reading_period DESC`,
		meterID,
	).Scan(&readings).Error
	return readings, err
}

func (r *repo) BillExists(ctx context.Context, db *gorm.DB, customerID, period string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bills WHERE customer_id = ? AND billing_period = ?`,
		customerID, period,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) ListActiveMeters(ctx context.Context, db *gorm.DB, customerID string) ([]meterdomain.Meter, error) {
	var meters []meterdomain.Meter
	err := db.WithContext(ctx).Raw(
		`SELECT id, customer_id, utility_id, status, location, installed_at, updated_at
		 FROM meters WHERE customer_id = ? AND status = ? ORDER BY id`,
		customerID, meterdomain.StatusActive,
	).Scan(&meters).Error
	return meters, err
}

func (r *repo) CurrentTariff(ctx context.Context, db *gorm.DB, utilityID string) (*tariffdomain.Tariff, error) {
	var tariff tariffdomain.Tariff
	err := db.WithContext(ctx).
		Where("utility_id = ?", utilityID).
		Order("created_at DESC").
		Order("id DESC").
		Take(&tariff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tariff, nil
}

func (r *repo) InsertBill(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO bills (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(bill.ID),
		int64(bill.ReadingID),
		bill.CustomerID,
		bill.TariffID,
		bill.BillingPeriod,
		bill.AmountDue,
		bill.Status,
		bill.BillDate,
		bill.PaidAt,
	).Error
}

func (r *repo) InsertBillLines(ctx context.Context, db *gorm.DB, lines []domain.BillLine) error {
	for _, line := range lines {
		err := db.WithContext(ctx).Exec(
			`INSERT INTO bill_lines (id, bill_id, meter_id, reading_id, tariff_id, units, rate, fixed_charge, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(line.ID),
			int64(line.BillID),
			line.MeterID,
			int64(line.ReadingID),
			line.TariffID,
			line.Units,
			line.Rate,
			line.FixedCharge,
			line.Amount,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) ListBillLines(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.BillLine, error) {
	var lines []domain.BillLine
	err := db.WithContext(ctx).Raw(
		`SELECT id, bill_id, meter_id, reading_id, tariff_id, units, rate, fixed_charge, amount
		 FROM bill_lines WHERE bill_id = ? ORDER BY meter_id`,
		int64(billID),
	).Scan(&lines).Error
	return lines, err
}

func (r *repo) ListBills(ctx context.Context, db *gorm.DB, filter domain.ListBillsFilter, page pagination.Pagination) ([]domain.Bill, error) {
	stmt := db.WithContext(ctx).Model(&domain.Bill{})
	if filter.CustomerID != "" {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Period != "" {
		stmt = stmt.Where("billing_period = ?", filter.Period)
	}
	stmt, err := pagination.Apply(stmt, page, "id", parseInt64)
	if err != nil {
		return nil, err
	}

	var bills []domain.Bill
	if err := stmt.Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) ListBillableCustomers(ctx context.Context, db *gorm.DB, period string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).Raw(
		`SELECT DISTINCT m.customer_id
		 FROM meters m
		 WHERE m.status = ?
		   AND NOT EXISTS (
		     SELECT 1 FROM bills b WHERE b.customer_id = m.customer_id AND b.billing_period = ?
		   )
		 ORDER BY m.customer_id`,
		meterdomain.StatusActive, period,
	).Scan(&ids).Error
	return ids, err
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, bill_id, staff_id, amount, method, payment_date) VALUES (?, ?, ?, ?, ?, ?)`,
		int64(payment.ID),
		int64(payment.BillID),
		payment.StaffID,
		payment.Amount,
		payment.Method,
		payment.PaymentDate,
	).Error
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, billID snowflake.ID) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT id, bill_id, staff_id, amount, method, payment_date FROM payments WHERE bill_id = ? ORDER BY id`,
		int64(billID),
	).Scan(&payments).Error
	return payments, err
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, billID snowflake.ID, paidAt time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE bills SET status = ?, paid_at = ? WHERE id = ? AND status = ?`,
		domain.BillStatusPaid, paidAt, int64(billID), domain.BillStatusUnpaid,
	)
	return res.RowsAffected, res.Error
}

// MeterOwner returns the customer owning meterID, or "" when the meter does
// not exist.
func (r *repo) MeterOwner(ctx context.Context, db *gorm.DB, meterID string) (string, error) {
	var owners []string
	err := db.WithContext(ctx).Raw(
		`SELECT customer_id FROM meters WHERE id = ?`,
		meterID,
	).Scan(&owners).Error
	if err != nil || len(owners) == 0 {
		return "", err
	}
	return owners[0], nil
}

// BillIDsInScope returns bills owned by customerID together with bills that
// reference a reading or line of any of meterIDs.
func (r *repo) BillIDsInScope(ctx context.Context, db *gorm.DB, customerID string, meterIDs []string) ([]snowflake.ID, error) {
	var (
		conds []string
		args  []any
	)
	if customerID != "" {
		conds = append(conds, "customer_id = ?")
		args = append(args, customerID)
	}
	if len(meterIDs) > 0 {
		conds = append(conds,
			"reading_id IN (SELECT id FROM meter_readings WHERE meter_id IN ?)",
			"id IN (SELECT bill_id FROM bill_lines WHERE meter_id IN ?)",
		)
		args = append(args, meterIDs, meterIDs)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	var raw []int64
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM bills WHERE `+strings.Join(conds, " OR "),
		args...,
	).Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	ids := make([]snowflake.ID, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, snowflake.ID(id))
	}
	return ids, nil
}

func (r *repo) DeletePayments(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error) {
	return deleteIn(ctx, db, `DELETE FROM payments WHERE bill_id IN ?`, billIDs)
}

func (r *repo) DeleteBillLines(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error) {
	return deleteIn(ctx, db, `DELETE FROM bill_lines WHERE bill_id IN ?`, billIDs)
}

func (r *repo) DeleteBills(ctx context.Context, db *gorm.DB, billIDs []snowflake.ID) (int64, error) {
	return deleteIn(ctx, db, `DELETE FROM bills WHERE id IN ?`, billIDs)
}

func (r *repo) DeleteReadings(ctx context.Context, db *gorm.DB, meterIDs []string) (int64, error) {
	if len(meterIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(`DELETE FROM meter_readings WHERE meter_id IN ?`, meterIDs)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteMetersByCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM meters WHERE customer_id = ?`, customerID)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteCustomer(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM customers WHERE id = ?`, customerID)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteMeter(ctx context.Context, db *gorm.DB, meterID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM meters WHERE id = ?`, meterID)
	return res.RowsAffected, res.Error
}

func (r *repo) CountTariffReferences(ctx context.Context, db *gorm.DB, tariffID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bills
		 WHERE tariff_id = ? OR id IN (SELECT bill_id FROM bill_lines WHERE tariff_id = ?)`,
		tariffID, tariffID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) DeleteTariff(ctx context.Context, db *gorm.DB, tariffID string) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM tariffs WHERE id = ?`, tariffID)
	return res.RowsAffected, res.Error
}

func deleteIn(ctx context.Context, db *gorm.DB, query string, ids []snowflake.ID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	raw := make([]int64, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, int64(id))
	}
	res := db.WithContext(ctx).Exec(query, raw)
	return res.RowsAffected, res.Error
}

func parseInt64(v string) (any, error) {
	return strconv.ParseInt(v, 10, 64)
}
