package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusUnpaid BillStatus = "Unpaid"
	BillStatusPaid   BillStatus = "Paid"
)

type MeterReading struct {
	ID            snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	MeterID       string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_meter_readings_meter_period,priority:1" json:"meterId"`
	StaffID       string          `gorm:"type:varchar(32);not null" json:"staffId"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	ReadingDate   time.Time       `gorm:"not null" json:"readingDate"`
	ReadingPeriod string          `gorm:"type:varchar(7);not null;uniqueIndex:ux_meter_readings_meter_period,priority:2" json:"readingPeriod"`
	Notes         string          `gorm:"type:varchar(500)" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"createdAt"`
}

func (MeterReading) TableName() string { return "meter_readings" }

type Bill struct {
	ID            snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ReadingID     snowflake.ID    `gorm:"not null;index" json:"readingId"`
	CustomerID    string          `gorm:"type:varchar(32);not null;uniqueIndex:ux_bills_customer_period,priority:1" json:"customerId"`
	TariffID      string          `gorm:"type:varchar(32);not null;index" json:"tariffId"`
	BillingPeriod string          `gorm:"type:varchar(7);not null;uniqueIndex:ux_bills_customer_period,priority:2" json:"billingPeriod"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amountDue"`
	Status        BillStatus      `gorm:"type:varchar(16);not null;index" json:"status"`
	BillDate      time.Time       `gorm:"not null" json:"billDate"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

func (Bill) TableName() string { return "bills" }

// BillLine prices one meter's reading on a bill.
type BillLine struct {
	ID          snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BillID      snowflake.ID    `gorm:"not null;index" json:"billId"`
	MeterID     string          `gorm:"type:varchar(32);not null;index" json:"meterId"`
	ReadingID   snowflake.ID    `gorm:"not null;index" json:"readingId"`
	TariffID    string          `gorm:"type:varchar(32);not null;index" json:"tariffId"`
	Units       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"units"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"rate"`
	FixedCharge decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fixedCharge"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (BillLine) TableName() string { return "bill_lines" }

type Payment struct {
	ID          snowflake.ID    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BillID      snowflake.ID    `gorm:"not null;index" json:"billId"`
	StaffID     string          `gorm:"type:varchar(32);not null" json:"staffId"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method      string          `gorm:"type:varchar(32);not null" json:"method"`
	PaymentDate time.Time       `gorm:"not null" json:"paymentDate"`
}

func (Payment) TableName() string { return "payments" }

// BillDetails is a bill with its lines and payments.
type BillDetails struct {
	Bill
	Lines     []BillLine      `json:"lines"`
	Payments  []Payment       `json:"payments"`
	PaidTotal decimal.Decimal `json:"paidTotal"`
}
