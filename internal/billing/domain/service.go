//go:generate mockgen -destination=../mocks/mock_service.go -package=mocks github.com/smallbiznis/utilitydesk/internal/billing/domain Service

package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
)

type SubmitReadingRequest struct {
	MeterID string
	StaffID string
	Value   decimal.Decimal
	// Date defaults to the current UTC date when nil.
	Date  *time.Time
	Notes string
}

type SubmitReadingResult struct {
	ReadingID snowflake.ID `json:"readingId"`
	Period    string       `json:"period"`
}

type GenerateBillRequest struct {
	CustomerID   string
	BillingMonth string
}

type GenerateBillResult struct {
	BillID        snowflake.ID    `json:"billId"`
	CustomerID    string          `json:"customerId"`
	BillingPeriod string          `json:"billingPeriod"`
	AmountDue     decimal.Decimal `json:"amountDue"`
	Status        BillStatus      `json:"status"`
	LineItems     []BillLine      `json:"lineItems"`
}

type RecordPaymentRequest struct {
	BillID  string
	Amount  decimal.Decimal
	Method  string
	StaffID string
}

type RecordPaymentResult struct {
	Paid      bool            `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	PaymentID snowflake.ID    `json:"paymentId"`
	Status    BillStatus      `json:"status"`
}

// CascadeCounts is how many rows each step of a cascading delete removed.
type CascadeCounts struct {
	Payments  int64 `json:"payments"`
	BillLines int64 `json:"billLines"`
	Bills     int64 `json:"bills"`
	Readings  int64 `json:"readings"`
	Meters    int64 `json:"meters"`
}

type DeleteResult struct {
	Deleted bool          `json:"deleted"`
	Removed CascadeCounts `json:"removed"`
}

type ListBillsRequest struct {
	pagination.Pagination
	CustomerID string
	Status     string
	Period     string
}

type ListBillsResponse struct {
	pagination.PageInfo
	Bills []Bill `json:"bills"`
}

type Service interface {
	SubmitReading(ctx context.Context, req SubmitReadingRequest) (SubmitReadingResult, error)
	GenerateBill(ctx context.Context, req GenerateBillRequest) (GenerateBillResult, error)
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResult, error)
	DeleteCustomer(ctx context.Context, customerID string) (DeleteResult, error)
	DeleteMeter(ctx context.Context, meterID string) (DeleteResult, error)
	DeleteTariff(ctx context.Context, tariffID string) (DeleteResult, error)

	GetBill(ctx context.Context, billID string) (BillDetails, error)
	ListBills(ctx context.Context, req ListBillsRequest) (ListBillsResponse, error)
	ListReadings(ctx context.Context, meterID string) ([]MeterReading, error)
	// ListBillableCustomers returns customers with an active meter and no bill for period.
	ListBillableCustomers(ctx context.Context, period Period) ([]string, error)
}
