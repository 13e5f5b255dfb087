package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"gorm.io/gorm"
)

func (s *Service) GetBill(ctx context.Context, billID string) (domain.BillDetails, error) {
	id, err := parseBillID(billID)
	if err != nil {
		return domain.BillDetails{}, err
	}

	// The bill row lock orders this read against RecordPayment, so status
	// and payments come from the same point in time.
	var details domain.BillDetails
	err = s.run(ctx, "get_bill", func(tx *gorm.DB) error {
		found, err := s.locker.LockRow(ctx, tx, "bills", "id", int64(id), &details.Bill)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrBillNotFound
		}

		if details.Lines, err = s.repo.ListBillLines(ctx, tx, id); err != nil {
			return err
		}
		if details.Payments, err = s.repo.ListPayments(ctx, tx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return domain.BillDetails{}, err
	}

	if details.Lines == nil {
		details.Lines = []domain.BillLine{}
	}
	if details.Payments == nil {
		details.Payments = []domain.Payment{}
	}
	details.PaidTotal = sumPayments(details.Payments)
	return details, nil
}

func (s *Service) ListBills(ctx context.Context, req domain.ListBillsRequest) (domain.ListBillsResponse, error) {
	filter := domain.ListBillsFilter{CustomerID: strings.TrimSpace(req.CustomerID)}

	switch status := strings.TrimSpace(req.Status); {
	case status == "":
	case strings.EqualFold(status, string(domain.BillStatusUnpaid)):
		filter.Status = domain.BillStatusUnpaid
	case strings.EqualFold(status, string(domain.BillStatusPaid)):
		filter.Status = domain.BillStatusPaid
	default:
		return domain.ListBillsResponse{}, domain.ErrInvalidStatus
	}

	if period := strings.TrimSpace(req.Period); period != "" {
		p, err := domain.ParsePeriod(period)
		if err != nil {
			return domain.ListBillsResponse{}, domain.ErrInvalidBillingMonth
		}
		filter.Period = p.String()
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListBillsResponse{}, err
		}
		if _, err := strconv.ParseInt(cursor.ID, 10, 64); err != nil {
			return domain.ListBillsResponse{}, pagination.ErrInvalidPageToken
		}
	}

	var items []domain.Bill
	err := s.read(ctx, "list_bills", func(db *gorm.DB) error {
		var err error
		items, err = s.repo.ListBills(ctx, db, filter, req.Pagination)
		return err
	})
	if err != nil {
		return domain.ListBillsResponse{}, err
	}

	bills, pageInfo, err := pagination.Trim(items, req.Pagination, func(b domain.Bill) string {
		return b.ID.String()
	})
	if err != nil {
		return domain.ListBillsResponse{}, err
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	return domain.ListBillsResponse{PageInfo: pageInfo, Bills: bills}, nil
}

func (s *Service) ListReadings(ctx context.Context, meterID string) ([]domain.MeterReading, error) {
	meterID = strings.TrimSpace(meterID)
	if meterID == "" {
		return nil, domain.ErrInvalidMeterID
	}

	var readings []domain.MeterReading
	err := s.read(ctx, "list_readings", func(db *gorm.DB) error {
		var err error
		readings, err = s.repo.ListReadings(ctx, db, meterID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if readings == nil {
		readings = []domain.MeterReading{}
	}
	return readings, nil
}

func (s *Service) ListBillableCustomers(ctx context.Context, period domain.Period) ([]string, error) {
	if period.IsZero() {
		return nil, domain.ErrInvalidBillingMonth
	}

	var ids []string
	err := s.read(ctx, "list_billable_customers", func(db *gorm.DB) error {
		var err error
		ids, err = s.repo.ListBillableCustomers(ctx, db, period.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
