package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.RecordPaymentResult, error) {
	billID, err := parseBillID(req.BillID)
	if err != nil {
		return domain.RecordPaymentResult{}, err
	}
	if !req.Amount.IsPositive() || !money.Fits(req.Amount) {
		return domain.RecordPaymentResult{}, domain.ErrInvalidAmount
	}
	method := strings.ToLower(strings.TrimSpace(req.Method))
	if !s.config.Get().AcceptsPaymentMethod(method) {
		return domain.RecordPaymentResult{}, domain.ErrInvalidPaymentMethod
	}
	staffID := strings.TrimSpace(req.StaffID)
	if staffID == "" {
		return domain.RecordPaymentResult{}, domain.ErrInvalidStaffID
	}

	now := s.clock.Now().UTC()
	payment := domain.Payment{
		ID:          s.genID.Generate(),
		BillID:      billID,
		StaffID:     staffID,
		Amount:      req.Amount,
		Method:      method,
		PaymentDate: now,
	}
	result := domain.RecordPaymentResult{PaymentID: payment.ID}

	err = s.run(ctx, "record_payment", func(tx *gorm.DB) error {
		var bill domain.Bill
		found, err := s.locker.LockRow(ctx, tx, "bills", "id", int64(billID), &bill)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrBillNotFound
		}
		if bill.Status == domain.BillStatusPaid {
			return domain.ErrBillAlreadySettled
		}

		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		payments, err := s.repo.ListPayments(ctx, tx, billID)
		if err != nil {
			return err
		}
		paid := sumPayments(payments)

		result.Status = domain.BillStatusUnpaid
		if paid.GreaterThanOrEqual(bill.AmountDue) {
			rows, err := s.repo.MarkPaid(ctx, tx, billID, now)
			if err != nil {
				return err
			}
			if rows == 0 {
				return domain.ErrBillAlreadySettled
			}
			result.Paid = true
			result.Status = domain.BillStatusPaid
		}
		result.Remaining = decimal.Max(bill.AmountDue.Sub(paid), decimal.Zero)

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			ActorType:  auditdomain.ActorTypeStaff,
			ActorID:    staffID,
			Action:     "payment.recorded",
			TargetType: "bill",
			TargetID:   billID.String(),
			Metadata: map[string]any{
				"payment_id": payment.ID.String(),
				"amount":     money.Format(payment.Amount),
				"method":     method,
				"settled":    result.Paid,
			},
		})
	})
	if err != nil {
		return domain.RecordPaymentResult{}, err
	}

	s.metrics.RecordPayment(ctx, method, result.Paid)
	s.log.Info("payment recorded",
		zap.String("bill_id", billID.String()),
		zap.String("payment_id", payment.ID.String()),
		zap.Bool("settled", result.Paid),
	)
	return result, nil
}

func parseBillID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidBillID
	}
	return id, nil
}

func sumPayments(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
