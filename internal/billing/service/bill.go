package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/config"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"github.com/smallbiznis/utilitydesk/internal/money"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) GenerateBill(ctx context.Context, req domain.GenerateBillRequest) (domain.GenerateBillResult, error) {
	customerID := strings.TrimSpace(req.CustomerID)
	if customerID == "" {
		return domain.GenerateBillResult{}, domain.ErrInvalidCustomerID
	}
	period, err := domain.ParsePeriod(req.BillingMonth)
	if err != nil {
		return domain.GenerateBillResult{}, domain.ErrInvalidBillingMonth
	}

	formula := s.config.Get().Formula
	now := s.clock.Now().UTC()
	bill := domain.Bill{
		ID:            s.genID.Generate(),
		CustomerID:    customerID,
		BillingPeriod: period.String(),
		Status:        domain.BillStatusUnpaid,
		BillDate:      now,
	}
	var lines []domain.BillLine

	err = s.run(ctx, "generate_bill", func(tx *gorm.DB) error {
		if err := s.locker.Advisory(ctx, tx, "bill:"+customerID+":"+bill.BillingPeriod); err != nil {
			return err
		}

		var customer customerdomain.Customer
		found, err := s.locker.LockRow(ctx, tx, "customers", "id", customerID, &customer)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCustomerNotFound
		}

		// Meters stay locked until commit, so readings cannot be added to or
		// deleted from under the bill being priced.
		var owned []meterdomain.Meter
		if err := s.locker.LockRows(ctx, tx, "meters", "customer_id", customerID, &owned); err != nil {
			return err
		}

		exists, err := s.repo.BillExists(ctx, tx, customerID, bill.BillingPeriod)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateBill
		}

		meters, err := s.repo.ListActiveMeters(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if len(meters) == 0 {
			return domain.ErrNoBillableMeters
		}

		readings := make(map[string]*domain.MeterReading, len(meters))
		var missing []string
		for _, m := range meters {
			reading, err := s.repo.FindReading(ctx, tx, m.ID, bill.BillingPeriod)
			if err != nil {
				return err
			}
			if reading == nil {
				missing = append(missing, m.ID)
				continue
			}
			readings[m.ID] = reading
		}
		if len(missing) > 0 {
			return &domain.ReadingMissingError{Period: period, MeterIDs: missing}
		}

		tariffs := make(map[string]*tariffdomain.Tariff)
		lines = make([]domain.BillLine, 0, len(meters))
		total := decimal.Zero
		for _, m := range meters {
			tariff, err := s.tariffFor(ctx, tx, m.UtilityID, tariffs)
			if err != nil {
				return err
			}

			reading := readings[m.ID]
			units, err := s.units(ctx, tx, formula, m, reading, period)
			if err != nil {
				return err
			}

			amount := price(units, tariff)
			if !money.Fits(units) || !money.Fits(amount) {
				return domain.ErrAmountOutOfRange
			}

			line := domain.BillLine{
				ID:          s.genID.Generate(),
				BillID:      bill.ID,
				MeterID:     m.ID,
				ReadingID:   reading.ID,
				TariffID:    tariff.ID,
				Units:       units,
				Rate:        tariff.Rate,
				FixedCharge: tariff.FixedCharge,
				Amount:      amount,
			}
			total = total.Add(line.Amount)
			lines = append(lines, line)
		}

		bill.ReadingID = lines[0].ReadingID
		bill.TariffID = lines[0].TariffID
		bill.AmountDue = money.Round(total)
		if !money.Fits(bill.AmountDue) {
			return domain.ErrAmountOutOfRange
		}

		if err := s.repo.InsertBill(ctx, tx, &bill); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateBill
			}
			return err
		}
		if err := s.repo.InsertBillLines(ctx, tx, lines); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     "bill.generated",
			TargetType: "bill",
			TargetID:   bill.ID.String(),
			Metadata: map[string]any{
				"customer_id": customerID,
				"period":      bill.BillingPeriod,
				"amount_due":  money.Format(bill.AmountDue),
				"lines":       len(lines),
				"formula":     formula,
			},
		})
	})
	if err != nil {
		return domain.GenerateBillResult{}, err
	}

	s.metrics.RecordBill(ctx, formula)
	s.log.Info("bill generated",
		zap.String("bill_id", bill.ID.String()),
		zap.String("customer_id", customerID),
		zap.String("period", bill.BillingPeriod),
		zap.String("amount_due", money.Format(bill.AmountDue)),
	)
	return domain.GenerateBillResult{
		BillID:        bill.ID,
		CustomerID:    customerID,
		BillingPeriod: bill.BillingPeriod,
		AmountDue:     bill.AmountDue,
		Status:        bill.Status,
		LineItems:     lines,
	}, nil
}

// tariffFor returns the most recently created tariff for utilityID, locked
// against deletion for the rest of the unit of work.
func (s *Service) tariffFor(ctx context.Context, tx *gorm.DB, utilityID string, cache map[string]*tariffdomain.Tariff) (*tariffdomain.Tariff, error) {
	if t, ok := cache[utilityID]; ok {
		return t, nil
	}

	current, err := s.repo.CurrentTariff(ctx, tx, utilityID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrTariffMissing
	}

	var locked tariffdomain.Tariff
	found, err := s.locker.LockRow(ctx, tx, "tariffs", "id", current.ID, &locked)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTariffMissing
	}

	cache[utilityID] = &locked
	return &locked, nil
}

func (s *Service) units(ctx context.Context, tx *gorm.DB, formula string, m meterdomain.Meter, reading *domain.MeterReading, period domain.Period) (decimal.Decimal, error) {
	if formula != config.FormulaConsumptionDelta {
		return reading.Value, nil
	}

	prev, err := s.repo.FindReading(ctx, tx, m.ID, period.Prev().String())
	if err != nil {
		return decimal.Zero, err
	}
	if prev == nil {
		return reading.Value, nil
	}
	delta := reading.Value.Sub(prev.Value)
	if delta.IsNegative() {
		return decimal.Zero, nil
	}
	return delta, nil
}

// price is fixed charge plus rate times units, with units floored at the
// tariff minimum.
func price(units decimal.Decimal, t *tariffdomain.Tariff) decimal.Decimal {
	billable := decimal.Max(units, t.MinUnits)
	return money.Round(t.FixedCharge.Add(t.Rate.Mul(billable)))
}
