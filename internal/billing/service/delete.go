package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeleteCustomer removes a customer with its meters, readings, bills, bill
// lines and payments.
func (s *Service) DeleteCustomer(ctx context.Context, customerID string) (domain.DeleteResult, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return domain.DeleteResult{}, domain.ErrInvalidCustomerID
	}

	var counts domain.CascadeCounts
	err := s.run(ctx, "delete_customer", func(tx *gorm.DB) error {
		var customer customerdomain.Customer
		found, err := s.locker.LockRow(ctx, tx, "customers", "id", customerID, &customer)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCustomerNotFound
		}

		var meters []meterdomain.Meter
		if err := s.locker.LockRows(ctx, tx, "meters", "customer_id", customerID, &meters); err != nil {
			return err
		}
		meterIDs := make([]string, 0, len(meters))
		for _, m := range meters {
			meterIDs = append(meterIDs, m.ID)
		}
		if err := s.cascade(ctx, tx, customerID, meterIDs, &counts); err != nil {
			return err
		}
		if counts.Meters, err = s.repo.DeleteMetersByCustomer(ctx, tx, customerID); err != nil {
			return err
		}

		rows, err := s.repo.DeleteCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrCustomerNotFound
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     "customer.deleted",
			TargetType: "customer",
			TargetID:   customerID,
			Metadata:   countsMetadata(counts),
		})
	})
	if err != nil {
		return domain.DeleteResult{}, err
	}

	s.metrics.RecordCascadeDelete(ctx, "customer")
	s.log.Info("customer deleted", zap.String("customer_id", customerID), zap.Any("removed", counts))
	return domain.DeleteResult{Deleted: true, Removed: counts}, nil
}

// DeleteMeter removes a meter with its readings and every bill that priced
// one of them, including bills that also cover other meters.
func (s *Service) DeleteMeter(ctx context.Context, meterID string) (domain.DeleteResult, error) {
	meterID = strings.TrimSpace(meterID)
	if meterID == "" {
		return domain.DeleteResult{}, domain.ErrInvalidMeterID
	}

	var counts domain.CascadeCounts
	err := s.run(ctx, "delete_meter", func(tx *gorm.DB) error {
		// The owning customer is locked before the meter, the same order
		// GenerateBill takes them in.
		owner, err := s.repo.MeterOwner(ctx, tx, meterID)
		if err != nil {
			return err
		}
		if owner == "" {
			return domain.ErrMeterNotFound
		}
		if _, err := s.locker.LockRow(ctx, tx, "customers", "id", owner, &customerdomain.Customer{}); err != nil {
			return err
		}

		var meter meterdomain.Meter
		found, err := s.locker.LockRow(ctx, tx, "meters", "id", meterID, &meter)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrMeterNotFound
		}
		if meter.CustomerID != owner {
			if _, err := s.locker.LockRow(ctx, tx, "customers", "id", meter.CustomerID, &customerdomain.Customer{}); err != nil {
				return err
			}
		}

		if err := s.cascade(ctx, tx, "", []string{meterID}, &counts); err != nil {
			return err
		}

		rows, err := s.repo.DeleteMeter(ctx, tx, meterID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrMeterNotFound
		}
		counts.Meters = rows

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     "meter.deleted",
			TargetType: "meter",
			TargetID:   meterID,
			Metadata:   countsMetadata(counts),
		})
	})
	if err != nil {
		return domain.DeleteResult{}, err
	}

	s.metrics.RecordCascadeDelete(ctx, "meter")
	s.log.Info("meter deleted", zap.String("meter_id", meterID), zap.Any("removed", counts))
	return domain.DeleteResult{Deleted: true, Removed: counts}, nil
}

// DeleteTariff refuses while any bill or bill line still references the tariff.
func (s *Service) DeleteTariff(ctx context.Context, tariffID string) (domain.DeleteResult, error) {
	tariffID = strings.TrimSpace(tariffID)
	if tariffID == "" {
		return domain.DeleteResult{}, domain.ErrInvalidTariffID
	}

	err := s.run(ctx, "delete_tariff", func(tx *gorm.DB) error {
		var tariff tariffdomain.Tariff
		found, err := s.locker.LockRow(ctx, tx, "tariffs", "id", tariffID, &tariff)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrTariffNotFound
		}

		refs, err := s.repo.CountTariffReferences(ctx, tx, tariffID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.TariffInUseError{TariffID: tariffID, Count: refs}
		}

		rows, err := s.repo.DeleteTariff(ctx, tx, tariffID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return domain.ErrTariffNotFound
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     "tariff.deleted",
			TargetType: "tariff",
			TargetID:   tariffID,
			Metadata:   map[string]any{"utility_id": tariff.UtilityID},
		})
	})
	if err != nil {
		return domain.DeleteResult{}, err
	}

	s.log.Info("tariff deleted", zap.String("tariff_id", tariffID))
	return domain.DeleteResult{Deleted: true}, nil
}

// cascade deletes dependents children first: payments, bill lines, bills,
// then readings.
func (s *Service) cascade(ctx context.Context, tx *gorm.DB, customerID string, meterIDs []string, counts *domain.CascadeCounts) error {
	billIDs, err := s.repo.BillIDsInScope(ctx, tx, customerID, meterIDs)
	if err != nil {
		return err
	}

	steps := []struct {
		dst *int64
		fn  func(context.Context, *gorm.DB, []snowflake.ID) (int64, error)
	}{
		{&counts.Payments, s.repo.DeletePayments},
		{&counts.BillLines, s.repo.DeleteBillLines},
		{&counts.Bills, s.repo.DeleteBills},
	}
	for _, step := range steps {
		n, err := step.fn(ctx, tx, billIDs)
		if err != nil {
			return err
		}
		*step.dst = n
	}

	counts.Readings, err = s.repo.DeleteReadings(ctx, tx, meterIDs)
	return err
}

func countsMetadata(c domain.CascadeCounts) map[string]any {
	return map[string]any{
		"payments":   c.Payments,
		"bill_lines": c.BillLines,
		"bills":      c.Bills,
		"readings":   c.Readings,
		"meters":     c.Meters,
	}
}
