package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"github.com/smallbiznis/utilitydesk/internal/money"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxNotesLength = 500

func (s *Service) SubmitReading(ctx context.Context, req domain.SubmitReadingRequest) (domain.SubmitReadingResult, error) {
	meterID := strings.TrimSpace(req.MeterID)
	if meterID == "" {
		return domain.SubmitReadingResult{}, domain.ErrInvalidMeterID
	}
	staffID := strings.TrimSpace(req.StaffID)
	if staffID == "" {
		return domain.SubmitReadingResult{}, domain.ErrInvalidStaffID
	}
	if req.Value.IsNegative() || !money.Fits(req.Value) {
		return domain.SubmitReadingResult{}, domain.ErrInvalidValue
	}
	notes := strings.TrimSpace(req.Notes)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return domain.SubmitReadingResult{}, domain.ErrInvalidNotes
	}

	now := s.clock.Now().UTC()
	today := startOfDay(now)
	readingDate := today
	if req.Date != nil {
		readingDate = startOfDay(*req.Date)
	}
	if readingDate.After(today) {
		return domain.SubmitReadingResult{}, domain.ErrInvalidDate
	}
	period := domain.PeriodOf(readingDate)

	reading := domain.MeterReading{
		ID:            s.genID.Generate(),
		MeterID:       meterID,
		StaffID:       staffID,
		Value:         req.Value,
		ReadingDate:   readingDate,
		ReadingPeriod: period.String(),
		Notes:         notes,
		CreatedAt:     now,
	}

	err := s.run(ctx, "submit_reading", func(tx *gorm.DB) error {
		if err := s.locker.Advisory(ctx, tx, "reading:"+meterID+":"+reading.ReadingPeriod); err != nil {
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
		if meter.Status != meterdomain.StatusActive {
			return domain.ErrMeterInactive
		}

		exists, err := s.repo.ReadingExists(ctx, tx, meterID, reading.ReadingPeriod)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateReading
		}

		if err := s.repo.InsertReading(ctx, tx, &reading); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateReading
			}
			return err
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			ActorType:  auditdomain.ActorTypeStaff,
			ActorID:    staffID,
			Action:     "reading.submitted",
			TargetType: "meter_reading",
			TargetID:   reading.ID.String(),
			Metadata: map[string]any{
				"meter_id": meterID,
				"period":   reading.ReadingPeriod,
				"value":    money.Format(reading.Value),
			},
		})
	})
	if err != nil {
		return domain.SubmitReadingResult{}, err
	}

	s.metrics.RecordReading(ctx)
	s.log.Info("reading submitted",
		zap.String("meter_id", meterID),
		zap.String("period", reading.ReadingPeriod),
		zap.String("reading_id", reading.ID.String()),
	)
	return domain.SubmitReadingResult{ReadingID: reading.ID, Period: reading.ReadingPeriod}, nil
}

// startOfDay keeps the calendar day of t in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
