package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind groups engine errors by how callers should react to them.
type Kind string

const (
	KindValidation       Kind = "validation_error"
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindStoreUnavailable Kind = "store_unavailable"
)

var (
	ErrInvalidMeterID       = errors.New("invalid_meter_id")
	ErrInvalidStaffID       = errors.New("invalid_staff_id")
	ErrInvalidValue         = errors.New("invalid_value")
	ErrInvalidDate          = errors.New("invalid_date")
	ErrInvalidNotes         = errors.New("invalid_notes")
	ErrInvalidCustomerID    = errors.New("invalid_customer_id")
	ErrInvalidBillingMonth  = errors.New("invalid_billing_month")
	ErrInvalidBillID        = errors.New("invalid_bill_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidTariffID      = errors.New("invalid_tariff_id")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrMeterInactive        = errors.New("meter_inactive")
	ErrNoBillableMeters     = errors.New("no_billable_meters")
	ErrAmountOutOfRange     = errors.New("amount_out_of_range")

	ErrMeterNotFound    = errors.New("meter_not_found")
	ErrCustomerNotFound = errors.New("customer_not_found")
	ErrBillNotFound     = errors.New("bill_not_found")
	ErrTariffNotFound   = errors.New("tariff_not_found")
	ErrReadingMissing   = errors.New("reading_missing")
	ErrTariffMissing    = errors.New("tariff_missing")

	ErrDuplicateReading   = errors.New("duplicate_reading")
	ErrDuplicateBill      = errors.New("duplicate_bill")
	ErrTariffInUse        = errors.New("tariff_in_use")
	ErrBillAlreadySettled = errors.New("bill_already_settled")

	ErrStoreUnavailable = errors.New("store_unavailable")
)

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindStoreUnavailable, []error{ErrStoreUnavailable}},
	{KindValidation, []error{
		ErrInvalidMeterID, ErrInvalidStaffID, ErrInvalidValue, ErrInvalidDate, ErrInvalidNotes,
		ErrInvalidCustomerID, ErrInvalidBillingMonth, ErrInvalidBillID, ErrInvalidAmount,
		ErrInvalidPaymentMethod, ErrInvalidTariffID, ErrInvalidStatus, ErrMeterInactive, ErrNoBillableMeters,
		ErrAmountOutOfRange,
	}},
	{KindNotFound, []error{
		ErrMeterNotFound, ErrCustomerNotFound, ErrBillNotFound, ErrTariffNotFound,
		ErrReadingMissing, ErrTariffMissing,
	}},
	{KindConflict, []error{
		ErrDuplicateReading, ErrDuplicateBill, ErrTariffInUse, ErrBillAlreadySettled,
	}},
}

// KindOf classifies err, or returns "" for errors the engine does not own.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return ""
}

// CodeOf returns the machine code of the sentinel err wraps, or "".
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return target.Error()
			}
		}
	}
	return ""
}

// TariffInUseError reports how many bills still reference a tariff.
type TariffInUseError struct {
	TariffID string
	Count    int64
}

func (e *TariffInUseError) Error() string {
	return fmt.Sprintf("%s: tariff %s is referenced by %d bill(s)", ErrTariffInUse, e.TariffID, e.Count)
}

func (e *TariffInUseError) Unwrap() error { return ErrTariffInUse }

// ReadingMissingError lists every billable meter without a reading for the period.
type ReadingMissingError struct {
	Period   Period
	MeterIDs []string
}

func (e *ReadingMissingError) Error() string {
	return fmt.Sprintf("%s: no reading for %s on meter(s) %s", ErrReadingMissing, e.Period, strings.Join(e.MeterIDs, ", "))
}

func (e *ReadingMissingError) Unwrap() error { return ErrReadingMissing }
