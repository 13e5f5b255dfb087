package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, ""},
		{errors.New("boom"), ""},
		{ErrInvalidValue, KindValidation},
		{ErrMeterInactive, KindValidation},
		{ErrAmountOutOfRange, KindValidation},
		{fmt.Errorf("wrapped: %w", ErrBillNotFound), KindNotFound},
		{&ReadingMissingError{MeterIDs: []string{"M1"}}, KindNotFound},
		{&TariffInUseError{TariffID: "T1", Count: 2}, KindConflict},
		{ErrBillAlreadySettled, KindConflict},
		{fmt.Errorf("%w: %w", ErrStoreUnavailable, errors.New("conn reset")), KindStoreUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestTypedErrorsDescribeThemselves(t *testing.T) {
	p, _ := ParsePeriod("2024-06")
	missing := &ReadingMissingError{Period: p, MeterIDs: []string{"MTR-1", "MTR-3"}}
	assert.Equal(t, "reading_missing: no reading for 2024-06 on meter(s) MTR-1, MTR-3", missing.Error())

	inUse := &TariffInUseError{TariffID: "TAR-1", Count: 3}
	assert.Contains(t, inUse.Error(), "referenced by 3 bill(s)")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", CodeOf(errors.New("boom")))
	assert.Equal(t, "tariff_in_use", CodeOf(&TariffInUseError{TariffID: "T1", Count: 1}))
	assert.Equal(t, "reading_missing", CodeOf(fmt.Errorf("generate: %w", &ReadingMissingError{})))
	assert.Equal(t, "store_unavailable", CodeOf(fmt.Errorf("%w: %w", ErrStoreUnavailable, ErrDuplicateBill)))
}
