package server

import (
	"fmt"
	"net/http"
	"testing"

	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/internal/store"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
		code   string
	}{
		{"billing validation", billingdomain.ErrInvalidBillingMonth, http.StatusBadRequest, typeValidation, "invalid_billing_month"},
		{"wrapped duplicate", fmt.Errorf("insert reading: %w", billingdomain.ErrDuplicateReading), http.StatusConflict, typeConflict, "duplicate_reading"},
		{"bill total overflow", billingdomain.ErrAmountOutOfRange, http.StatusBadRequest, typeValidation, "amount_out_of_range"},
		{"billing not found", billingdomain.ErrMeterNotFound, http.StatusNotFound, typeNotFound, "meter_not_found"},
		{"store down", store.ErrUnavailable, http.StatusServiceUnavailable, typeStoreUnavailable, "store_unavailable"},
		{"customer validation", customerdomain.ErrInvalidEmail, http.StatusBadRequest, typeValidation, "invalid_email"},
		{"tariff exists", tariffdomain.ErrExists, http.StatusConflict, typeConflict, "tariff_exists"},
		{"staff not found", authdomain.ErrStaffNotFound, http.StatusNotFound, typeNotFound, "staff_not_found"},
		{"expired token", authdomain.ErrTokenExpired, http.StatusUnauthorized, typeUnauthorized, "token_expired"},
		{"bad page token", pagination.ErrInvalidPageToken, http.StatusBadRequest, typeValidation, pagination.ErrInvalidPageToken.Error()},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, typeInternal, typeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.typ, payload.Type)
			assert.Equal(t, tt.code, payload.Code)
		})
	}
}

func TestValidationErrorField(t *testing.T) {
	assert.Equal(t, "billingMonth", validationErrorField("invalid_billing_month"))
	assert.Equal(t, "", validationErrorField("meter_inactive"))
	assert.Equal(t, "meter_id", toSnake("MeterID"))
	assert.Equal(t, "fixed_charge", toSnake("FixedCharge"))
}
