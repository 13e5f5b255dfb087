package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBillingConfigIsValid(t *testing.T) {
	cfg := DefaultBillingConfig()
	assert.NoError(t, ValidateBillingConfig(cfg))
	assert.Equal(t, FormulaReadingValue, cfg.Formula)
	assert.False(t, cfg.AutoRun.Enabled)
}

func TestValidateBillingConfigRejectsUnknownFormula(t *testing.T) {
	cfg := DefaultBillingConfig()
	cfg.Formula = "tiered"
	assert.Error(t, ValidateBillingConfig(cfg))
}

func TestValidateBillingConfigRejectsBadSchedule(t *testing.T) {
	cfg := DefaultBillingConfig()
	cfg.AutoRun.Enabled = true
	cfg.AutoRun.Schedule = "every month"
	assert.Error(t, ValidateBillingConfig(cfg))

	cfg.AutoRun.Schedule = "0 2 1 * *"
	assert.NoError(t, ValidateBillingConfig(cfg))
}

func TestValidateBillingConfigRequiresPaymentMethods(t *testing.T) {
	cfg := DefaultBillingConfig()
	cfg.PaymentMethods = nil
	assert.Error(t, ValidateBillingConfig(cfg))
}

func TestAcceptsPaymentMethodIsCaseInsensitive(t *testing.T) {
	cfg := DefaultBillingConfig()
	assert.True(t, cfg.AcceptsPaymentMethod("Cash"))
	assert.True(t, cfg.AcceptsPaymentMethod(" bank_transfer "))
	assert.False(t, cfg.AcceptsPaymentMethod("barter"))
}

func TestStaticHolderReturnsStoredConfig(t *testing.T) {
	cfg := DefaultBillingConfig()
	cfg.Formula = FormulaConsumptionDelta
	holder := NewStaticBillingConfigHolder(cfg)
	assert.Equal(t, FormulaConsumptionDelta, holder.Get().Formula)

	var nilHolder *BillingConfigHolder
	assert.Equal(t, FormulaReadingValue, nilHolder.Get().Formula)
}

func TestUpdateNotifiesListeners(t *testing.T) {
	holder := NewStaticBillingConfigHolder(DefaultBillingConfig())

	var seen []string
	holder.OnChange(func(cfg BillingConfig) {
		seen = append(seen, cfg.AutoRun.Schedule)
	})

	next := DefaultBillingConfig()
	next.AutoRun = AutoRunConfig{Enabled: true, Schedule: "0 3 1 * *"}
	require.NoError(t, holder.Update(next))
	assert.Equal(t, "0 3 1 * *", holder.Get().AutoRun.Schedule)

	bad := next
	bad.AutoRun.Schedule = "whenever"
	assert.Error(t, holder.Update(bad))
	assert.Equal(t, "0 3 1 * *", holder.Get().AutoRun.Schedule)

	assert.Equal(t, []string{"0 3 1 * *"}, seen)
}
