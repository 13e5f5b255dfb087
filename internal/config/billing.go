package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	FormulaReadingValue     = "reading_value"
	FormulaConsumptionDelta = "consumption_delta"
)

// BillingConfig is the hot-reloadable billing policy read from billing.yml.
type BillingConfig struct {
	Formula        string        `mapstructure:"formula"`
	PaymentMethods []string      `mapstructure:"paymentMethods"`
	AutoRun        AutoRunConfig `mapstructure:"autoRun"`
}

type AutoRunConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		Formula:        FormulaReadingValue,
		PaymentMethods: []string{"cash", "card", "bank_transfer", "cheque", "online"},
		AutoRun: AutoRunConfig{
			Enabled:  false,
			Schedule: "0 2 1 * *",
		},
	}
}

// AcceptsPaymentMethod reports whether method is one of the configured methods.
func (c BillingConfig) AcceptsPaymentMethod(method string) bool {
	method = strings.ToLower(strings.TrimSpace(method))
	for _, allowed := range c.PaymentMethods {
		if strings.ToLower(strings.TrimSpace(allowed)) == method {
			return true
		}
	}
	return false
}

type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig

	mu        sync.Mutex
	listeners []func(BillingConfig)
}

func NewBillingConfigHolder(log *zap.Logger) (*BillingConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("billing.config")

	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/utilitydesk/config")
	v.AddConfigPath("/etc/utilitydesk")
	v.AddConfigPath(".")

	v.SetEnvPrefix("UTILITYDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.formula", defaults.Formula)
	v.SetDefault("billing.paymentMethods", defaults.PaymentMethods)
	v.SetDefault("billing.autoRun.enabled", defaults.AutoRun.Enabled)
	v.SetDefault("billing.autoRun.schedule", defaults.AutoRun.Schedule)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := ValidateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticBillingConfigHolder(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := holder.Update(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		log.Info("reloaded", zap.String("file", e.Name), zap.String("formula", updated.Formula))
	})

	return holder, nil
}

// NewStaticBillingConfigHolder returns a holder seeded with cfg that is not
// bound to a file.
func NewStaticBillingConfigHolder(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *BillingConfigHolder) Get() BillingConfig {
	if h == nil {
		return DefaultBillingConfig()
	}
	return h.current.Load().(BillingConfig)
}

// Update validates cfg, makes it current and notifies every OnChange
// listener. An invalid cfg leaves the current config in place.
func (h *BillingConfigHolder) Update(cfg BillingConfig) error {
	if err := ValidateBillingConfig(cfg); err != nil {
		return err
	}
	h.current.Store(cfg)

	h.mu.Lock()
	listeners := append([]func(BillingConfig){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(cfg)
	}
	return nil
}

// OnChange registers fn to run after every accepted update.
func (h *BillingConfigHolder) OnChange(fn func(BillingConfig)) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

func ValidateBillingConfig(cfg BillingConfig) error {
	switch cfg.Formula {
	case FormulaReadingValue, FormulaConsumptionDelta:
	default:
		return fmt.Errorf("billing.formula %q is not supported", cfg.Formula)
	}
	if len(cfg.PaymentMethods) == 0 {
		return errors.New("billing.paymentMethods cannot be empty")
	}
	if cfg.AutoRun.Enabled {
		if _, err := cron.ParseStandard(cfg.AutoRun.Schedule); err != nil {
			return fmt.Errorf("billing.autoRun.schedule: %w", err)
		}
	}
	return nil
}
