package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/observability/metrics"
	"github.com/smallbiznis/utilitydesk/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const jobBillRun = "bill_run"

const (
	outcomeOK      = "ok"
	outcomePartial = "partial"
	outcomeFailed  = "failed"
	outcomeLocked  = "locked"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Billing       billingdomain.Service
	BillingConfig *config.BillingConfigHolder `optional:"true"`
	Locker        *ratelimit.Locker           `optional:"true"`
	Metrics       *metrics.Metrics            `optional:"true"`
	Config        Config                      `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	genID         *snowflake.Node
	clock         clock.Clock
	billing       billingdomain.Service
	billingConfig *config.BillingConfigHolder
	locker        *ratelimit.Locker
	metrics       *metrics.Metrics

	mu        sync.Mutex
	cron      *cron.Cron
	active    config.AutoRunConfig
	stopped   bool
	subscribe sync.Once
}

// RunSummary reports what a bill run did for one period.
type RunSummary struct {
	Period    string
	Generated []string
	Skipped   map[string]string
	Locked    bool
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.GenID == nil || p.Clock == nil || p.Billing == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		genID:         p.GenID,
		clock:         p.Clock,
		billing:       p.Billing,
		billingConfig: p.BillingConfig,
		locker:        p.Locker,
		metrics:       p.Metrics,
	}, nil
}

// Start registers the bill run on the configured cron schedule and follows
// later changes to the auto-run settings. Nothing is scheduled while the
// automatic run is disabled.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()

	if err := s.schedule(s.billingConfig.Get().AutoRun); err != nil {
		return err
	}
	s.subscribe.Do(func() {
		s.billingConfig.OnChange(func(cfg config.BillingConfig) {
			if err := s.schedule(cfg.AutoRun); err != nil {
				s.log.Warn("reschedule bill run", zap.Error(err))
			}
		})
	})
	return nil
}

// schedule replaces the registered bill run with autoRun. A run already in
// progress finishes on the old entry.
func (s *Scheduler) schedule(autoRun config.AutoRunConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	if autoRun == s.active && (s.cron != nil) == autoRun.Enabled {
		return nil
	}

	var next *cron.Cron
	if autoRun.Enabled {
		next = cron.New(cron.WithLocation(time.UTC))
		if _, err := next.AddFunc(autoRun.Schedule, func() {
			if _, err := s.RunOnce(context.Background()); err != nil {
				s.log.Warn("scheduled bill run failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("schedule bill run %q: %w", autoRun.Schedule, err)
		}
	}

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = next
	s.active = autoRun

	if next == nil {
		s.log.Info("automatic bill run disabled")
		return nil
	}
	next.Start()
	s.log.Info("automatic bill run scheduled", zap.String("schedule", autoRun.Schedule))
	return nil
}

// Stop halts the cron loop and waits for an in-flight run or ctx. Config
// changes after Stop are ignored.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.stopped = true
	s.mu.Unlock()
	if c == nil {
		return nil
	}

	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce bills the calendar month before the current one.
func (s *Scheduler) RunOnce(ctx context.Context) (RunSummary, error) {
	return s.RunForPeriod(ctx, billingdomain.PeriodOf(s.clock.Now()).Prev())
}

// RunForPeriod generates a bill for every customer that has an active meter
// and no bill for period. Customers whose bill cannot be generated are logged
// and skipped. Only a store failure aborts the run.
func (s *Scheduler) RunForPeriod(parent context.Context, period billingdomain.Period) (RunSummary, error) {
	summary := RunSummary{Period: period.String(), Skipped: map[string]string{}}

	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	ctx, run, owner := s.ensureJobRun(ctx, jobBillRun, summary.Period)

	release, acquired, err := s.acquire(ctx, summary.Period)
	if err != nil {
		s.metrics.RecordScheduledRun(ctx, outcomeFailed)
		return summary, fmt.Errorf("%s: %w", jobBillRun, err)
	}
	if !acquired {
		s.logger(ctx).Info("bill run already in progress elsewhere", zap.String("period", summary.Period))
		s.metrics.RecordScheduledRun(ctx, outcomeLocked)
		summary.Locked = true
		return summary, nil
	}
	defer release()

	if owner {
		s.logJobStart(ctx, run)
		defer s.logJobFinish(ctx, run)
	}

	customers, err := s.billing.ListBillableCustomers(ctx, period)
	if err != nil {
		s.logSchedulerError(ctx, run, "scheduler.list_customers.failed", err)
		s.metrics.RecordScheduledRun(ctx, outcomeFailed)
		return summary, fmt.Errorf("%s: %w", jobBillRun, err)
	}

	for _, customerID := range customers {
		if err := ctx.Err(); err != nil {
			s.logSchedulerError(ctx, run, "scheduler.job.timeout", err)
			s.metrics.RecordScheduledRun(ctx, outcomePartial)
			return summary, nil
		}

		result, err := s.billing.GenerateBill(ctx, billingdomain.GenerateBillRequest{
			CustomerID:   customerID,
			BillingMonth: summary.Period,
		})
		switch kind := billingdomain.KindOf(err); {
		case err == nil:
			run.AddProcessed(1)
			summary.Generated = append(summary.Generated, customerID)
			s.logger(ctx).Info("bill.generated",
				zap.String("customer_id", customerID),
				zap.String("bill_id", result.BillID.String()),
				zap.String("amount_due", result.AmountDue.StringFixed(2)),
			)
		case kind == "" || kind == billingdomain.KindStoreUnavailable:
			s.logSchedulerError(ctx, run, "scheduler.bill.failed", err, zap.String("customer_id", customerID))
			s.metrics.RecordScheduledRun(ctx, outcomeFailed)
			return summary, fmt.Errorf("%s: customer %s: %w", jobBillRun, customerID, err)
		default:
			summary.Skipped[customerID] = err.Error()
			s.logCustomerSkipped(ctx, run, customerID, err)
		}
	}

	if len(summary.Skipped) > 0 {
		s.metrics.RecordScheduledRun(ctx, outcomePartial)
	} else {
		s.metrics.RecordScheduledRun(ctx, outcomeOK)
	}
	return summary, nil
}

func (s *Scheduler) acquire(ctx context.Context, period string) (func(), bool, error) {
	if s.locker == nil {
		return func() {}, true, nil
	}
	lease, err := s.locker.Acquire(ctx, "billing:autorun:"+period, s.cfg.LockTTL)
	if errors.Is(err, ratelimit.ErrLockHeld) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return func() {
		if err := lease.Release(context.Background()); err != nil {
			s.log.Warn("release bill run lock", zap.String("period", period), zap.Error(err))
		}
	}, true, nil
}
