package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/observability/metrics"
	"github.com/smallbiznis/utilitydesk/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	UnitOfWork *store.UnitOfWork
	Locker     *store.Locker
	Audit      auditdomain.Service
	Config     *config.BillingConfigHolder `optional:"true"`
	Metrics    *metrics.Metrics            `optional:"true"`
}

// Service is the billing engine. Every mutation runs as one unit of work.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	uow     *store.UnitOfWork
	locker  *store.Locker
	audit   auditdomain.Service
	config  *config.BillingConfigHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("billing.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		uow:     p.UnitOfWork,
		locker:  p.Locker,
		audit:   p.Audit,
		config:  p.Config,
		metrics: p.Metrics,
	}
}

// run executes fn as a unit of work. Engine errors pass through unchanged and
// anything else is reported as store_unavailable.
func (s *Service) run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	return s.classify(ctx, op, s.uow.Do(ctx, fn))
}

func (s *Service) read(ctx context.Context, op string, fn func(db *gorm.DB) error) error {
	return s.classify(ctx, op, s.uow.Read(ctx, fn))
}

func (s *Service) classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	switch domain.KindOf(err) {
	case "":
		s.log.Error("store failure", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordStoreFailure(ctx, op)
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	case domain.KindConflict:
		s.metrics.RecordConflict(ctx, op)
	}
	return err
}
