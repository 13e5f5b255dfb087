package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/money"
	"github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tariff.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Tariff, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" || len(id) > 32 {
		return domain.Tariff{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	t := domain.Tariff{
		ID:          id,
		UtilityID:   strings.TrimSpace(req.UtilityID),
		Name:        strings.TrimSpace(req.Name),
		Rate:        req.Rate,
		MinUnits:    decimal.Zero,
		FixedCharge: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.MinUnits != nil {
		t.MinUnits = *req.MinUnits
	}
	if req.FixedCharge != nil {
		t.FixedCharge = *req.FixedCharge
	}
	if err := s.validate(ctx, &t); err != nil {
		return domain.Tariff{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &t); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Tariff{}, domain.ErrExists
		}
		return domain.Tariff{}, err
	}

	s.log.Info("tariff registered",
		zap.String("tariff_id", t.ID),
		zap.String("utility_id", t.UtilityID),
		zap.String("rate", t.Rate.String()),
	)
	return t, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Tariff, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return domain.Tariff{}, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tariff{}, err
	}
	if existing == nil {
		return domain.Tariff{}, domain.ErrNotFound
	}

	t := *existing
	if req.UtilityID != nil {
		t.UtilityID = strings.TrimSpace(*req.UtilityID)
	}
	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Rate != nil {
		t.Rate = *req.Rate
	}
	if req.MinUnits != nil {
		t.MinUnits = *req.MinUnits
	}
	if req.FixedCharge != nil {
		t.FixedCharge = *req.FixedCharge
	}
	if err := s.validate(ctx, &t); err != nil {
		return domain.Tariff{}, err
	}
	t.UpdatedAt = s.clock.Now()

	affected, err := s.repo.Update(ctx, s.db, &t)
	if err != nil {
		return domain.Tariff{}, err
	}
	if affected == 0 {
		return domain.Tariff{}, domain.ErrNotFound
	}
	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Tariff, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Tariff{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Tariff{}, err
	}
	if item == nil {
		return domain.Tariff{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, utilityID string) ([]domain.Tariff, error) {
	items, err := s.repo.List(ctx, s.db, strings.TrimSpace(utilityID))
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Tariff{}
	}
	return items, nil
}

func (s *Service) validate(ctx context.Context, t *domain.Tariff) error {
	if t.UtilityID == "" {
		return domain.ErrInvalidUtility
	}
	if t.Name == "" || len(t.Name) > 120 {
		return domain.ErrInvalidName
	}
	if t.Rate.IsNegative() || !money.Fits(t.Rate) {
		return domain.ErrInvalidRate
	}
	if t.MinUnits.IsNegative() || !money.Fits(t.MinUnits) {
		return domain.ErrInvalidMinUnits
	}
	if t.FixedCharge.IsNegative() || !money.Fits(t.FixedCharge) {
		return domain.ErrInvalidFixedCharge
	}

	ok, err := s.repo.UtilityExists(ctx, s.db, t.UtilityID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnknownUtility
	}
	return nil
}
