package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/utility/domain"
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
		log:   p.Log.Named("utility.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUtilityTypeRequest) (domain.UtilityType, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 64 {
		return domain.UtilityType{}, domain.ErrInvalidName
	}
	unit := strings.TrimSpace(req.Unit)
	if len(unit) > 16 {
		return domain.UtilityType{}, domain.ErrInvalidUnit
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = slug.Make(name)
	}
	if id == "" || len(id) > 32 {
		return domain.UtilityType{}, domain.ErrInvalidID
	}

	utility := domain.UtilityType{
		ID:        id,
		Name:      name,
		Unit:      unit,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &utility); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.UtilityType{}, domain.ErrExists
		}
		return domain.UtilityType{}, err
	}
	return utility, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.UtilityType, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.UtilityType{}, domain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.UtilityType{}, err
	}
	if item == nil {
		return domain.UtilityType{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context) ([]domain.UtilityType, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.UtilityType{}
	}
	return items, nil
}
