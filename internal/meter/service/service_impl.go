package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/utilitydesk/internal/clock"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
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
	Repo  meterdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  meterdomain.Repository
}

func New(p Params) meterdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("meter.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req meterdomain.CreateRequest) (meterdomain.Meter, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" || len(id) > 32 {
		return meterdomain.Meter{}, meterdomain.ErrInvalidID
	}

	status := meterdomain.StatusActive
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := meterdomain.ParseStatus(req.Status)
		if !ok {
			return meterdomain.Meter{}, meterdomain.ErrInvalidStatus
		}
		status = parsed
	}

	now := s.clock.Now()
	m := meterdomain.Meter{
		ID:          id,
		CustomerID:  strings.TrimSpace(req.CustomerID),
		UtilityID:   strings.TrimSpace(req.UtilityID),
		Status:      status,
		Location:    strings.TrimSpace(req.Location),
		InstalledAt: now,
		UpdatedAt:   now,
	}
	if err := s.validateRefs(ctx, &m); err != nil {
		return meterdomain.Meter{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &m); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return meterdomain.Meter{}, meterdomain.ErrExists
		}
		return meterdomain.Meter{}, err
	}

	s.log.Info("meter registered",
		zap.String("meter_id", m.ID),
		zap.String("customer_id", m.CustomerID),
		zap.String("utility_id", m.UtilityID),
	)
	return m, nil
}

func (s *Service) Update(ctx context.Context, req meterdomain.UpdateRequest) (meterdomain.Meter, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return meterdomain.Meter{}, meterdomain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return meterdomain.Meter{}, err
	}
	if existing == nil {
		return meterdomain.Meter{}, meterdomain.ErrNotFound
	}

	m := *existing
	if req.CustomerID != nil {
		m.CustomerID = strings.TrimSpace(*req.CustomerID)
	}
	if req.UtilityID != nil {
		m.UtilityID = strings.TrimSpace(*req.UtilityID)
	}
	if req.Status != nil {
		status, ok := meterdomain.ParseStatus(*req.Status)
		if !ok {
			return meterdomain.Meter{}, meterdomain.ErrInvalidStatus
		}
		m.Status = status
	}
	if req.Location != nil {
		m.Location = strings.TrimSpace(*req.Location)
	}
	if err := s.validateRefs(ctx, &m); err != nil {
		return meterdomain.Meter{}, err
	}
	m.UpdatedAt = s.clock.Now()

	affected, err := s.repo.Update(ctx, s.db, &m)
	if err != nil {
		return meterdomain.Meter{}, err
	}
	if affected == 0 {
		return meterdomain.Meter{}, meterdomain.ErrNotFound
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (meterdomain.MeterDetails, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return meterdomain.MeterDetails{}, meterdomain.ErrInvalidID
	}
	item, err := s.repo.FindDetails(ctx, s.db, id)
	if err != nil {
		return meterdomain.MeterDetails{}, err
	}
	if item == nil {
		return meterdomain.MeterDetails{}, meterdomain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req meterdomain.ListRequest) ([]meterdomain.MeterDetails, error) {
	filter := meterdomain.ListMeterFilter{
		CustomerID: strings.TrimSpace(req.CustomerID),
		UtilityID:  strings.TrimSpace(req.UtilityID),
	}
	if strings.TrimSpace(req.Status) != "" {
		status, ok := meterdomain.ParseStatus(req.Status)
		if !ok {
			return nil, meterdomain.ErrInvalidStatus
		}
		filter.Status = status
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []meterdomain.MeterDetails{}
	}
	return items, nil
}

func (s *Service) RouteSheet(ctx context.Context, period string) ([]meterdomain.RouteStop, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		period = s.clock.Now().Format("2006-01")
	} else if _, err := time.Parse("2006-01", period); err != nil {
		return nil, meterdomain.ErrInvalidPeriod
	}

	stops, err := s.repo.ListUnread(ctx, s.db, period)
	if err != nil {
		return nil, err
	}
	if stops == nil {
		stops = []meterdomain.RouteStop{}
	}
	return stops, nil
}

func (s *Service) validateRefs(ctx context.Context, m *meterdomain.Meter) error {
	if m.CustomerID == "" {
		return meterdomain.ErrInvalidCustomer
	}
	if m.UtilityID == "" {
		return meterdomain.ErrInvalidUtility
	}
	if len(m.Location) > 255 {
		return meterdomain.ErrInvalidLocation
	}

	ok, err := s.repo.CustomerExists(ctx, s.db, m.CustomerID)
	if err != nil {
		return err
	}
	if !ok {
		return meterdomain.ErrUnknownCustomer
	}
	ok, err = s.repo.UtilityExists(ctx, s.db, m.UtilityID)
	if err != nil {
		return err
	}
	if !ok {
		return meterdomain.ErrUnknownUtility
	}
	return nil
}
