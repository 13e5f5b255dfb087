package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = domain.IDPrefix + s.genID.Generate().String()
	}
	if len(id) > 32 {
		return domain.Customer{}, domain.ErrInvalidID
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:           id,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := applyDetails(&customer, req.Name, req.Type, req.Email, req.Phone, req.ServiceAddress, req.BillingAddress); err != nil {
		return domain.Customer{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrExists
		}
		return domain.Customer{}, err
	}

	s.log.Info("customer registered", zap.String("customer_id", customer.ID))
	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	customer := *existing
	if err := applyDetails(&customer, req.Name, req.Type, req.Email, req.Phone, req.ServiceAddress, req.BillingAddress); err != nil {
		return domain.Customer{}, err
	}
	customer.UpdatedAt = s.clock.Now()

	affected, err := s.repo.Update(ctx, s.db, &customer)
	if err != nil {
		return domain.Customer{}, err
	}
	if affected == 0 {
		return domain.Customer{}, domain.ErrNotFound
	}
	return customer, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Customer{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	filter := domain.ListCustomerFilter{
		Name: strings.ToLower(strings.TrimSpace(req.Name)),
		Type: strings.TrimSpace(req.Type),
	}

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	customers, pageInfo, err := pagination.Trim(items, page, func(c domain.Customer) string { return c.ID })
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return domain.ListCustomerResponse{PageInfo: pageInfo, Customers: customers}, nil
}

func applyDetails(c *domain.Customer, name, typ, email, phone, serviceAddress, billingAddress string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 120 {
		return domain.ErrInvalidName
	}
	typ = strings.TrimSpace(typ)
	if typ == "" || len(typ) > 32 {
		return domain.ErrInvalidType
	}
	email = strings.TrimSpace(email)
	if email != "" && (!strings.Contains(email, "@") || len(email) > 255) {
		return domain.ErrInvalidEmail
	}
	phone = strings.TrimSpace(phone)
	if len(phone) > 32 {
		return domain.ErrInvalidPhone
	}

	c.Name = name
	c.Type = typ
	c.Email = email
	c.Phone = phone
	c.ServiceAddress = strings.TrimSpace(serviceAddress)
	c.BillingAddress = strings.TrimSpace(billingAddress)
	if c.BillingAddress == "" {
		c.BillingAddress = c.ServiceAddress
	}
	return nil
}
