package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth/password"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Config config.Config
}

type Service struct {
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	clock           clock.Clock
	repo            domain.Repository
	legacyPlaintext bool
}

func New(p Params) domain.Service {
	return &Service{
		db:              p.DB,
		log:             p.Log.Named("auth.service"),
		genID:           p.GenID,
		clock:           p.Clock,
		repo:            p.Repo,
		legacyPlaintext: p.Config.AuthLegacyPlaintext,
	}
}

// Verify checks a username, password and claimed role. Every failure is
// reported as ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, req domain.VerifyRequest) (domain.Identity, error) {
	username := normalizeUsername(req.Username)
	role, roleErr := domain.ParseRole(req.Role)
	if username == "" || req.Password == "" {
		password.Burn(req.Password)
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	staff, err := s.repo.FindByUsername(ctx, s.db, username)
	if err != nil {
		return domain.Identity{}, err
	}
	if staff == nil {
		password.Burn(req.Password)
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	if !s.checkPassword(ctx, staff, req.Password) {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	if roleErr != nil || staff.Role != role {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return staff.Identity(), nil
}

func (s *Service) checkPassword(ctx context.Context, staff *domain.Staff, candidate string) bool {
	if password.IsHash(staff.PasswordHash) {
		return password.Verify(candidate, staff.PasswordHash)
	}

	if !s.legacyPlaintext {
		password.Burn(candidate)
		s.log.Warn("legacy plaintext credential rejected", zap.String("staff_id", staff.ID))
		return false
	}
	if !password.EqualPlaintext(candidate, staff.PasswordHash) {
		return false
	}

	hashed, err := password.Hash(candidate)
	if err != nil {
		s.log.Error("failed to rehash legacy credential", zap.String("staff_id", staff.ID), zap.Error(err))
		return true
	}
	if err := s.repo.UpdatePasswordHash(ctx, s.db, staff.ID, hashed); err != nil {
		s.log.Error("failed to store rehashed credential", zap.String("staff_id", staff.ID), zap.Error(err))
		return true
	}
	s.log.Info("legacy credential rehashed", zap.String("staff_id", staff.ID))
	return true
}

func (s *Service) CreateStaff(ctx context.Context, req domain.CreateStaffRequest) (domain.Staff, error) {
	username := normalizeUsername(req.Username)
	if username == "" || len(username) > maxUsernameLength {
		return domain.Staff{}, domain.ErrInvalidUsername
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return domain.Staff{}, domain.ErrInvalidFullName
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return domain.Staff{}, err
	}
	if len(req.Password) < minPasswordLength {
		return domain.Staff{}, domain.ErrInvalidPassword
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = domain.IDPrefix + s.genID.Generate().String()
	}
	if len(id) > 32 {
		return domain.Staff{}, domain.ErrInvalidUsername
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return domain.Staff{}, err
	}

	now := s.clock.Now()
	staff := domain.Staff{
		ID:           id,
		Username:     username,
		FullName:     fullName,
		Role:         role,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, s.db, &staff); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Staff{}, domain.ErrStaffExists
		}
		return domain.Staff{}, err
	}

	s.log.Info("staff created", zap.String("staff_id", staff.ID), zap.String("role", string(role)))
	return staff, nil
}

func (s *Service) GetStaff(ctx context.Context, id string) (domain.Staff, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Staff{}, domain.ErrStaffNotFound
	}
	staff, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Staff{}, err
	}
	if staff == nil {
		return domain.Staff{}, domain.ErrStaffNotFound
	}
	return *staff, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.Staff, error) {
	staff, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []domain.Staff{}
	}
	return staff, nil
}

func normalizeUsername(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
