package authorization

import (
	"context"
	_ "embed"
	"sort"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
	AuditSvc auditdomain.Service `optional:"true"`
}

type ServiceImpl struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
	auditSvc auditdomain.Service
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
		auditSvc: p.AuditSvc,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, identity authdomain.Identity, action string) error {
	staffID := strings.TrimSpace(identity.StaffID)
	if staffID == "" {
		return ErrInvalidActor
	}
	if _, err := authdomain.ParseRole(string(identity.Role)); err != nil {
		return ErrInvalidActor
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := StaffSubject(staffID)
	if err := s.ensureGrouping(subject, RoleSubject(identity.Role)); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, objectOf(action), action)
	if err != nil {
		return err
	}
	if !allowed {
		s.auditDenied(ctx, identity, action)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) Capabilities(ctx context.Context, role authdomain.Role) ([]string, error) {
	rules, err := s.enforcer.GetFilteredPolicy(0, RoleSubject(role))
	if err != nil {
		return nil, err
	}
	actions := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		actions = append(actions, rule[2])
	}
	sort.Strings(actions)
	return actions, nil
}

// ensureGrouping keeps exactly one role link for subject.
func (s *ServiceImpl) ensureGrouping(subject string, roleName string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName)
	return err
}

func (s *ServiceImpl) auditDenied(ctx context.Context, identity authdomain.Identity, action string) {
	s.log.Info("capability denied",
		zap.String("staff_id", identity.StaffID),
		zap.String("role", string(identity.Role)),
		zap.String("action", action),
	)
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, nil, auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeStaff,
		ActorID:    identity.StaffID,
		Action:     "authorization.denied",
		TargetType: "capability",
		TargetID:   action,
		Metadata: map[string]any{
			"role":   string(identity.Role),
			"object": objectOf(action),
		},
	})
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	for _, policy := range defaultPolicies() {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
