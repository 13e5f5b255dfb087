package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/audit/masking"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	obscontext "github.com/smallbiznis/utilitydesk/internal/observability/context"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, db *gorm.DB, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return auditdomain.ErrInvalidAction
	}
	targetType := strings.TrimSpace(entry.TargetType)
	if targetType == "" {
		return auditdomain.ErrInvalidTargetType
	}

	actorType, actorID := s.resolveActor(ctx, entry.ActorType, entry.ActorID)

	payload := masking.Redact(entry.Metadata)
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	log := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  actorType,
		ActorID:    normalize(actorID),
		Action:     action,
		TargetType: targetType,
		TargetID:   normalize(entry.TargetID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  s.clock.Now(),
	}
	if db == nil {
		db = s.db
	}
	if err := s.repo.Insert(ctx, db, &log); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		Action:     req.Action,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
	}, req.Pagination)
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}

	logs, pageInfo, err := pagination.Trim(items, req.Pagination, func(l auditdomain.AuditLog) string {
		return l.ID.String()
	})
	if err != nil {
		return auditdomain.ListAuditLogResponse{}, err
	}
	if logs == nil {
		logs = []auditdomain.AuditLog{}
	}
	return auditdomain.ListAuditLogResponse{PageInfo: pageInfo, AuditLogs: logs}, nil
}

func (s *Service) resolveActor(ctx context.Context, actorType auditdomain.ActorType, actorID string) (string, string) {
	if actorType == "" {
		if ctxType, ctxID := obscontext.ActorFromContext(ctx); ctxType != "" {
			actorType = auditdomain.ActorType(ctxType)
			if strings.TrimSpace(actorID) == "" {
				actorID = ctxID
			}
		}
	}
	if actorType == "" {
		actorType = auditdomain.ActorTypeSystem
	}
	return string(actorType), actorID
}

func normalize(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
