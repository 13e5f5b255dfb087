package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	StaffID      string          `json:"staffId"`
	FullName     string          `json:"fullName"`
	Role         authdomain.Role `json:"role"`
	Landing      string          `json:"landing"`
	Capabilities []string        `json:"capabilities"`
	Token        string          `json:"token,omitempty"`
	ExpiresAt    *time.Time      `json:"expiresAt,omitempty"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindBodyWithJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	identity, err := s.authsvc.Verify(ctx, authdomain.VerifyRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		s.metrics.RecordLogin(ctx, "failure")
		s.recordAudit(c, auditdomain.Entry{
			ActorType:  auditdomain.ActorTypeSystem,
			Action:     "staff.login_failed",
			TargetType: "staff",
			TargetID:   strings.ToLower(strings.TrimSpace(req.Username)),
			Metadata:   map[string]any{"role": req.Role, "client_ip": c.ClientIP()},
		})
		AbortWithError(c, err)
		return
	}

	resp, err := s.sessionFor(c, identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, expiresAt, err := s.sessions.Issue(identity)
	if err != nil {
		s.log.Error("failed to issue session token", zap.String("staff_id", identity.StaffID), zap.Error(err))
		AbortWithError(c, err)
		return
	}
	resp.Token = token
	resp.ExpiresAt = &expiresAt

	s.metrics.RecordLogin(ctx, "success")
	s.recordAudit(c, auditdomain.Entry{
		ActorType:  auditdomain.ActorTypeStaff,
		ActorID:    identity.StaffID,
		Action:     "staff.login",
		TargetType: "staff",
		TargetID:   identity.StaffID,
		Metadata:   map[string]any{"role": string(identity.Role)},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) Me(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	resp, err := s.sessionFor(c, identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) sessionFor(c *gin.Context, identity authdomain.Identity) (sessionResponse, error) {
	capabilities, err := s.authzSvc.Capabilities(c.Request.Context(), identity.Role)
	if err != nil {
		return sessionResponse{}, err
	}
	return sessionResponse{
		StaffID:      identity.StaffID,
		FullName:     identity.FullName,
		Role:         identity.Role,
		Landing:      identity.Role.Landing(),
		Capabilities: capabilities,
	}, nil
}
