package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
)

type createStaffRequest struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (s *Server) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.authsvc.CreateStaff(c.Request.Context(), authdomain.CreateStaffRequest{
		ID:       strings.TrimSpace(req.ID),
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "staff.create",
		TargetType: "staff",
		TargetID:   resp.ID,
		Metadata:   map[string]any{"username": resp.Username, "role": string(resp.Role)},
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListStaff(c *gin.Context) {
	resp, err := s.authsvc.ListStaff(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetStaff(c *gin.Context) {
	resp, err := s.authsvc.GetStaff(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
