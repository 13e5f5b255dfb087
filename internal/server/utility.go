package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
)

type createUtilityTypeRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

func (s *Server) CreateUtilityType(c *gin.Context) {
	var req createUtilityTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.utilitySvc.Create(c.Request.Context(), utilitydomain.CreateUtilityTypeRequest{
		ID:   strings.TrimSpace(req.ID),
		Name: req.Name,
		Unit: req.Unit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "utility_type.create",
		TargetType: "utility_type",
		TargetID:   resp.ID,
		Metadata:   map[string]any{"name": resp.Name, "unit": resp.Unit},
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListUtilityTypes(c *gin.Context) {
	resp, err := s.utilitySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUtilityTypeByID(c *gin.Context) {
	resp, err := s.utilitySvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
