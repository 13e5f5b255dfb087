package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
)

type createMeterRequest struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	UtilityID  string `json:"utilityId"`
	Status     string `json:"status"`
	Location   string `json:"location"`
}

type updateMeterRequest struct {
	CustomerID *string `json:"customerId"`
	UtilityID  *string `json:"utilityId"`
	Status     *string `json:"status"`
	Location   *string `json:"location"`
}

func (s *Server) CreateMeter(c *gin.Context) {
	var req createMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.meterSvc.Create(c.Request.Context(), meterdomain.CreateRequest{
		ID:         strings.TrimSpace(req.ID),
		CustomerID: strings.TrimSpace(req.CustomerID),
		UtilityID:  strings.TrimSpace(req.UtilityID),
		Status:     strings.TrimSpace(req.Status),
		Location:   req.Location,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "meter.create",
		TargetType: "meter",
		TargetID:   resp.ID,
		Metadata: map[string]any{
			"customer_id": resp.CustomerID,
			"utility_id":  resp.UtilityID,
			"status":      string(resp.Status),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateMeter(c *gin.Context) {
	var req updateMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.meterSvc.Update(c.Request.Context(), meterdomain.UpdateRequest{
		ID:         strings.TrimSpace(c.Param("id")),
		CustomerID: req.CustomerID,
		UtilityID:  req.UtilityID,
		Status:     req.Status,
		Location:   req.Location,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "meter.update",
		TargetType: "meter",
		TargetID:   resp.ID,
		Metadata:   map[string]any{"status": string(resp.Status)},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMeters(c *gin.Context) {
	resp, err := s.meterSvc.List(c.Request.Context(), meterdomain.ListRequest{
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		UtilityID:  strings.TrimSpace(c.Query("utility_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMeterByID(c *gin.Context) {
	resp, err := s.meterSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// RouteSheet lists the meters a field officer still has to read.
func (s *Server) RouteSheet(c *gin.Context) {
	resp, err := s.meterSvc.RouteSheet(c.Request.Context(), strings.TrimSpace(c.Query("period")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
