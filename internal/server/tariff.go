package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
)

type createTariffRequest struct {
	ID          string           `json:"id"`
	UtilityID   string           `json:"utilityId"`
	Name        string           `json:"name"`
	Rate        *decimal.Decimal `json:"rate" binding:"required"`
	MinUnits    *decimal.Decimal `json:"minUnits"`
	FixedCharge *decimal.Decimal `json:"fixedCharge"`
}

type updateTariffRequest struct {
	UtilityID   *string          `json:"utilityId"`
	Name        *string          `json:"name"`
	Rate        *decimal.Decimal `json:"rate"`
	MinUnits    *decimal.Decimal `json:"minUnits"`
	FixedCharge *decimal.Decimal `json:"fixedCharge"`
}

func (s *Server) CreateTariff(c *gin.Context) {
	var req createTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.tariffSvc.Create(c.Request.Context(), tariffdomain.CreateRequest{
		ID:          strings.TrimSpace(req.ID),
		UtilityID:   strings.TrimSpace(req.UtilityID),
		Name:        req.Name,
		Rate:        *req.Rate,
		MinUnits:    req.MinUnits,
		FixedCharge: req.FixedCharge,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "tariff.create",
		TargetType: "tariff",
		TargetID:   resp.ID,
		Metadata: map[string]any{
			"utility_id":   resp.UtilityID,
			"rate":         resp.Rate.String(),
			"min_units":    resp.MinUnits.String(),
			"fixed_charge": resp.FixedCharge.String(),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateTariff(c *gin.Context) {
	var req updateTariffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.tariffSvc.Update(c.Request.Context(), tariffdomain.UpdateRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		UtilityID:   req.UtilityID,
		Name:        req.Name,
		Rate:        req.Rate,
		MinUnits:    req.MinUnits,
		FixedCharge: req.FixedCharge,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "tariff.update",
		TargetType: "tariff",
		TargetID:   resp.ID,
		Metadata: map[string]any{
			"rate":         resp.Rate.String(),
			"min_units":    resp.MinUnits.String(),
			"fixed_charge": resp.FixedCharge.String(),
		},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTariffs(c *gin.Context) {
	resp, err := s.tariffSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("utility_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTariffByID(c *gin.Context) {
	resp, err := s.tariffSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
