package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
)

type customerRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ServiceAddress string `json:"serviceAddress"`
	BillingAddress string `json:"billingAddress"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		ID:             strings.TrimSpace(req.ID),
		Name:           req.Name,
		Type:           req.Type,
		Email:          req.Email,
		Phone:          req.Phone,
		ServiceAddress: req.ServiceAddress,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "customer.create",
		TargetType: "customer",
		TargetID:   resp.ID,
		Metadata: map[string]any{
			"name":  resp.Name,
			"type":  resp.Type,
			"email": resp.Email,
		},
	})

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		ID:             strings.TrimSpace(c.Param("id")),
		Name:           req.Name,
		Type:           req.Type,
		Email:          req.Email,
		Phone:          req.Phone,
		ServiceAddress: req.ServiceAddress,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.recordAudit(c, auditdomain.Entry{
		Action:     "customer.update",
		TargetType: "customer",
		TargetID:   resp.ID,
		Metadata:   map[string]any{"name": resp.Name, "type": resp.Type},
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name string `form:"name"`
		Type string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Name:      strings.TrimSpace(query.Name),
		Type:      strings.TrimSpace(query.Type),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
