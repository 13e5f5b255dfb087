package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
)

type submitReadingRequest struct {
	MeterID string           `json:"meterId"`
	StaffID string           `json:"staffId"`
	Value   *decimal.Decimal `json:"value" binding:"required"`
	Date    string           `json:"date"`
	Notes   string           `json:"notes"`
}

type generateBillRequest struct {
	CustomerID   string `json:"customerId"`
	BillingMonth string `json:"billingMonth"`
}

type recordPaymentRequest struct {
	BillID  string           `json:"billId"`
	Amount  *decimal.Decimal `json:"amount" binding:"required"`
	Method  string           `json:"method"`
	StaffID string           `json:"staffId"`
}

func (s *Server) SubmitReading(c *gin.Context) {
	var req submitReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	staffID, err := actingStaff(c, req.StaffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	date, err := parseReadingDate(req.Date)
	if err != nil {
		AbortWithError(c, billingdomain.ErrInvalidDate)
		return
	}

	resp, err := s.billingSvc.SubmitReading(c.Request.Context(), billingdomain.SubmitReadingRequest{
		MeterID: strings.TrimSpace(req.MeterID),
		StaffID: staffID,
		Value:   *req.Value,
		Date:    date,
		Notes:   req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GenerateBill(c *gin.Context) {
	var req generateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.billingSvc.GenerateBill(c.Request.Context(), billingdomain.GenerateBillRequest{
		CustomerID:   strings.TrimSpace(req.CustomerID),
		BillingMonth: strings.TrimSpace(req.BillingMonth),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	staffID, err := actingStaff(c, req.StaffID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.billingSvc.RecordPayment(c.Request.Context(), billingdomain.RecordPaymentRequest{
		BillID:  strings.TrimSpace(req.BillID),
		Amount:  *req.Amount,
		Method:  strings.TrimSpace(req.Method),
		StaffID: staffID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	resp, err := s.billingSvc.DeleteCustomer(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMeter(c *gin.Context) {
	resp, err := s.billingSvc.DeleteMeter(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTariff(c *gin.Context) {
	resp, err := s.billingSvc.DeleteTariff(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBill(c *gin.Context) {
	resp, err := s.billingSvc.GetBill(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customer_id"`
		Status     string `form:"status"`
		Period     string `form:"period"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.ListBills(c.Request.Context(), billingdomain.ListBillsRequest{
		Pagination: query.Pagination,
		CustomerID: strings.TrimSpace(query.CustomerID),
		Status:     strings.TrimSpace(query.Status),
		Period:     strings.TrimSpace(query.Period),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListMeterReadings(c *gin.Context) {
	resp, err := s.billingSvc.ListReadings(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBillableCustomers(c *gin.Context) {
	period, err := billingdomain.ParsePeriod(strings.TrimSpace(c.Query("period")))
	if err != nil {
		AbortWithError(c, billingdomain.ErrInvalidBillingMonth)
		return
	}

	resp, err := s.billingSvc.ListBillableCustomers(c.Request.Context(), period)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"period": period.String(), "customerIds": resp}})
}

// actingStaff resolves the staff a reading or payment is attributed to.
// Only Admin may attribute work to someone else.
func actingStaff(c *gin.Context, requested string) (string, error) {
	identity, ok := identityFromContext(c)
	if !ok {
		return "", ErrUnauthorized
	}
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == identity.StaffID {
		return identity.StaffID, nil
	}
	if identity.Role != authdomain.RoleAdmin {
		return "", ErrForbidden
	}
	return requested, nil
}
