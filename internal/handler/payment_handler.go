package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	"github.com/noah-isme/classfee-api/internal/service"
	"github.com/noah-isme/classfee-api/pkg/response"
)

type paymentService interface {
	List(ctx context.Context, query dto.PaymentListQuery) ([]models.Payment, dto.PaymentListSummary, error)
	Get(ctx context.Context, id string) (*models.Payment, error)
	GenerateMonthlyFees(ctx context.Context, req dto.MonthlyFeeRequest) ([]models.Payment, error)
	UpdateStatus(ctx context.Context, id string, req dto.PaymentStatusRequest) (*models.Payment, error)
}

type exportService interface {
	Payments(ctx context.Context, query dto.PaymentExportQuery) (*service.ExportFile, error)
}

// PaymentHandler exposes the payment ledger and billing workflows.
type PaymentHandler struct {
	service paymentService
	export  exportService
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc paymentService, export exportService) *PaymentHandler {
	return &PaymentHandler{service: svc, export: export}
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param classId query string false "Filter by class"
// @Param month query int false "Billing month (1-12)"
// @Param year query int false "Billing year"
// @Param status query string false "paid, unpaid or all"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	var query dto.PaymentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	payments, summary, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, map[string]interface{}{"summary": summary})
}

// Get godoc
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// GenerateMonthlyFees godoc
// @Summary Generate monthly fees
// @Description Creates one unpaid payment per selected student. Repeating a period creates duplicates.
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body dto.MonthlyFeeRequest true "Billing period and students"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/monthly-fees [post]
func (h *PaymentHandler) GenerateMonthlyFees(c *gin.Context) {
	var req dto.MonthlyFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	payments, err := h.service.GenerateMonthlyFees(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payments)
}

// UpdateStatus godoc
// @Summary Update payment status
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payload body dto.PaymentStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	var req dto.PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	payment, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment)
}

// Export godoc
// @Summary Export payments
// @Tags Payments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param classId query string false "Filter by class"
// @Param month query int false "Billing month (1-12)"
// @Param year query int false "Billing year"
// @Param status query string false "paid, unpaid or all"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /payments/export [get]
func (h *PaymentHandler) Export(c *gin.Context) {
	var query dto.PaymentExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	file, err := h.export.Payments(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
