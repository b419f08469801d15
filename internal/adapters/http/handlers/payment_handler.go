package handlers

import (
	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/adapters/persistence/repositories"
	"fee-ledger/internal/core/domain"
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/pagination"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// PaymentRequest represents register payment request
type PaymentRequest struct {
	ClientID    string          `json:"client_id"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	PaymentDate string          `json:"payment_date" example:"2024-03-10"`
	Note        string          `json:"note,omitempty"`
}

func newPaymentResponses(payments []domain.Payment) []*models.PaymentResponse {
	out := make([]*models.PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = models.NewPaymentResponse(p)
	}
	return out
}

// Create registers a payment
// @Summary Register payment
// @Description Record a monthly fee payment. payment_date defaults to today.
// @Tags Payments
// @Accept json
// @Produce json
// @Param body body PaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := h.paymentService.Register(c.UserContext(), services.PaymentInput{
		ClientID:    req.ClientID,
		Amount:      req.Amount,
		PaymentDate: req.PaymentDate,
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, err, "Failed to register payment")
	}

	return response.Created(c, "Payment registered successfully", models.NewPaymentResponse(*payment))
}

// List lists payments
// @Summary List payments
// @Description List payments, optionally for one client. Sending page or limit returns a paginated result.
// @Tags Payments
// @Produce json
// @Param client_id query string false "Filter by client ID"
// @Param from query string false "First payment date (YYYY-MM-DD)"
// @Param to query string false "Last payment date (YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	filter := repositories.PaymentFilter{
		ClientID: c.Query("client_id"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}

	if pagination.Requested(c) {
		params := pagination.GetParams(c)
		payments, total, err := h.paymentService.ListPage(c.UserContext(), filter, params.Offset, params.Limit)
		if err != nil {
			return respondError(c, err, "Failed to list payments")
		}
		return response.Success(c, "Payments retrieved successfully",
			pagination.NewResponse(newPaymentResponses(payments), params, total))
	}

	payments, err := h.paymentService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list payments")
	}
	return response.Success(c, "Payments retrieved successfully", newPaymentResponses(payments))
}

// Delete removes a payment
// @Summary Delete payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	if err := h.paymentService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete payment")
	}
	return response.Success(c, "Payment deleted successfully", nil)
}
