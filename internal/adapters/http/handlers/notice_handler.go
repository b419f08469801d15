package handlers

import (
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NoticeHandler handles billing notice endpoints
type NoticeHandler struct {
	notificationService *services.NotificationService
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(notificationService *services.NotificationService) *NoticeHandler {
	return &NoticeHandler{
		notificationService: notificationService,
	}
}

// SendNoticeRequest represents send notice request
type SendNoticeRequest struct {
	ClientID string `json:"client_id"`
}

// Send sends a billing notice to one client
// @Summary Send billing notice
// @Description Email the monthly fee notice to one client
// @Tags Notices
// @Accept json
// @Produce json
// @Param body body SendNoticeRequest true "Client"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 500 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /notices/send [post]
func (h *NoticeHandler) Send(c *fiber.Ctx) error {
	var req SendNoticeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ClientID == "" {
		return response.BadRequest(c, "client_id is required")
	}

	if err := h.notificationService.SendNotice(c.UserContext(), req.ClientID); err != nil {
		return respondError(c, err, "Failed to send billing notice")
	}
	return response.Success(c, "Billing notice sent successfully", nil)
}

// Run sends the automatic notice to every delinquent client now
// @Summary Run delinquent notices
// @Description Send the automatic notice to every active client without a payment this month. Per-recipient failures are reported, not fatal.
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Response{data=services.NoticeReport}
// @Failure 503 {object} response.Response
// @Router /notices/run [post]
func (h *NoticeHandler) Run(c *fiber.Ctx) error {
	report, err := h.notificationService.SendDelinquentNotices(c.UserContext(), services.TriggerBatch)
	if err != nil {
		return respondError(c, err, "Failed to run delinquent notices")
	}
	return response.Success(c, "Delinquent notices processed", report)
}
