package handlers

import (
	"errors"
	"log/slog"

	"fee-ledger/internal/core/domain"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its HTTP response. Unknown errors are
// logged and answered with fallback.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.BadRequest(c, verr.Error())
	case errors.Is(err, domain.ErrClientNotFound):
		return response.NotFound(c, "Client not found")
	case errors.Is(err, domain.ErrPaymentNotFound):
		return response.NotFound(c, "Payment not found")
	case errors.Is(err, domain.ErrBillNotFound):
		return response.NotFound(c, "Bill not found")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, domain.ErrTaxIDAlreadyExists):
		return response.Conflict(c, "Tax ID already registered")
	case errors.Is(err, domain.ErrClientInactive):
		return response.Conflict(c, "Client is inactive")
	case errors.Is(err, domain.ErrBillAlreadyPaid):
		return response.Conflict(c, "Bill is already paid")
	case errors.Is(err, domain.ErrMailerDisabled):
		return response.ServiceUnavailable(c, "Mail sending is not configured")
	case errors.Is(err, domain.ErrNoticeDelivery):
		slog.ErrorContext(c.UserContext(), fallback, "method", c.Method(), "path", c.Path(), "error", err)
		return response.BadGateway(c, fallback)
	default:
		slog.ErrorContext(c.UserContext(), fallback, "method", c.Method(), "path", c.Path(), "error", err)
		return response.InternalServerError(c, fallback)
	}
}
