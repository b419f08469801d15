package handlers

import (
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	paymentService   *services.PaymentService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, paymentService *services.PaymentService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		paymentService:   paymentService,
	}
}

// GetSummary returns the dashboard figures
// @Summary Dashboard summary
// @Description Projected revenue, amounts collected this month and year, and client counts for the current month
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response{data=services.DashboardData}
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	data, err := h.dashboardService.Summary(c.UserContext())
	if err != nil {
		return respondError(c, err, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// GetMonthlyRevenue returns the revenue chart series
// @Summary Revenue series
// @Description Monthly revenue over all payments, or daily revenue for one month when daily=true
// @Tags Dashboard
// @Produce json
// @Param daily query bool false "Daily series for one month"
// @Param month query int false "Month (1-12), default current"
// @Param year query int false "Year, default current"
// @Success 200 {object} response.Response{data=services.RevenueSeries}
// @Failure 400 {object} response.Response
// @Router /dashboard/monthly-revenue [get]
func (h *DashboardHandler) GetMonthlyRevenue(c *fiber.Ctx) error {
	series, err := h.dashboardService.Revenue(c.UserContext(), services.RevenueQuery{
		Daily: c.QueryBool("daily", false),
		Month: c.QueryInt("month", 0),
		Year:  c.QueryInt("year", 0),
	})
	if err != nil {
		return respondError(c, err, "Failed to get revenue series")
	}

	return response.Success(c, "Revenue series retrieved successfully", series)
}

// GetRecentPayments returns payments of the last days
// @Summary Recent payments
// @Tags Dashboard
// @Produce json
// @Param days query int false "Look-back in days" default(7)
// @Success 200 {object} response.Response
// @Router /dashboard/recent-payments [get]
func (h *DashboardHandler) GetRecentPayments(c *fiber.Ctx) error {
	payments, err := h.paymentService.Recent(c.UserContext(), c.QueryInt("days", services.RecentWindowDays))
	if err != nil {
		return respondError(c, err, "Failed to get recent payments")
	}

	return response.Success(c, "Recent payments retrieved successfully", newPaymentResponses(payments))
}
