package handlers

import (
	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/core/domain"
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// BillHandler handles payable bill endpoints
type BillHandler struct {
	billService *services.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *services.BillService) *BillHandler {
	return &BillHandler{
		billService: billService,
	}
}

// BillRequest represents create/update bill request
type BillRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	DueDate     string          `json:"due_date" example:"2024-03-15"`
	Category    string          `json:"category"`
	Recurring   bool            `json:"recurring"`
	Status      string          `json:"status,omitempty" enums:"pending,paid"`
	PaymentDate *string         `json:"payment_date,omitempty"`
	Note        string          `json:"note,omitempty"`
}

func (r *BillRequest) toInput() services.BillInput {
	return services.BillInput{
		Description: r.Description,
		Amount:      r.Amount,
		DueDate:     r.DueDate,
		Category:    r.Category,
		Recurring:   r.Recurring,
		Status:      domain.BillStatus(r.Status),
		PaymentDate: r.PaymentDate,
		Note:        r.Note,
	}
}

// MarkPaidRequest represents mark bill paid request
type MarkPaidRequest struct {
	PaymentDate string `json:"payment_date,omitempty" example:"2024-03-15"`
}

func newBillResponse(v *services.BillView) *models.BillResponse {
	return models.NewBillResponse(v.Bill, v.Overdue)
}

// Create creates a bill
// @Summary Create bill
// @Tags Bills
// @Accept json
// @Produce json
// @Param body body BillRequest true "Bill data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	var req BillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.Create(c.UserContext(), req.toInput())
	if err != nil {
		return respondError(c, err, "Failed to create bill")
	}
	return response.Created(c, "Bill created successfully", newBillResponse(bill))
}

// List lists bills
// @Summary List bills
// @Description List bills by due date. overdue is derived at read time.
// @Tags Bills
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, paid)
// @Param overdue query bool false "Only overdue bills"
// @Param upcoming_days query int false "Only pending bills due within N days"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	filter := services.BillFilter{
		Status:       domain.BillStatus(c.Query("status")),
		OverdueOnly:  c.QueryBool("overdue", false),
		UpcomingDays: c.QueryInt("upcoming_days", 0),
	}
	if filter.Status != "" && filter.Status != domain.BillPending && filter.Status != domain.BillPaid {
		return response.BadRequest(c, "status must be pending or paid")
	}
	if filter.UpcomingDays < 0 {
		return response.BadRequest(c, "upcoming_days must not be negative")
	}

	bills, err := h.billService.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err, "Failed to list bills")
	}

	out := make([]*models.BillResponse, len(bills))
	for i := range bills {
		out[i] = newBillResponse(&bills[i])
	}
	return response.Success(c, "Bills retrieved successfully", out)
}

// Get returns one bill
// @Summary Get bill
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{id} [get]
func (h *BillHandler) Get(c *fiber.Ctx) error {
	bill, err := h.billService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get bill")
	}
	return response.Success(c, "Bill retrieved successfully", newBillResponse(bill))
}

// Update edits a bill
// @Summary Update bill
// @Description Replace a bill. Setting status to pending clears payment_date.
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param body body BillRequest true "Bill data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{id} [put]
func (h *BillHandler) Update(c *fiber.Ctx) error {
	var req BillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	bill, err := h.billService.Update(c.UserContext(), c.Params("id"), req.toInput())
	if err != nil {
		return respondError(c, err, "Failed to update bill")
	}
	return response.Success(c, "Bill updated successfully", newBillResponse(bill))
}

// MarkPaid marks a bill as paid
// @Summary Mark bill paid
// @Description Set status to paid and record the payment date (default today)
// @Tags Bills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param body body MarkPaidRequest false "Payment date"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /bills/{id}/pay [post]
func (h *BillHandler) MarkPaid(c *fiber.Ctx) error {
	var req MarkPaidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	bill, err := h.billService.MarkPaid(c.UserContext(), c.Params("id"), req.PaymentDate)
	if err != nil {
		return respondError(c, err, "Failed to mark bill paid")
	}
	return response.Success(c, "Bill marked as paid", newBillResponse(bill))
}

// Delete removes a bill
// @Summary Delete bill
// @Tags Bills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /bills/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	if err := h.billService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete bill")
	}
	return response.Success(c, "Bill deleted successfully", nil)
}
