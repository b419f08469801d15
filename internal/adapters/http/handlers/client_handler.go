package handlers

import (
	"fee-ledger/internal/adapters/persistence/models"
	"fee-ledger/internal/core/domain"
	"fee-ledger/internal/core/services"
	"fee-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// ClientRequest represents register/update client request
type ClientRequest struct {
	Name       string          `json:"name"`
	TaxID      string          `json:"tax_id"`
	Address    string          `json:"address"`
	TaxRegime  string          `json:"tax_regime"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	MonthlyFee decimal.Decimal `json:"monthly_fee" swaggertype:"number"`
	Partners   string          `json:"partners,omitempty"`
	Modules    []string        `json:"modules,omitempty"`
}

func (r *ClientRequest) toInput() services.ClientInput {
	return services.ClientInput{
		Name:       r.Name,
		TaxID:      r.TaxID,
		Address:    r.Address,
		TaxRegime:  r.TaxRegime,
		Email:      r.Email,
		Phone:      r.Phone,
		MonthlyFee: r.MonthlyFee,
		Partners:   r.Partners,
		Modules:    r.Modules,
	}
}

// InactivateRequest represents inactivate client request
type InactivateRequest struct {
	Reason string `json:"reason"`
}

// Create registers a new client
// @Summary Register client
// @Description Register a new client. The first fee history entry is created from monthly_fee.
// @Tags Clients
// @Accept json
// @Produce json
// @Param body body ClientRequest true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.Register(c.UserContext(), req.toInput())
	if err != nil {
		return respondError(c, err, "Failed to register client")
	}

	return response.Created(c, "Client registered successfully", models.NewClientResponse(*client))
}

// List lists clients with their current status
// @Summary List clients
// @Description List every client with status recomputed for the current month
// @Tags Clients
// @Accept json
// @Produce json
// @Param status query string false "Filter by status" Enums(on-time, delinquent, inactive)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	status := domain.ClientStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return response.BadRequest(c, "status must be one of on-time, delinquent, inactive")
	}

	clients, err := h.clientService.List(c.UserContext(), status)
	if err != nil {
		return respondError(c, err, "Failed to list clients")
	}

	out := make([]*models.ClientResponse, len(clients))
	for i, cl := range clients {
		out[i] = models.NewClientResponse(cl)
	}
	return response.Success(c, "Clients retrieved successfully", out)
}

// Get returns one client
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	client, err := h.clientService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get client")
	}
	return response.Success(c, "Client retrieved successfully", models.NewClientResponse(*client))
}

// Update edits a client
// @Summary Update client
// @Description Update a client. A fee history entry is appended when monthly_fee changes.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body ClientRequest true "Client data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.Update(c.UserContext(), c.Params("id"), req.toInput())
	if err != nil {
		return respondError(c, err, "Failed to update client")
	}
	return response.Success(c, "Client updated successfully", models.NewClientResponse(*client))
}

// Delete removes a client and its payments
// @Summary Delete client
// @Description Delete a client together with all of its payments
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.clientService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err, "Failed to delete client")
	}
	return response.Success(c, "Client deleted successfully", nil)
}

// Inactivate marks a client inactive
// @Summary Inactivate client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body InactivateRequest true "Inactivation reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/inactivate [post]
func (h *ClientHandler) Inactivate(c *fiber.Ctx) error {
	var req InactivateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.clientService.Inactivate(c.UserContext(), c.Params("id"), req.Reason); err != nil {
		return respondError(c, err, "Failed to inactivate client")
	}
	return response.Success(c, "Client inactivated successfully", nil)
}

// Reactivate clears the inactive flag
// @Summary Reactivate client
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/reactivate [post]
func (h *ClientHandler) Reactivate(c *fiber.Ctx) error {
	client, err := h.clientService.Reactivate(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to reactivate client")
	}
	return response.Success(c, "Client reactivated successfully", models.NewClientResponse(*client))
}

// FeeHistory returns the fee history of a client
// @Summary Client fee history
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /clients/{id}/fee-history [get]
func (h *ClientHandler) FeeHistory(c *fiber.Ctx) error {
	history, err := h.clientService.FeeHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Failed to get fee history")
	}
	return response.Success(c, "Fee history retrieved successfully", models.NewFeeHistoryResponse(history))
}
