package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/services"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

type OrderHandler struct {
	orders *services.OrderService
	cfg    *config.Config
}

func NewOrderHandler(orders *services.OrderService, cfg *config.Config) *OrderHandler {
	return &OrderHandler{orders: orders, cfg: cfg}
}

type createOrderRequest struct {
	Items []services.OrderItemRequest `json:"items"`
}

// Create places a pending order for the authenticated user. The response
// carries the payment_ref the payment collaborator will confirm with.
func (h *OrderHandler) Create(e *core.RequestEvent) error {
	var req createOrderRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	order, err := h.orders.CreateOrder(e.Request.Context(), e.Auth.Id, req.Items)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusCreated, order, "order created, awaiting payment")
}

// Get returns one order for its owner, with tickets when issued.
func (h *OrderHandler) Get(e *core.RequestEvent) error {
	order, err := h.orders.Get(e.Request.PathValue("id"))
	if err != nil {
		return writeError(e, err)
	}
	if order.GetString("user") != e.Auth.Id && models.Role(e.Auth.GetString("role")) != models.RoleAdmin {
		return writeError(e, status.NotFound("order"))
	}

	payload := map[string]any{"order": order}
	if models.PaymentStatus(order.GetString("payment_status")) == models.PaymentCompleted {
		tickets, err := h.orders.TicketsForOrder(order.Id)
		if err != nil {
			return writeError(e, err)
		}
		payload["tickets"] = services.DecodeTickets(tickets)
	}
	return writeSuccess(e, http.StatusOK, payload)
}

func (h *OrderHandler) ListMine(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 50)
	orders, err := h.orders.ListByUser(e.Auth.Id, limit)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, orders)
}

type paymentCallbackRequest struct {
	PaymentRef string `json:"payment_ref"`
}

// ConfirmPayment is the payment collaborator's success callback.
func (h *OrderHandler) ConfirmPayment(e *core.RequestEvent) error {
	var req paymentCallbackRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}
	if req.PaymentRef == "" {
		return writeError(e, status.Validation("payment_ref", "is required"))
	}

	order, tickets, err := h.orders.ConfirmPayment(e.Request.Context(), req.PaymentRef)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, map[string]any{
		"order":   order,
		"tickets": services.DecodeTickets(tickets),
	}, "payment confirmed, tickets issued")
}

// FailPayment is the payment collaborator's decline/timeout callback.
func (h *OrderHandler) FailPayment(e *core.RequestEvent) error {
	var req paymentCallbackRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}
	if req.PaymentRef == "" {
		return writeError(e, status.Validation("payment_ref", "is required"))
	}

	order, err := h.orders.FailPayment(e.Request.Context(), req.PaymentRef)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, order, "payment marked failed")
}

// Refund reverses a completed order. Admin only.
func (h *OrderHandler) Refund(e *core.RequestEvent) error {
	order, err := h.orders.Refund(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, order, "order refunded")
}

// SimulatePayment short-circuits the payment collaborator in development
// so checkout can be exercised end to end without a gateway.
func (h *OrderHandler) SimulatePayment(e *core.RequestEvent) error {
	if h.cfg.Environment != "development" {
		return writeError(e, status.NotFound("endpoint"))
	}

	order, err := h.orders.Get(e.Request.PathValue("id"))
	if err != nil {
		return writeError(e, err)
	}
	if order.GetString("user") != e.Auth.Id {
		return writeError(e, status.NotFound("order"))
	}

	confirmed, tickets, err := h.orders.ConfirmPayment(e.Request.Context(), order.GetString("payment_ref"))
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, map[string]any{
		"order":   confirmed,
		"tickets": services.DecodeTickets(tickets),
	}, "payment simulated")
}
