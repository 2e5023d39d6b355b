package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
	"ticket-marketplace/monitoring"
	"ticket-marketplace/utils"
)

const pendingOrdersKey = "orders:pending"

// OrderService converts carts into orders and, on payment confirmation,
// decrements inventory and materializes one ticket per purchased unit.
// The confirmation step is the unit of atomicity: either every ticket of
// the order is issued, or none is.
type OrderService struct {
	app      core.App
	seq      *SequenceService
	redis    *redis.Client
	notifier *Notifier
	cfg      *config.Config
}

func NewOrderService(app core.App, seq *SequenceService, redisClient *redis.Client, notifier *Notifier, cfg *config.Config) *OrderService {
	return &OrderService{app: app, seq: seq, redis: redisClient, notifier: notifier, cfg: cfg}
}

type OrderItemRequest struct {
	EventID      string          `json:"event_id"`
	CategoryID   int64           `json:"category_id"`
	TicketTypeID int64           `json:"ticket_type_id"`
	Quantity     int             `json:"quantity"`
	Attendee     models.Attendee `json:"attendee"`
}

// priceItem validates one requested line against the event's current
// offering and captures the server-side unit price. The availability check
// here is provisional; the authoritative check happens again at payment
// confirmation.
func priceItem(event models.Event, req OrderItemRequest, now time.Time) (models.OrderItem, error) {
	if req.Quantity < 1 {
		return models.OrderItem{}, status.Validation("quantity", "must be at least 1")
	}
	if !event.Purchasable(now) {
		return models.OrderItem{}, status.Conflict("event is not on sale")
	}
	_, tt := event.Categories.Find(req.CategoryID, req.TicketTypeID)
	if tt == nil {
		return models.OrderItem{}, status.NotFound("ticket type")
	}
	if tt.MaxPerOrder > 0 && req.Quantity > tt.MaxPerOrder {
		return models.OrderItem{}, status.Validation("quantity", "exceeds the per-order limit for this ticket type")
	}
	if tt.QuantityAvailable < req.Quantity {
		return models.OrderItem{}, status.ErrInventoryExceeded
	}
	return models.OrderItem{
		EventID:      event.ID,
		EventNo:      event.EventNo,
		CategoryID:   req.CategoryID,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		UnitPrice:    tt.Price,
		Attendee:     req.Attendee,
	}, nil
}

// CreateOrder prices the requested items and persists a pending order.
// The total is always computed server-side.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, reqs []OrderItemRequest) (*core.Record, error) {
	if len(reqs) == 0 {
		return nil, status.Validation("items", "must contain at least one line")
	}

	now := time.Now()
	events := map[string]models.Event{}
	items := make([]models.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		event, ok := events[req.EventID]
		if !ok {
			record, err := s.app.FindRecordById("events", req.EventID)
			if err != nil {
				return nil, status.NotFound("event")
			}
			event, err = DecodeEvent(record)
			if err != nil {
				return nil, err
			}
			events[req.EventID] = event
		}
		item, err := priceItem(event, req, now)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	orderNo, err := s.seq.Next(ctx, "orders")
	if err != nil {
		return nil, status.Internal(err)
	}

	collection, err := s.app.FindCollectionByNameOrId("orders")
	if err != nil {
		return nil, status.Internal(err)
	}
	record := core.NewRecord(collection)
	record.Set("order_no", orderNo)
	record.Set("user", userID)
	record.Set("items", items)
	record.Set("total_amount", models.OrderTotal(items).String())
	record.Set("payment_status", string(models.PaymentPending))
	record.Set("payment_ref", uuid.NewString())

	if err := s.app.Save(record); err != nil {
		return nil, status.Internal(err)
	}

	if err := s.redis.SAdd(ctx, pendingOrdersKey, record.Id).Err(); err != nil {
		s.app.Logger().Warn("pending order tracking failed", "order", record.Id, "error", err)
	}
	monitoring.TrackOrderCreated()

	return record, nil
}

// ConfirmPayment is invoked by the payment collaborator once funds have
// cleared. Inventory is re-verified and conditionally decremented inside a
// single transaction with ticket materialization; overselling under
// concurrent checkouts is impossible because the store serializes writes
// and the decrement only succeeds while the counter stays non-negative.
func (s *OrderService) ConfirmPayment(ctx context.Context, paymentRef string) (*core.Record, []*core.Record, error) {
	start := time.Now()

	order, err := s.findByRef(paymentRef)
	if err != nil {
		return nil, nil, err
	}
	if ps := models.PaymentStatus(order.GetString("payment_status")); ps != models.PaymentPending {
		return nil, nil, status.Conflict("payment is already " + string(ps))
	}

	var items []models.OrderItem
	if err := order.UnmarshalJSONField("items", &items); err != nil {
		return nil, nil, status.Internal(err)
	}

	// Ticket numbers and pass ids are minted ahead of the transaction;
	// an aborted confirmation leaves a gap in the sequence, never a
	// duplicate.
	units := 0
	for _, item := range items {
		units += item.Quantity
	}
	ticketNos := make([]int64, 0, units)
	passIDs := make([]string, 0, units)
	for i := 0; i < units; i++ {
		no, err := s.seq.Next(ctx, "tickets")
		if err != nil {
			return nil, nil, status.Internal(err)
		}
		passID, err := utils.GeneratePassID()
		if err != nil {
			return nil, nil, status.Internal(err)
		}
		ticketNos = append(ticketNos, no)
		passIDs = append(passIDs, passID)
	}

	var tickets []*core.Record
	txErr := s.app.RunInTransaction(func(txApp core.App) error {
		order, err = txApp.FindRecordById("orders", order.Id)
		if err != nil {
			return err
		}
		if models.PaymentStatus(order.GetString("payment_status")) != models.PaymentPending {
			return status.Conflict("payment was already processed")
		}

		eventRecords := map[string]*core.Record{}
		eventCategories := map[string]models.Categories{}
		for _, item := range items {
			if _, ok := eventRecords[item.EventID]; !ok {
				record, err := txApp.FindRecordById("events", item.EventID)
				if err != nil {
					return status.NotFound("event")
				}
				categories, err := DecodeCategories(record)
				if err != nil {
					return err
				}
				eventRecords[item.EventID] = record
				eventCategories[item.EventID] = categories
			}
			if err := eventCategories[item.EventID].Reserve(item.CategoryID, item.TicketTypeID, item.Quantity); err != nil {
				return err
			}
		}

		// total_amount must still equal the server-computed sum
		stored, err := decimal.NewFromString(order.GetString("total_amount"))
		if err != nil || !stored.Equal(models.OrderTotal(items)) {
			return status.Conflict("order total no longer matches its items")
		}

		for id, record := range eventRecords {
			record.Set("categories", eventCategories[id])
			if err := txApp.Save(record); err != nil {
				return err
			}
		}

		ticketsCol, err := txApp.FindCollectionByNameOrId("tickets")
		if err != nil {
			return err
		}
		unit := 0
		for _, item := range items {
			for i := 0; i < item.Quantity; i++ {
				ticket := core.NewRecord(ticketsCol)
				ticket.Set("ticket_no", ticketNos[unit])
				ticket.Set("order", order.Id)
				ticket.Set("event", item.EventID)
				ticket.Set("category_id", item.CategoryID)
				ticket.Set("ticket_type_id", item.TicketTypeID)
				ticket.Set("pass_id", passIDs[unit])
				ticket.Set("qr_payload", utils.QRPayload(passIDs[unit], item.EventNo, ticketNos[unit]))
				ticket.Set("attendee_name", item.Attendee.Name)
				ticket.Set("attendee_email", item.Attendee.Email)
				ticket.Set("attendee_phone", item.Attendee.Phone)
				if err := txApp.Save(ticket); err != nil {
					return err
				}
				tickets = append(tickets, ticket)
				unit++
			}
		}

		order.Set("payment_status", string(models.PaymentCompleted))
		return txApp.Save(order)
	})
	if txErr != nil {
		if errors.Is(txErr, status.ErrInventoryExceeded) {
			monitoring.TrackInventoryRejection()
			s.markFailed(ctx, order)
		}
		return nil, nil, status.From(txErr)
	}

	s.redis.SRem(ctx, pendingOrdersKey, order.Id)
	monitoring.TrackOrderCompleted(len(tickets))
	monitoring.ObserveCheckout(time.Since(start))

	s.notifier.Publish(ctx, UserChannel(order.GetString("user")), map[string]any{
		"type":     "payment_success",
		"order_id": order.Id,
		"tickets":  len(tickets),
		"total":    order.GetString("total_amount"),
	})
	s.notifyOrganizers(ctx, items, order.Id)

	return order, tickets, nil
}

// FailPayment marks a pending order failed, e.g. on payment timeout or
// gateway decline.
func (s *OrderService) FailPayment(ctx context.Context, paymentRef string) (*core.Record, error) {
	order, err := s.findByRef(paymentRef)
	if err != nil {
		return nil, err
	}
	if models.PaymentStatus(order.GetString("payment_status")) != models.PaymentPending {
		return nil, status.Conflict("only pending payments can fail")
	}
	s.markFailed(ctx, order)
	return order, nil
}

// Refund reverses a completed order: inventory is restored, the order's
// tickets are revoked for scanning and the order leaves the aggregates.
func (s *OrderService) Refund(ctx context.Context, orderID string) (*core.Record, error) {
	order, err := s.app.FindRecordById("orders", orderID)
	if err != nil {
		return nil, status.NotFound("order")
	}
	if models.PaymentStatus(order.GetString("payment_status")) != models.PaymentCompleted {
		return nil, status.Conflict("only completed orders can be refunded")
	}

	var items []models.OrderItem
	if err := order.UnmarshalJSONField("items", &items); err != nil {
		return nil, status.Internal(err)
	}

	err = s.app.RunInTransaction(func(txApp core.App) error {
		for _, item := range items {
			record, err := txApp.FindRecordById("events", item.EventID)
			if err != nil {
				continue // event removed; nothing to restore
			}
			categories, err := DecodeCategories(record)
			if err != nil {
				return err
			}
			if _, tt := categories.Find(item.CategoryID, item.TicketTypeID); tt != nil {
				tt.QuantityAvailable += item.Quantity
				record.Set("categories", categories)
				if err := txApp.Save(record); err != nil {
					return err
				}
			}
		}

		tickets, err := txApp.FindRecordsByFilter("tickets", "order = {:order}", "", -1, 0,
			map[string]any{"order": order.Id})
		if err != nil {
			return err
		}
		for _, ticket := range tickets {
			ticket.Set("revoked", true)
			if err := txApp.Save(ticket); err != nil {
				return err
			}
		}

		order.Set("payment_status", string(models.PaymentRefunded))
		return txApp.Save(order)
	})
	if err != nil {
		return nil, status.From(err)
	}

	s.notifier.Publish(ctx, UserChannel(order.GetString("user")), map[string]any{
		"type":     "order_refunded",
		"order_id": order.Id,
	})
	return order, nil
}

func (s *OrderService) Get(orderID string) (*core.Record, error) {
	order, err := s.app.FindRecordById("orders", orderID)
	if err != nil {
		return nil, status.NotFound("order")
	}
	return order, nil
}

func (s *OrderService) ListByUser(userID string, limit int) ([]*core.Record, error) {
	orders, err := s.app.FindRecordsByFilter(
		"orders",
		"user = {:user}",
		"-created",
		limit,
		0,
		map[string]any{"user": userID},
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return orders, nil
}

// TicketsForOrder returns the materialized tickets of one order.
func (s *OrderService) TicketsForOrder(orderID string) ([]*core.Record, error) {
	tickets, err := s.app.FindRecordsByFilter("tickets", "order = {:order}", "ticket_no", -1, 0,
		map[string]any{"order": orderID})
	if err != nil {
		return nil, status.Internal(err)
	}
	return tickets, nil
}

// DecodeTicket converts a ticket record into the transport model.
func DecodeTicket(record *core.Record) models.Ticket {
	ticket := models.Ticket{
		ID:           record.Id,
		TicketNo:     int64(record.GetInt("ticket_no")),
		OrderID:      record.GetString("order"),
		EventID:      record.GetString("event"),
		CategoryID:   int64(record.GetInt("category_id")),
		TicketTypeID: int64(record.GetInt("ticket_type_id")),
		PassID:       record.GetString("pass_id"),
		QRPayload:    record.GetString("qr_payload"),
		IsValidated:  record.GetBool("is_validated"),
		Attendee: models.Attendee{
			Name:  record.GetString("attendee_name"),
			Email: record.GetString("attendee_email"),
			Phone: record.GetString("attendee_phone"),
		},
		Document:  record.GetString("document"),
		CreatedAt: record.GetDateTime("created").Time(),
	}
	if t := record.GetDateTime("validation_time").Time(); !t.IsZero() {
		ticket.ValidationTime = &t
	}
	return ticket
}

func DecodeTickets(records []*core.Record) []models.Ticket {
	tickets := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		tickets = append(tickets, DecodeTicket(record))
	}
	return tickets
}

func (s *OrderService) findByRef(paymentRef string) (*core.Record, error) {
	order, err := s.app.FindFirstRecordByFilter(
		"orders",
		"payment_ref = {:ref}",
		map[string]any{"ref": paymentRef},
	)
	if err != nil {
		return nil, status.NotFound("order")
	}
	return order, nil
}

func (s *OrderService) markFailed(ctx context.Context, order *core.Record) {
	order.Set("payment_status", string(models.PaymentFailed))
	if err := s.app.Save(order); err != nil {
		s.app.Logger().Error("failed to mark order failed", "order", order.Id, "error", err)
	}
	s.redis.SRem(ctx, pendingOrdersKey, order.Id)
	s.notifier.Publish(ctx, UserChannel(order.GetString("user")), map[string]any{
		"type":     "payment_failed",
		"order_id": order.Id,
	})
}

func (s *OrderService) notifyOrganizers(ctx context.Context, items []models.OrderItem, orderID string) {
	notified := map[string]bool{}
	for _, item := range items {
		event, err := s.app.FindRecordById("events", item.EventID)
		if err != nil {
			continue
		}
		organizerID := event.GetString("organizer")
		if notified[organizerID] {
			continue
		}
		notified[organizerID] = true
		s.notifier.Publish(ctx, OrganizerChannel(organizerID), map[string]any{
			"type":     "tickets_issued",
			"order_id": orderID,
			"event_id": item.EventID,
		})
	}
}
