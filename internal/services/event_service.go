package services

import (
	"context"
	"strings"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
	"github.com/shopspring/decimal"

	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

// EventService owns event CRUD and the embedded category/ticket-type
// offering. It never decrements inventory; that belongs to the order
// service.
type EventService struct {
	app core.App
	seq *SequenceService
}

func NewEventService(app core.App, seq *SequenceService) *EventService {
	return &EventService{app: app, seq: seq}
}

type TicketTypeParams struct {
	Name              string `json:"name"`
	Price             string `json:"price"`
	QuantityAvailable int    `json:"quantity_available"`
	MaxPerOrder       int    `json:"max_per_order"`
	PDFTemplate       string `json:"pdf_template"`
}

type CategoryParams struct {
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	TicketTypes []TicketTypeParams `json:"ticket_types"`
}

type EventParams struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Venue       string           `json:"venue"`
	LocationID  string           `json:"location_id"`
	GenreID     string           `json:"genre_id"`
	StartAt     time.Time        `json:"start_at"`
	EndAt       time.Time        `json:"end_at"`
	SaleStartAt time.Time        `json:"sale_start_at"`
	SaleEndAt   time.Time        `json:"sale_end_at"`
	Categories  []CategoryParams `json:"categories"`
	Artists     []string         `json:"artists"`
}

// Create persists a new draft event for an approved organizer.
func (s *EventService) Create(ctx context.Context, organizer *core.Record, params EventParams) (*core.Record, error) {
	if models.OrganizerStatus(organizer.GetString("status")) != models.OrganizerApproved {
		return nil, status.Forbidden("organizer is not approved")
	}
	if err := validateEventParams(params); err != nil {
		return nil, err
	}

	eventNo, err := s.seq.Next(ctx, "events")
	if err != nil {
		return nil, status.Internal(err)
	}
	categories, err := s.buildCategories(ctx, eventNo, params.Categories)
	if err != nil {
		return nil, err
	}

	collection, err := s.app.FindCollectionByNameOrId("events")
	if err != nil {
		return nil, status.Internal(err)
	}

	record := core.NewRecord(collection)
	record.Set("event_no", eventNo)
	record.Set("organizer", organizer.Id)
	record.Set("status", string(models.EventDraft))
	applyEventParams(record, params)
	record.Set("categories", categories)

	if err := s.app.Save(record); err != nil {
		return nil, status.Internal(err)
	}
	return record, nil
}

// Update modifies an event the organizer owns. The embedded offering can
// only be replaced while the event is still a draft; info fields stay
// editable until the event reaches a terminal state.
func (s *EventService) Update(ctx context.Context, eventID, organizerID string, params EventParams) (*core.Record, error) {
	record, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	if record.GetString("organizer") != organizerID {
		return nil, status.Forbidden("event belongs to another organizer")
	}

	st := models.EventStatus(record.GetString("status"))
	if st == models.EventCompleted || st == models.EventCancelled {
		return nil, status.Conflict("cannot update a " + string(st) + " event")
	}
	if err := validateEventParams(params); err != nil {
		return nil, err
	}

	if len(params.Categories) > 0 {
		if st != models.EventDraft {
			return nil, status.Conflict("ticket offering can only change while the event is a draft")
		}
		categories, err := s.buildCategories(ctx, int64(record.GetInt("event_no")), params.Categories)
		if err != nil {
			return nil, err
		}
		record.Set("categories", categories)
	}
	applyEventParams(record, params)

	if err := s.app.Save(record); err != nil {
		return nil, status.Internal(err)
	}
	return record, nil
}

// SaveBanner attaches an already validated upload to the event record.
func (s *EventService) SaveBanner(record *core.Record, file *filesystem.File) error {
	record.Set("banner", file)
	if err := s.app.Save(record); err != nil {
		return status.Internal(err)
	}
	return nil
}

func (s *EventService) Get(eventID string) (*core.Record, error) {
	record, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.NotFound("event")
	}
	return record, nil
}

// GetExpanded loads an event with its organizer, location and genre.
func (s *EventService) GetExpanded(eventID string) (*core.Record, error) {
	record, err := s.Get(eventID)
	if err != nil {
		return nil, err
	}
	if errs := s.app.ExpandRecord(record, []string{"organizer", "location", "genre"}, nil); len(errs) > 0 {
		// expansion is display sugar; the event itself is still valid
		s.app.Logger().Warn("event expand failed", "event", eventID, "errors", errs)
	}
	return record, nil
}

// ListPublic returns approved and live events for the marketplace pages.
func (s *EventService) ListPublic(limit, offset int) ([]*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"events",
		"status = 'approved' || status = 'live'",
		"-start_at",
		limit,
		offset,
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return records, nil
}

func (s *EventService) ListByOrganizer(organizerID string) ([]*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"events",
		"organizer = {:organizer}",
		"-created",
		-1,
		0,
		map[string]any{"organizer": organizerID},
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return records, nil
}

// RecomputeEventCount refreshes the organizer's denormalized event_count
// from the events collection. The stored field is a display cache only.
func (s *EventService) RecomputeEventCount(organizer *core.Record) (int, error) {
	count, err := s.app.CountRecords("events", dbx.HashExp{"organizer": organizer.Id})
	if err != nil {
		return organizer.GetInt("event_count"), status.Internal(err)
	}
	if int(count) != organizer.GetInt("event_count") {
		organizer.Set("event_count", count)
		if err := s.app.Save(organizer); err != nil {
			return int(count), status.Internal(err)
		}
	}
	return int(count), nil
}

func (s *EventService) buildCategories(ctx context.Context, eventNo int64, params []CategoryParams) (models.Categories, error) {
	categories := make(models.Categories, 0, len(params))
	for _, cp := range params {
		if strings.TrimSpace(cp.Name) == "" {
			return nil, status.Validation("categories.name", "is required")
		}
		categoryID, err := s.seq.NextEventComponent(ctx, eventNo, "categories")
		if err != nil {
			return nil, status.Internal(err)
		}
		category := models.Category{ID: categoryID, Name: cp.Name, Type: cp.Type}

		for _, tp := range cp.TicketTypes {
			price, err := decimal.NewFromString(tp.Price)
			if err != nil || price.IsNegative() {
				return nil, status.Validation("ticket_types.price", "must be a non-negative decimal")
			}
			if tp.QuantityAvailable < 0 {
				return nil, status.Validation("ticket_types.quantity_available", "must not be negative")
			}
			ticketTypeID, err := s.seq.NextEventComponent(ctx, eventNo, "ticket_types")
			if err != nil {
				return nil, status.Internal(err)
			}
			category.TicketTypes = append(category.TicketTypes, models.TicketType{
				ID:                ticketTypeID,
				Name:              tp.Name,
				Price:             price,
				QuantityAvailable: tp.QuantityAvailable,
				MaxPerOrder:       tp.MaxPerOrder,
				PDFTemplate:       tp.PDFTemplate,
			})
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func validateEventParams(params EventParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return status.Validation("title", "is required")
	}
	if strings.TrimSpace(params.Venue) == "" {
		return status.Validation("venue", "is required")
	}
	if !params.EndAt.IsZero() && params.EndAt.Before(params.StartAt) {
		return status.Validation("end_at", "must not be before start_at")
	}
	if !params.SaleEndAt.IsZero() && params.SaleEndAt.Before(params.SaleStartAt) {
		return status.Validation("sale_end_at", "must not be before sale_start_at")
	}
	return nil
}

func applyEventParams(record *core.Record, params EventParams) {
	record.Set("title", params.Title)
	record.Set("description", params.Description)
	record.Set("venue", params.Venue)
	record.Set("location", params.LocationID)
	record.Set("genre", params.GenreID)
	record.Set("start_at", params.StartAt)
	record.Set("end_at", params.EndAt)
	record.Set("sale_start_at", params.SaleStartAt)
	record.Set("sale_end_at", params.SaleEndAt)
	record.Set("artists", params.Artists)
}

// DecodeCategories reads the embedded offering off an event record.
func DecodeCategories(record *core.Record) (models.Categories, error) {
	var categories models.Categories
	if err := record.UnmarshalJSONField("categories", &categories); err != nil {
		return nil, status.Internal(err)
	}
	return categories, nil
}

// DecodeEvent converts an event record into the domain model.
func DecodeEvent(record *core.Record) (models.Event, error) {
	categories, err := DecodeCategories(record)
	if err != nil {
		return models.Event{}, err
	}
	var artists []string
	_ = record.UnmarshalJSONField("artists", &artists)

	return models.Event{
		ID:             record.Id,
		EventNo:        int64(record.GetInt("event_no")),
		OrganizerID:    record.GetString("organizer"),
		Title:          record.GetString("title"),
		Description:    record.GetString("description"),
		Banner:         record.GetString("banner"),
		Venue:          record.GetString("venue"),
		LocationID:     record.GetString("location"),
		GenreID:        record.GetString("genre"),
		Status:         models.EventStatus(record.GetString("status")),
		StartAt:        record.GetDateTime("start_at").Time(),
		EndAt:          record.GetDateTime("end_at").Time(),
		SaleStartAt:    record.GetDateTime("sale_start_at").Time(),
		SaleEndAt:      record.GetDateTime("sale_end_at").Time(),
		Categories:     categories,
		Artists:        artists,
		ModerationNote: record.GetString("moderation_note"),
		Created:        record.GetDateTime("created").Time(),
		Updated:        record.GetDateTime("updated").Time(),
	}, nil
}
