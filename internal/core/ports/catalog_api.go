package ports

import (
	"context"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
)

// EventFilter narrows an event listing. Zero values mean "no filter".
type EventFilter struct {
	City     string
	Category string
	Query    string
}

// CreateEventInput is the payload for publishing a new event.
type CreateEventInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Venue       string `json:"venue,omitempty"`
	CityID      string `json:"city_id" validate:"required"`
	CategoryID  string `json:"category_id" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time,omitempty"`
}

// DraftStore is the narrow draft slice of the catalog for callers that only
// edit drafts. Draft contents are owned and computed by the backend; clients
// only submit field-level patches.
type DraftStore interface {
	GetDraft(ctx context.Context, id string) (*domain.Draft, error)
	PatchDraft(ctx context.Context, id string, patch map[string]any) (*domain.Draft, error)
}

// CatalogAPI is the event/draft/ticket CRUD surface of the backend. The
// client treats these collections as opaque; no inventory or pricing logic
// runs locally.
type CatalogAPI interface {
	DraftStore
	ListEvents(ctx context.Context, f EventFilter) ([]domain.Event, error)
	CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCities(ctx context.Context) ([]domain.City, error)
}
