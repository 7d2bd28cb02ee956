package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
)

// ListEvents fetches published events matching the filter.
func (c *Client) ListEvents(ctx context.Context, f ports.EventFilter) ([]domain.Event, error) {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	path := "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var events []domain.Event
	if err := c.do(ctx, http.MethodGet, path, 0, nil, &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// CreateEvent publishes a new event. The payload is validated locally
// before the round-trip so obviously broken submissions never hit the wire.
func (c *Client) CreateEvent(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	if err := c.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	var event domain.Event
	if err := c.do(ctx, http.MethodPost, "/events", 0, in, &event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

// GetDraft reads a server-owned draft by its opaque id.
func (c *Client) GetDraft(ctx context.Context, id string) (*domain.Draft, error) {
	var draft domain.Draft
	if err := c.do(ctx, http.MethodGet, "/events/drafts/"+url.PathEscape(id), 0, nil, &draft); err != nil {
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}
	return &draft, nil
}

// PatchDraft submits field-level changes to a draft. The backend computes
// the resulting contents and returns the updated record.
func (c *Client) PatchDraft(ctx context.Context, id string, patch map[string]any) (*domain.Draft, error) {
	var draft domain.Draft
	if err := c.do(ctx, http.MethodPatch, "/events/drafts/"+url.PathEscape(id), 0, patch, &draft); err != nil {
		return nil, fmt.Errorf("patch draft %s: %w", id, err)
	}
	return &draft, nil
}

// ListTicketTypes fetches the admission tiers of one event.
func (c *Client) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	path := "/ticket-types?event_id=" + url.QueryEscape(eventID)
	var tiers []domain.TicketType
	if err := c.do(ctx, http.MethodGet, path, 0, nil, &tiers); err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return tiers, nil
}

// ListCategories fetches the browsing facets.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", 0, nil, &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListCities fetches the known venue localities.
func (c *Client) ListCities(ctx context.Context) ([]domain.City, error) {
	var cities []domain.City
	if err := c.do(ctx, http.MethodGet, "/cities", 0, nil, &cities); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

var _ ports.CatalogAPI = (*Client)(nil)
