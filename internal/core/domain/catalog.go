package domain

import "time"

// Event is a published listing on the platform. The client treats it as an
// opaque record; inventory and pricing live behind the backend API.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue,omitempty"`
	City        string    `json:"city,omitempty"`
	Category    string    `json:"category,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time,omitempty"`
	OrganizerID string    `json:"organizer_id,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// Draft is a server-owned provisional event keyed by an opaque id. The
// client only reads it and submits field-level patches; draft contents are
// never computed locally.
type Draft struct {
	ID        string         `json:"id"`
	Fields    map[string]any `json:"fields"`
	UpdatedAt time.Time      `json:"updated_at,omitempty"`
}

// TicketType is one priced admission tier of an event.
type TicketType struct {
	ID       string  `json:"id"`
	EventID  string  `json:"event_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency,omitempty"`
	Quantity int     `json:"quantity"`
}

// Category is a browsing facet for events.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// City is a venue locality known to the platform.
type City struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
