package domain

import "time"

type Event struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsFuture is evaluated against the caller's clock; an event starting exactly
// now still counts as future.
func (e Event) IsFuture(now time.Time) bool {
	return !e.Date.Before(now)
}

// Participation links a member to an event. RegisteredAt is set once at
// creation and never changes afterwards.
type Participation struct {
	ID           uint      `json:"id"`
	MemberID     uint      `json:"member_id"`
	EventID      uint      `json:"event_id"`
	Presence     bool      `json:"presence"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventListing buckets events for display: upcoming ones ascending, the five
// most recent past ones descending. RegisteredEventIDs carries the events the
// caller's member is already signed up for, when there is one.
type EventListing struct {
	Future             []Event `json:"future"`
	Past               []Event `json:"past"`
	RegisteredEventIDs []uint  `json:"registered_event_ids,omitempty"`
}
