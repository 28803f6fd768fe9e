package domain

import "time"

// Event represents a listed event, including creator info the server
// denormalizes into the record.
type Event struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Location     string    `json:"location"`
	Creator      int64     `json:"creator"`
	CreatorName  string    `json:"creator_name,omitempty"`
	CreatorEmail string    `json:"creator_email,omitempty"`
	IsApproved   bool      `json:"is_approved"`
	IsSaved      bool      `json:"is_saved"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Upcoming reports whether the event is still in the future.
func (e Event) Upcoming() bool {
	return e.Date.After(time.Now())
}

// Attendee is one RSVP'd user on an event.
type Attendee struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	RSVPedAt time.Time `json:"rsvped_at"`
}
