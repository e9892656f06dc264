package database

import "time"

// Return-time choices a guest can pick when the venue transfer is
// requested.
const (
	ReturnEarly = "temprano"
	ReturnLate  = "tarde"
)

// InvitationLink is a shareable token gating access to the RSVP form,
// scoped to a guest group.
type InvitationLink struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`

	// RsvpCount is derived from rsvp_responses, never stored.
	RsvpCount int `json:"rsvp_count"`
}

// RsvpResponse is one guest-submitted confirmation. Optional fields are
// pointers so a missing value round-trips as SQL NULL / JSON null.
type RsvpResponse struct {
	ID                  int64     `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	Name                string    `json:"name"`
	Whatsapp            *string   `json:"whatsapp"`
	DietaryRequirements *string   `json:"dietary_requirements"`
	Comment             *string   `json:"comment"`
	NeedsTransfer       bool      `json:"needs_transfer"`
	ReturnTime          *string   `json:"return_time"`
	IsMinor             bool      `json:"is_minor"`
	LinkID              *string   `json:"link_id"`
}
