package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// NewRsvp carries the already-validated form values for one
// confirmation. Transfer holds the raw radio choice ("yes"/"no").
type NewRsvp struct {
	Name       string
	Whatsapp   string
	Dietary    string
	Comment    string
	Transfer   string
	ReturnTime string
	IsMinor    bool
	LinkID     string
}

// CreateRsvp inserts one confirmation and returns the stored row.
// The return time is only kept when a transfer was requested.
func (s *Store) CreateRsvp(ctx context.Context, rsvp NewRsvp) (*RsvpResponse, error) {
	needsTransfer := rsvp.Transfer == "yes"

	record := map[string]any{
		"name":                 strings.TrimSpace(rsvp.Name),
		"whatsapp":             nullableText(rsvp.Whatsapp),
		"dietary_requirements": nullableText(rsvp.Dietary),
		"comment":              nullableText(rsvp.Comment),
		"needs_transfer":       needsTransfer,
		"return_time":          nil,
		"is_minor":             rsvp.IsMinor,
		"link_id":              nullableText(rsvp.LinkID),
	}
	if needsTransfer && (rsvp.ReturnTime == ReturnEarly || rsvp.ReturnTime == ReturnLate) {
		record["return_time"] = rsvp.ReturnTime
	}

	data, err := s.db.From("rsvp_responses").Insert(record).Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to save confirmation: %w", err)
	}

	var rows []RsvpResponse
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode confirmation: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("insert returned no rows")
	}
	return &rows[0], nil
}

// ListRsvps returns every confirmation, newest first.
func (s *Store) ListRsvps(ctx context.Context) ([]RsvpResponse, error) {
	data, err := s.db.From("rsvp_responses").
		Select("*").
		Order("created_at", false).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmations: %w", err)
	}

	var rsvps []RsvpResponse
	if err := json.Unmarshal(data, &rsvps); err != nil {
		return nil, fmt.Errorf("failed to decode confirmations: %w", err)
	}
	return rsvps, nil
}

// DeleteRsvp removes one confirmation by id.
func (s *Store) DeleteRsvp(ctx context.Context, id int64) error {
	if _, err := s.db.From("rsvp_responses").Delete().Eq("id", id).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete confirmation: %w", err)
	}
	return nil
}

func nullableText(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
