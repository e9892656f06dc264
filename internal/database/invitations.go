package database

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	linkIDCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	linkIDLength  = 8

	// Attempts for the generate-check-insert loop before giving up.
	maxLinkIDAttempts = 5
)

var (
	// ErrLinkInUse is returned when deleting an invitation link that
	// still has confirmations referencing it.
	ErrLinkInUse = errors.New("invitation link has associated confirmations")

	// ErrLinkIDCollision is returned when no unique link id could be
	// generated within the attempt budget.
	ErrLinkIDCollision = errors.New("invitation link id already exists")
)

// Store implements the application operations on top of the
// provider-agnostic client.
type Store struct {
	db Client
}

func NewStore(db Client) *Store {
	return &Store{db: db}
}

// GenerateLinkID returns an 8-character lowercase alphanumeric id.
func GenerateLinkID() (string, error) {
	var sb strings.Builder
	for i := 0; i < linkIDLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(linkIDCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate link id: %w", err)
		}
		sb.WriteByte(linkIDCharset[n.Int64()])
	}
	return sb.String(), nil
}

// CreateInvitationLink creates a link with a freshly generated id,
// retrying on id collisions. Uniqueness relies on the check-then-insert
// loop; a concurrent duplicate between check and write surfaces as a
// primary-key violation from the insert itself.
func (s *Store) CreateInvitationLink(ctx context.Context, label string) (string, error) {
	var linkID string

	backoff := retry.WithMaxRetries(maxLinkIDAttempts-1, retry.NewConstant(time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := GenerateLinkID()
		if err != nil {
			return err
		}

		// Existence probe: only a non-null row means the id is taken.
		data, _ := s.db.From("invitation_links").
			Select("id").
			Eq("id", id).
			Single().
			Exec(ctx)
		if !isNullResult(data) {
			return retry.RetryableError(ErrLinkIDCollision)
		}

		if _, err := s.db.From("invitation_links").Insert(map[string]any{
			"id":         id,
			"label":      strings.TrimSpace(label),
			"created_by": "admin",
		}).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create invitation link: %w", err)
		}

		linkID = id
		return nil
	})
	if err != nil {
		return "", err
	}
	return linkID, nil
}

// ListInvitationLinks returns all links, newest first, with the derived
// confirmation count attached.
func (s *Store) ListInvitationLinks(ctx context.Context) ([]InvitationLink, error) {
	data, err := s.db.From("invitation_links").
		Select("*").
		Order("created_at", false).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invitation links: %w", err)
	}

	var links []InvitationLink
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("failed to decode invitation links: %w", err)
	}

	refData, err := s.db.From("rsvp_responses").Select("link_id").Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch confirmation references: %w", err)
	}

	var refs []struct {
		LinkID *string `json:"link_id"`
	}
	if err := json.Unmarshal(refData, &refs); err != nil {
		return nil, fmt.Errorf("failed to decode confirmation references: %w", err)
	}

	counts := make(map[string]int)
	for _, ref := range refs {
		if ref.LinkID != nil {
			counts[*ref.LinkID]++
		}
	}
	for i := range links {
		links[i].RsvpCount = counts[links[i].ID]
	}

	return links, nil
}

// UpdateInvitationLinkLabel renames a link. The label is the only
// mutable field.
func (s *Store) UpdateInvitationLinkLabel(ctx context.Context, id, label string) error {
	_, err := s.db.From("invitation_links").
		Update(map[string]any{"label": strings.TrimSpace(label)}).
		Eq("id", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update invitation link: %w", err)
	}
	return nil
}

// DeleteInvitationLink removes a link, refusing while confirmations
// still reference it. The guard is an application-level pre-check, not
// a database constraint.
func (s *Store) DeleteInvitationLink(ctx context.Context, id string) error {
	data, err := s.db.From("rsvp_responses").
		Select("id").
		Eq("link_id", id).
		Limit(1).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to check link usage: %w", err)
	}

	var refs []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(data, &refs); err != nil {
		return fmt.Errorf("failed to decode link usage: %w", err)
	}
	if len(refs) > 0 {
		return ErrLinkInUse
	}

	if _, err := s.db.From("invitation_links").Delete().Eq("id", id).Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete invitation link: %w", err)
	}
	return nil
}

// ValidateInvitationLink resolves an invitation id to its link. It
// returns nil for an empty id, an unknown id, or a lookup failure; the
// caller only cares whether the invitation is usable.
func (s *Store) ValidateInvitationLink(ctx context.Context, id string) *InvitationLink {
	if id == "" {
		return nil
	}

	data, err := s.db.From("invitation_links").
		Select("id, label").
		Eq("id", id).
		Single().
		Exec(ctx)
	if err != nil || isNullResult(data) {
		return nil
	}

	var link InvitationLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil
	}
	return &link
}
