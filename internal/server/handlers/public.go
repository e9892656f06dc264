package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nuriajuanca/casamiento/internal/auth"
	"github.com/nuriajuanca/casamiento/internal/calendar"
	"github.com/nuriajuanca/casamiento/internal/config"
	"github.com/nuriajuanca/casamiento/internal/database"
	"github.com/nuriajuanca/casamiento/internal/server/templates"
)

// Server interface defines the methods needed by handlers
type Server interface {
	Store() *database.Store
	Config() *config.Config
	Sessions() *auth.Manager
}

// actionResult is the shape every form-backed action responds with.
type actionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	LinkID  string `json:"linkId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// weddingEvent builds the calendar entry for the reception. The party
// is planned to run six hours.
func weddingEvent(cfg *config.Config) calendar.Event {
	wedding := config.GetWedding()
	return calendar.Event{
		Title:       wedding.Title,
		Start:       cfg.WeddingDate,
		End:         cfg.WeddingDate.Add(6 * time.Hour),
		Description: "Te esperamos para celebrar con nosotros.",
		Location:    wedding.Venue.Name + ", " + wedding.Venue.Address,
	}
}

// HandleHome renders the invitation page. The RSVP form is only shown
// when the invite query parameter resolves to an existing link.
func HandleHome(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		cfg := s.Config()
		wedding := config.GetWedding()

		inviteID := r.URL.Query().Get("invite")
		link := s.Store().ValidateInvitationLink(r.Context(), inviteID)

		data := templates.HomeData{
			Title:         wedding.Title,
			CoupleNames:   wedding.CoupleNames,
			DateISO:       cfg.WeddingDate.Format(time.RFC3339),
			FormattedDate: config.FormatWeddingDate(cfg.WeddingDate),
			VenueName:     wedding.Venue.Name,
			VenueAddress:  wedding.Venue.Address,
			VenueMapsURL:  wedding.Venue.GoogleMapsURL,
			GoogleCalURL:  calendar.GoogleCalendarURL(weddingEvent(cfg)),
		}
		if link != nil {
			data.Invited = true
			data.InviteID = link.ID
			data.InviteLabel = link.Label
		}

		if err := templates.Home(w, data); err != nil {
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

// HandleCalendarICS serves the event as a downloadable calendar entry.
func HandleCalendarICS(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ics := calendar.ICS(weddingEvent(s.Config()))

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="casamiento.ics"`)
		_, _ = w.Write([]byte(ics))
	}
}
