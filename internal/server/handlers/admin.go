package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nuriajuanca/casamiento/internal/database"
	"github.com/nuriajuanca/casamiento/internal/server/templates"
)

// parseID parses an RSVP id and returns an error if invalid.
func parseID(idStr string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(idStr, "%d", &id); err != nil {
		return 0, fmt.Errorf("invalid ID format: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID: must be positive")
	}
	return id, nil
}

// requireValidSession runs the full decrypt-and-expiry session check
// for JSON action endpoints. The route middleware only verified the
// cookie exists.
func requireValidSession(s Server, w http.ResponseWriter, r *http.Request) bool {
	if !s.Sessions().Check(r) {
		writeJSON(w, http.StatusUnauthorized, actionResult{Success: false, Message: "No autorizado"})
		return false
	}
	return true
}

// HandleAdminLogin renders the login form and verifies the shared
// password on POST.
func HandleAdminLogin(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			if s.Sessions().Check(r) {
				http.Redirect(w, r, "/admin", http.StatusSeeOther)
				return
			}
			_ = templates.AdminLogin(w, "")
			return
		}

		if err := r.ParseForm(); err != nil {
			_ = templates.AdminLogin(w, "Error de autenticación")
			return
		}

		if !s.Sessions().VerifyPassword(r.FormValue("password")) {
			_ = templates.AdminLogin(w, "Contraseña incorrecta")
			return
		}

		if err := s.Sessions().IssueCookie(w); err != nil {
			log.Printf("Failed to issue session cookie: %v", err)
			_ = templates.AdminLogin(w, "Error de autenticación")
			return
		}

		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	}
}

// HandleAdminLogout clears the session cookie.
func HandleAdminLogout(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Sessions().ClearCookie(w)
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	}
}

// HandleAdminDashboard renders the confirmations and invitation links.
func HandleAdminDashboard(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Sessions().Check(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}

		var (
			rsvps []database.RsvpResponse
			links []database.InvitationLink
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			rsvps, err = s.Store().ListRsvps(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			links, err = s.Store().ListInvitationLinks(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Printf("Failed to load admin data: %v", err)
			http.Error(w, "Failed to load confirmations", http.StatusInternalServerError)
			return
		}

		data := templates.AdminData{
			Stats:   buildStats(rsvps),
			Rsvps:   rsvps,
			Links:   links,
			BaseURL: s.Config().BaseURL,
		}
		if err := templates.AdminDashboard(w, data); err != nil {
			http.Error(w, "Failed to render page", http.StatusInternalServerError)
		}
	}
}

func buildStats(rsvps []database.RsvpResponse) templates.Stats {
	stats := templates.Stats{Total: len(rsvps)}
	for _, rsvp := range rsvps {
		if rsvp.NeedsTransfer {
			stats.Transfers++
		}
		if rsvp.ReturnTime != nil {
			switch *rsvp.ReturnTime {
			case database.ReturnEarly:
				stats.ReturnEarly++
			case database.ReturnLate:
				stats.ReturnLate++
			}
		}
		if rsvp.DietaryRequirements != nil && strings.TrimSpace(*rsvp.DietaryRequirements) != "" {
			stats.Dietary++
		}
		if rsvp.IsMinor {
			stats.Minors++
		}
	}
	return stats
}

// HandleAdminDeleteRSVP deletes one confirmation.
func HandleAdminDeleteRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if !requireValidSession(s, w, r) {
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Datos del formulario inválidos"})
			return
		}
		id, err := parseID(r.FormValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Error al eliminar la confirmación."})
			return
		}

		if err := s.Store().DeleteRsvp(r.Context(), id); err != nil {
			log.Printf("Failed to delete confirmation %d: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, actionResult{Success: false, Message: "Error al eliminar la confirmación."})
			return
		}

		writeJSON(w, http.StatusOK, actionResult{Success: true, Message: "Confirmación eliminada exitosamente."})
	}
}

// HandleAdminCreateLink creates an invitation link with a generated id.
func HandleAdminCreateLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if !requireValidSession(s, w, r) {
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Datos del formulario inválidos"})
			return
		}
		label := strings.TrimSpace(r.FormValue("label"))
		if label == "" {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "La etiqueta es requerida"})
			return
		}

		linkID, err := s.Store().CreateInvitationLink(r.Context(), label)
		if err != nil {
			log.Printf("Failed to create invitation link: %v", err)
			message := "Error al crear el enlace de invitación"
			if errors.Is(err, database.ErrLinkIDCollision) {
				message = "Error generando ID único. Intenta nuevamente."
			}
			writeJSON(w, http.StatusInternalServerError, actionResult{Success: false, Message: message})
			return
		}

		writeJSON(w, http.StatusOK, actionResult{
			Success: true,
			Message: "Enlace de invitación creado exitosamente",
			LinkID:  linkID,
		})
	}
}

// HandleAdminUpdateLink renames an invitation link.
func HandleAdminUpdateLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if !requireValidSession(s, w, r) {
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Datos del formulario inválidos"})
			return
		}
		id := strings.TrimSpace(r.FormValue("id"))
		label := strings.TrimSpace(r.FormValue("label"))
		if label == "" {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "La etiqueta es requerida"})
			return
		}

		if err := s.Store().UpdateInvitationLinkLabel(r.Context(), id, label); err != nil {
			log.Printf("Failed to update invitation link %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, actionResult{Success: false, Message: "Error al actualizar el enlace"})
			return
		}

		writeJSON(w, http.StatusOK, actionResult{Success: true, Message: "Enlace actualizado exitosamente"})
	}
}

// HandleAdminDeleteLink deletes an invitation link unless confirmations
// still reference it.
func HandleAdminDeleteLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		if !requireValidSession(s, w, r) {
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Datos del formulario inválidos"})
			return
		}
		id := strings.TrimSpace(r.FormValue("id"))

		if err := s.Store().DeleteInvitationLink(r.Context(), id); err != nil {
			if errors.Is(err, database.ErrLinkInUse) {
				writeJSON(w, http.StatusConflict, actionResult{
					Success: false,
					Message: "No se puede eliminar un enlace con confirmaciones asociadas",
				})
				return
			}
			log.Printf("Failed to delete invitation link %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, actionResult{Success: false, Message: "Error al eliminar el enlace"})
			return
		}

		writeJSON(w, http.StatusOK, actionResult{Success: true, Message: "Enlace eliminado exitosamente"})
	}
}
