package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/nuriajuanca/casamiento/internal/database"
	"github.com/nuriajuanca/casamiento/internal/utils"
)

// rsvpForm holds the parsed RSVP submission.
type rsvpForm struct {
	name       string
	whatsapp   string
	dietary    string
	comment    string
	transfer   string
	returnTime string
	isMinor    bool
	linkID     string
}

func parseRsvpForm(r *http.Request) rsvpForm {
	return rsvpForm{
		name:       strings.TrimSpace(r.FormValue("name")),
		whatsapp:   strings.TrimSpace(r.FormValue("whatsapp")),
		dietary:    strings.TrimSpace(r.FormValue("dietary")),
		comment:    strings.TrimSpace(r.FormValue("comment")),
		transfer:   r.FormValue("transfer"),
		returnTime: r.FormValue("return_time"),
		isMinor:    r.FormValue("is_minor") == "on",
		linkID:     strings.TrimSpace(r.FormValue("invite")),
	}
}

// HandleRSVPSubmit processes RSVP form submissions. Validation failures
// are answered before any database call is made.
func HandleRSVPSubmit(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "Datos del formulario inválidos"})
			return
		}
		form := parseRsvpForm(r)

		if form.name == "" {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "El nombre es requerido"})
			return
		}

		// The contact number is required only for adults.
		if !form.isMinor && form.whatsapp == "" {
			writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "El WhatsApp es requerido para adultos"})
			return
		}
		if form.whatsapp != "" {
			normalized, err := utils.NormalizeWhatsApp(form.whatsapp)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, actionResult{Success: false, Message: "El número de WhatsApp no es válido"})
				return
			}
			form.whatsapp = normalized
		}

		// Submissions are only accepted through a live invitation link.
		if s.Store().ValidateInvitationLink(r.Context(), form.linkID) == nil {
			writeJSON(w, http.StatusForbidden, actionResult{Success: false, Message: "La invitación no es válida"})
			return
		}

		_, err := s.Store().CreateRsvp(r.Context(), database.NewRsvp{
			Name:       form.name,
			Whatsapp:   form.whatsapp,
			Dietary:    form.dietary,
			Comment:    form.comment,
			Transfer:   form.transfer,
			ReturnTime: form.returnTime,
			IsMinor:    form.isMinor,
			LinkID:     form.linkID,
		})
		if err != nil {
			log.Printf("Failed to save confirmation: %v", err)
			writeJSON(w, http.StatusInternalServerError, actionResult{
				Success: false,
				Message: "Error al guardar la confirmación. Por favor intentá de nuevo.",
			})
			return
		}

		writeJSON(w, http.StatusOK, actionResult{
			Success: true,
			Message: "Tu confirmación ha sido recibida. ¡Esperamos celebrar con vos!",
		})
	}
}
