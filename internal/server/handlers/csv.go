package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/nuriajuanca/casamiento/internal/database"
)

// HandleExportCSV streams every confirmation as a spreadsheet-friendly
// CSV. The leading BOM keeps Excel from mangling accented characters.
func HandleExportCSV(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.Sessions().Check(r) {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}

		rsvps, err := s.Store().ListRsvps(r.Context())
		if err != nil {
			log.Printf("Failed to load confirmations for export: %v", err)
			http.Error(w, "Failed to load confirmations", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("confirmaciones-casamiento-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		// UTF-8 BOM.
		_, _ = w.Write([]byte{0xEF, 0xBB, 0xBF})

		var b strings.Builder
		b.WriteString(`"Nombre","WhatsApp","Menor de Edad","Necesita Traslado","Horario de Vuelta","Restricciones Alimentarias","Comentario","Fecha de Confirmación"` + "\n")
		for _, rsvp := range rsvps {
			fields := []string{
				rsvp.Name,
				exportWhatsapp(rsvp),
				yesNo(rsvp.IsMinor),
				yesNo(rsvp.NeedsTransfer),
				exportReturnTime(rsvp.ReturnTime),
				stringValue(rsvp.DietaryRequirements),
				stringValue(rsvp.Comment),
				formatConfirmationDate(rsvp.CreatedAt),
			}
			for i, field := range fields {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(`"` + csvEscape(field) + `"`)
			}
			b.WriteByte('\n')
		}
		_, _ = w.Write([]byte(b.String()))
	}
}

func exportWhatsapp(rsvp database.RsvpResponse) string {
	if rsvp.Whatsapp != nil && *rsvp.Whatsapp != "" {
		return *rsvp.Whatsapp
	}
	if rsvp.IsMinor {
		return "Menor de edad"
	}
	return ""
}

func exportReturnTime(returnTime *string) string {
	if returnTime == nil {
		return ""
	}
	switch *returnTime {
	case database.ReturnEarly:
		return "00:00"
	case database.ReturnLate:
		return "04:30"
	}
	return ""
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatConfirmationDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// csvEscape doubles embedded quotes and flattens newlines so each
// record stays on one line.
func csvEscape(field string) string {
	field = strings.ReplaceAll(field, `"`, `""`)
	field = strings.ReplaceAll(field, "\r\n", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	return field
}
