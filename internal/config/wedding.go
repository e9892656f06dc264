package config

import (
	"fmt"
	"time"
)

// Venue holds the static location details shown on the invitation.
type Venue struct {
	Name          string
	Address       string
	GoogleMapsURL string
	DirectionsURL string
}

// Wedding holds the event details that never change at runtime.
type Wedding struct {
	Title       string
	CoupleNames string
	Venue       Venue
}

func GetWedding() Wedding {
	return Wedding{
		Title:       "Casamiento Nuria & Juanca",
		CoupleNames: "Nuria & Juanca",
		Venue: Venue{
			Name:          "Estancia Lupita",
			Address:       "Gral. Viamonte 2298, B1669 Del Viso, Provincia de Buenos Aires, Argentina",
			GoogleMapsURL: "https://maps.app.goo.gl/wdKEnfEndLM1GVc89",
			DirectionsURL: "https://maps.app.goo.gl/r6qtgTfT874Kxta78",
		},
	}
}

var spanishDays = []string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var spanishMonths = []string{"", "enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FormatWeddingDate renders the date the way the invitation shows it,
// e.g. "Sábado, 8 de noviembre de 2025".
func FormatWeddingDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		spanishDays[t.Weekday()], t.Day(), spanishMonths[t.Month()], t.Year())
}
