// Package calendar builds add-to-calendar artifacts for the event: a
// Google Calendar template URL and an RFC 5545 ICS document.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Event struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Location    string
}

// GoogleCalendarURL returns a calendar.google.com render link
// pre-filled with the event.
func GoogleCalendarURL(event Event) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", event.Title)
	params.Set("dates", formatStamp(event.Start)+"/"+formatStamp(event.End))
	params.Set("details", event.Description)
	params.Set("location", event.Location)
	params.Set("trp", "false")

	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

// ICS renders the event as a standalone VCALENDAR document.
func ICS(event Event) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Wedding Invitation//ES",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"DTSTART:" + formatStamp(event.Start),
		"DTEND:" + formatStamp(event.End),
		"DTSTAMP:" + formatStamp(time.Now()),
		fmt.Sprintf("UID:wedding-%d@wedding-invitation.com", event.Start.Unix()),
		"SUMMARY:" + escapeText(event.Title),
		"DESCRIPTION:" + escapeText(event.Description),
		"LOCATION:" + escapeText(event.Location),
		"STATUS:CONFIRMED",
		"TRANSP:OPAQUE",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n")
}

// formatStamp renders a UTC timestamp as YYYYMMDDTHHMMSSZ.
func formatStamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeText escapes the characters RFC 5545 reserves in text values.
func escapeText(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\n", "\\n",
	)
	return replacer.Replace(text)
}
