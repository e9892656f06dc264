package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeWhatsApp normalizes a WhatsApp number to E.164 format.
// Numbers without a country code are assumed to be Argentinian.
func NormalizeWhatsApp(number string) (string, error) {
	number = strings.TrimSpace(number)

	num, err := phonenumbers.Parse(number, "AR")
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	// Format to E.164 (e.g., +5491123456789)
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
