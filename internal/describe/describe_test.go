package describe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "REMA 1000 HOKKSUND", "REMA 1000 HOKKSUND"},
		{"leading date stripped", "12.02 KIWI OSLO", "KIWI OSLO"},
		{"trailing payment date stripped", "KIWI OSLO Betalt: 01.03.21", "KIWI OSLO"},
		{"both dates stripped", "12.02 KIWI OSLO Betalt: 01.03.21", "KIWI OSLO"},
		{"til label stripped", "Til: Sparekonto", "Sparekonto"},
		{"fra label stripped", "Fra: Brukskonto", "Brukskonto"},
		{"card purchase unwrapped", "*6227 26.02 NOK 30.00 COCA-COLA ENTERPRISES NOR Kurs: 1.0000", "COCA-COLA ENTERPRISES NOR"},
		{"card purchase feeds merchant table", "*6227 14.07 USD 9.99 STEAMGAMES.COM Kurs: 8.7100", "Steam"},
		{"merchant prefix case-insensitive", "STARBUCKS OSLO S", "Starbucks"},
		{"merchant mid-string not matched", "CAFE STARBUCKS", "CAFE STARBUCKS"},
		{"multi-word merchant prefix", "Hokksund Sushi og Thai AS", "Hokksund Sushi og Thai"},
		{"tekna canonical casing", "Tekna medlemskontingent", "TEKNA"},
		{"surrounding whitespace trimmed", "  KIWI OSLO  ", "KIWI OSLO"},
		{"date mid-string kept", "KIWI 12.02 OSLO", "KIWI 12.02 OSLO"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"12.02 KIWI OSLO Betalt: 01.03.21",
		"Til: Sparekonto",
		"Fra: Brukskonto",
		"*6227 26.02 NOK 30.00 COCA-COLA ENTERPRISES NOR Kurs: 1.0000",
		"*6227 14.07 USD 9.99 STEAMGAMES.COM Kurs: 8.7100",
		"STARBUCKS OSLO S",
		"Domeneshop AS",
		"REMA 1000 HOKKSUND",
		"",
	}
	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}
