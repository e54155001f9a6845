// Package describe normalizes raw bank transaction text into counterparty
// names suitable for the ledger.
package describe

import (
	"regexp"
	"strings"
)

var (
	// Leading accounting date, e.g. "12.02 KIWI ...".
	leadingDate = regexp.MustCompile(`^\d{2}\.\d{2}\s`)

	// Trailing payment date, e.g. "KIWI ... Betalt: 12.03.20".
	paymentDate = regexp.MustCompile(`Betalt:\s\d{2}\.\d{2}\.\d{2}$`)

	// Card purchase rows embed the merchant between the converted amount and
	// the exchange rate, e.g. "*6227 26.02 NOK 30.00 COCA-COLA AS Kurs: 1.0000".
	cardPurchase = regexp.MustCompile(`(?i)^\*\d{4}\s\d{2}\.\d{2}\s\w{3}\s\d+.\d{2}\s(.+?)\sKurs:\s\d+.\d+$`)
)

// merchants maps known merchant prefixes to canonical names. Matching is
// case-insensitive on the prefix, in order.
var merchants = []struct{ prefix, name string }{
	{"skimore", "Skimore"},
	{"starbucks", "Starbucks"},
	{"steam", "Steam"},
	{"domeneshop", "Domeneshop"},
	{"hokksund sushi og thai", "Hokksund Sushi og Thai"},
	{"tekna", "TEKNA"},
}

// Normalize cleans raw transaction text: strips date prefixes and suffixes,
// "Til: "/"Fra: " labels, unwraps card-purchase rows to the merchant segment,
// and canonicalizes known merchants. Order matters: the card-purchase capture
// feeds the merchant prefix check.
func Normalize(text string) string {
	text = leadingDate.ReplaceAllString(text, "")
	text = paymentDate.ReplaceAllString(text, "")
	text = strings.TrimPrefix(text, "Til: ")
	text = strings.TrimPrefix(text, "Fra: ")

	if m := cardPurchase.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	lower := strings.ToLower(text)
	for _, m := range merchants {
		if strings.HasPrefix(lower, m.prefix) {
			text = m.name
			break
		}
	}

	return strings.TrimSpace(text)
}
