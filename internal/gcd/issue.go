package gcd

import (
	"strconv"
	"strings"
)

// Issue is one issue row from the dump, carrying the print details the
// destination catalog records: barcode, US price, page count, and the
// free-form age-rating text.
type Issue struct {
	ID      int64
	Series  int64
	Number  string
	Barcode string
	Price   string
	Pages   int
	Rating  string
}

// normalizeNumber strips the dump's annotations from an issue number:
// "[nn]" marks an unnumbered single issue, and bracketed qualifiers like
// "[Newsstand]" follow a space.
func normalizeNumber(number string) string {
	if number == "[nn]" {
		return "1"
	}
	first, _, _ := strings.Cut(number, " ")
	return strings.ReplaceAll(strings.TrimSpace(first), ",", "")
}

// normalizeBarcode drops junk values; real UPC/EAN codes never exceed 20
// digits.
func normalizeBarcode(barcode string) string {
	if len(barcode) > 20 {
		return ""
	}
	return barcode
}

// parsePages truncates the dump's decimal page count.
func parsePages(raw string) int {
	whole, _, _ := strings.Cut(raw, ".")
	pages, err := strconv.Atoi(strings.TrimSpace(whole))
	if err != nil {
		return 0
	}
	return pages
}

// parsePrice extracts the US dollar amount from the dump's free-form price
// field, e.g. "0.60 USD; 0.75 CAD" or "2,99 USD (direct)". An empty string
// means no US price could be read.
func parsePrice(raw string) string {
	raw = strings.ReplaceAll(raw, "(direct)", "")
	raw = strings.Trim(raw, "[] ")
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ':' }) {
		if !strings.Contains(part, "USD") {
			continue
		}
		amount := strings.TrimSpace(strings.ReplaceAll(part, "USD", ""))
		amount = strings.ReplaceAll(amount, ",", ".")
		if _, err := strconv.ParseFloat(amount, 64); err != nil {
			return ""
		}
		return amount
	}
	return ""
}
