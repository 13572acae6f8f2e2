package importer

import (
	"time"
)

const coverDateLayout = "2006-01-02"

// fixCoverDate normalizes an upstream cover date to the first of the month,
// which is how the destination catalog records cover dates.
func fixCoverDate(date time.Time) time.Time {
	if date.Day() == 1 {
		return date
	}
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

func parseCoverDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	date, err := time.Parse(coverDateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// badPublishers are upstream publishers whose volumes are reprints,
// translations, or licensed editions that never belong in the catalog.
var badPublishers = map[string]bool{
	"Editoriale Corno":              true,
	"Editions Héritage":             true,
	"Editorial Muchnik":             true,
	"Panini España":                 true,
	"Del Rey":                       true,
	"Cosplay Comics":                true,
	"Eternity":                      true,
	"Takeshobo":                     true,
	"self published":                true,
	"Scholastic Book Services":      true,
	"Victory Productions":           true,
	"Blackthorne":                   true,
	"Carlsen Verlag":                true,
	"Hakusensha":                    true,
	"Irodori Comics":                true,
	"Panini Nederland":              true,
	"Panini Verlag":                 true,
	"Panini France":                 true,
	"Panini Comics":                 true,
	"Thorpe & Porter":               true,
	"Brown Watson":                  true,
	"Titan Books":                   true,
	"Egmont Publishing (UK)":        true,
	"IPC Magazines Ltd.":            true,
	"Titan Comics":                  true,
	"Atlas Publishing":              true,
	"Federal":                       true,
	"Stafford Pemberton":            true,
	"Atlas Publications Pty. Ltd.":  true,
	"World Distributors":            true,
	"Urban Comics":                  true,
	"Ediciones Zinco":               true,
	"ECC Ediciones":                 true,
	"Murray Comics":                 true,
	"Planeta DeAgostini":            true,
}
