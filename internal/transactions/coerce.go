package transactions

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Cell coercion never fails: spreadsheet data is expected to be partially
// malformed, and a single bad cell must not abort the whole load. Each parser
// returns nil for empty or unparseable input.

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"
)

// ParseDecimal parses a cell as a base-10 decimal with 2-digit scale.
func ParseDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	d = d.Round(2)
	return &d
}

// ParseDate parses a cell as a day/month/year calendar date, the format
// Monzo uses in its spreadsheet export.
func ParseDate(s string) *civil.Date {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	d := civil.DateOf(t)
	return &d
}

// ParseTime parses a cell as a 24h time of day.
func ParseTime(s string) *civil.Time {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	ct := civil.TimeOf(t)
	return &ct
}
