package config

import (
	"errors"
	"fmt"
	"os"
)

// Default values for the spreadsheet export location and OAuth client setup.
// SpreadsheetID has no default; it identifies the user's own export and must be
// supplied explicitly or through the environment.
const (
	// EnvSpreadsheetID is the environment fallback for the spreadsheet ID.
	EnvSpreadsheetID = "MONZO_SPREADSHEET_ID"

	// DefaultSheet is the sheet name Monzo uses for personal account exports.
	DefaultSheet = "Personal Account Transactions"

	// DefaultRangeStart and DefaultRangeEnd cover the 16 export columns A..P.
	DefaultRangeStart = "A"
	DefaultRangeEnd   = "P"

	// DefaultCredentialsPath is the OAuth client secrets file.
	DefaultCredentialsPath = "credentials.json"

	// ScopeSpreadsheetsReadonly is the only scope the loader needs.
	ScopeSpreadsheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// ErrSpreadsheetIDMissing is returned when the spreadsheet ID is absent from
// both the explicit parameter and the environment.
var ErrSpreadsheetIDMissing = errors.New(
	"spreadsheet ID is required as either parameter or " + EnvSpreadsheetID + " environment variable")

// Config holds everything needed to locate the export and authenticate reads.
type Config struct {
	SpreadsheetID   string
	Sheet           string
	RangeStart      string
	RangeEnd        string
	CredentialsPath string
	Scopes          []string
}

// Option overrides a Config default.
type Option func(*Config)

// WithSheet overrides the sheet name.
func WithSheet(name string) Option {
	return func(c *Config) { c.Sheet = name }
}

// WithRange overrides the column range labels.
func WithRange(start, end string) Option {
	return func(c *Config) {
		c.RangeStart = start
		c.RangeEnd = end
	}
}

// WithCredentialsPath overrides the OAuth client secrets file path.
func WithCredentialsPath(path string) Option {
	return func(c *Config) { c.CredentialsPath = path }
}

// WithScopes overrides the OAuth scope list.
func WithScopes(scopes ...string) Option {
	return func(c *Config) { c.Scopes = scopes }
}

// New builds a Config from the given spreadsheet ID and options. An empty
// spreadsheetID falls back to the MONZO_SPREADSHEET_ID environment variable;
// the explicit parameter takes precedence.
func New(spreadsheetID string, opts ...Option) (*Config, error) {
	if spreadsheetID == "" {
		spreadsheetID = os.Getenv(EnvSpreadsheetID)
	}
	if spreadsheetID == "" {
		return nil, fmt.Errorf("config: %w", ErrSpreadsheetIDMissing)
	}

	c := &Config{
		SpreadsheetID:   spreadsheetID,
		Sheet:           DefaultSheet,
		RangeStart:      DefaultRangeStart,
		RangeEnd:        DefaultRangeEnd,
		CredentialsPath: DefaultCredentialsPath,
		Scopes:          []string{ScopeSpreadsheetsReadonly},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RangeName returns the A1-notation range for the Sheets API,
// e.g. "Personal Account Transactions!A:P".
func (c *Config) RangeName() string {
	return fmt.Sprintf("%s!%s:%s", c.Sheet, c.RangeStart, c.RangeEnd)
}
