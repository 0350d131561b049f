package config

import (
	"errors"
	"testing"
)

func TestNew_ExplicitID(t *testing.T) {
	cfg, err := New("sheet-123")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.SpreadsheetID != "sheet-123" {
		t.Errorf("SpreadsheetID = %q, want %q", cfg.SpreadsheetID, "sheet-123")
	}
	if cfg.Sheet != DefaultSheet {
		t.Errorf("Sheet = %q, want default %q", cfg.Sheet, DefaultSheet)
	}
	if cfg.CredentialsPath != DefaultCredentialsPath {
		t.Errorf("CredentialsPath = %q, want default %q", cfg.CredentialsPath, DefaultCredentialsPath)
	}
}

func TestNew_EnvFallback(t *testing.T) {
	t.Setenv(EnvSpreadsheetID, "env-sheet")

	cfg, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.SpreadsheetID != "env-sheet" {
		t.Errorf("SpreadsheetID = %q, want %q", cfg.SpreadsheetID, "env-sheet")
	}
}

func TestNew_ParameterTakesPrecedence(t *testing.T) {
	t.Setenv(EnvSpreadsheetID, "env-sheet")

	cfg, err := New("explicit-sheet")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.SpreadsheetID != "explicit-sheet" {
		t.Errorf("SpreadsheetID = %q, want %q", cfg.SpreadsheetID, "explicit-sheet")
	}
}

func TestNew_MissingID(t *testing.T) {
	t.Setenv(EnvSpreadsheetID, "")

	_, err := New("")
	if err == nil {
		t.Fatal("expected error for missing spreadsheet ID")
	}
	if !errors.Is(err, ErrSpreadsheetIDMissing) {
		t.Errorf("error = %v, want ErrSpreadsheetIDMissing", err)
	}
}

func TestNew_Options(t *testing.T) {
	cfg, err := New("sheet-123",
		WithSheet("Joint Account Transactions"),
		WithRange("B", "Q"),
		WithCredentialsPath("/tmp/secrets.json"),
		WithScopes("https://www.googleapis.com/auth/spreadsheets"),
	)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if cfg.Sheet != "Joint Account Transactions" {
		t.Errorf("Sheet = %q", cfg.Sheet)
	}
	if cfg.RangeStart != "B" || cfg.RangeEnd != "Q" {
		t.Errorf("Range = %s:%s, want B:Q", cfg.RangeStart, cfg.RangeEnd)
	}
	if cfg.CredentialsPath != "/tmp/secrets.json" {
		t.Errorf("CredentialsPath = %q", cfg.CredentialsPath)
	}
	if len(cfg.Scopes) != 1 || cfg.Scopes[0] != "https://www.googleapis.com/auth/spreadsheets" {
		t.Errorf("Scopes = %v", cfg.Scopes)
	}
}

func TestRangeName(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		start string
		end   string
		want  string
	}{
		{"defaults", DefaultSheet, "A", "P", "Personal Account Transactions!A:P"},
		{"custom range", "Sheet1", "B2", "Q100", "Sheet1!B2:Q100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Sheet: tt.sheet, RangeStart: tt.start, RangeEnd: tt.end}
			if got := cfg.RangeName(); got != tt.want {
				t.Errorf("RangeName() = %q, want %q", got, tt.want)
			}
		})
	}
}
