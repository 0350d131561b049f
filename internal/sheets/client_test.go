package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dvloznov/monzo-sheets/internal/logger"
)

func newTestService(t *testing.T, handler http.Handler) *sheetsapi.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestReadRows(t *testing.T) {
	var gotPath string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(&sheetsapi.ValueRange{
			Range: "Personal Account Transactions!A1:P3",
			Values: [][]interface{}{
				{"Transaction ID", "Date", "Time"},
				{"tx_1", "15/06/2025", "09:30:15"},
				{"tx_2", 42, true},
			},
		})
	}))

	client := NewClientWithService(svc, "sheet-123", "Personal Account Transactions!A:P",
		logger.NewWithWriter(io.Discard))

	rows, err := client.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}

	if gotPath != "/v4/spreadsheets/sheet-123/values/Personal Account Transactions!A:P" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(rows))
	}
	if rows[1][0] != "tx_1" || rows[1][1] != "15/06/2025" {
		t.Errorf("rows[1] = %v", rows[1])
	}
	// Non-string cells are rendered as strings.
	if rows[2][1] != "42" || rows[2][2] != "true" {
		t.Errorf("rows[2] = %v", rows[2])
	}
}

func TestReadRows_APIError(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Requested entity was not found."}}`, http.StatusNotFound)
	}))

	client := NewClientWithService(svc, "missing-sheet", "Sheet1!A:P",
		logger.NewWithWriter(io.Discard))

	if _, err := client.ReadRows(context.Background()); err == nil {
		t.Fatal("expected error from API failure")
	}
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string", "Costa Coffee", "Costa Coffee"},
		{"empty string", "", ""},
		{"nil", nil, ""},
		{"number", 4.5, "4.5"},
		{"bool", false, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellString(tt.input); got != tt.want {
				t.Errorf("cellString(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
