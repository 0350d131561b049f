package sheets

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/dvloznov/monzo-sheets/internal/config"
	"github.com/dvloznov/monzo-sheets/internal/credentials"
)

// Client reads raw rows from one spreadsheet range. API errors are returned
// unmodified so callers can classify them.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	rangeName     string
	log           zerolog.Logger
}

// NewClient builds a Sheets client bound to the configured spreadsheet and
// range, authorized through the credential manager. Obtaining credentials may
// block on the interactive OAuth flow.
func NewClient(ctx context.Context, cfg *config.Config, creds *credentials.Manager, log zerolog.Logger) (*Client, error) {
	httpClient, err := creds.Client(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets client credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewClientWithService(svc, cfg.SpreadsheetID, cfg.RangeName(), log), nil
}

// NewClientWithService wraps an existing Sheets service.
func NewClientWithService(svc *sheetsapi.Service, spreadsheetID, rangeName string, log zerolog.Logger) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		rangeName:     rangeName,
		log:           log,
	}
}

// ReadRows fetches the configured range and returns its rows as string cells.
// Row lengths follow the source data and may vary row to row.
func (c *Client) ReadRows(ctx context.Context) ([][]string, error) {
	c.log.Debug().
		Str("spreadsheet_id", c.spreadsheetID).
		Str("range", c.rangeName).
		Msg("fetching rows from Google Sheets")

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.rangeName).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(resp.Values))
	for r, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows[r] = row
	}

	c.log.Info().Int("rows", len(rows)).Msg("fetched rows from spreadsheet")
	return rows, nil
}

// cellString renders one API cell value. The values endpoint returns strings
// for formatted cells but can yield numbers or bools for unformatted reads.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
