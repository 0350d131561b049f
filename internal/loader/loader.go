package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/monzo-sheets/internal/infra/duckdb"
	"github.com/dvloznov/monzo-sheets/internal/transactions"
)

// RowSource supplies raw rows from the remote spreadsheet.
type RowSource interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// ErrNoData is returned when a table build is requested with zero cached rows.
var ErrNoData = errors.New("no data available to build transactions table")

// FetchError wraps a failed remote fetch. The remote error is surfaced
// verbatim through Unwrap; no retry is performed.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch rows: " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }

// Loader fetches raw rows once and materializes them into the typed
// transactions table on demand. The fetched flag distinguishes "not yet
// fetched" from a genuinely empty result, so empty fetches are cached too.
// One Loader serves one credential/session pair; instances do not share
// their cache.
type Loader struct {
	src     RowSource
	log     zerolog.Logger
	rows    [][]string
	fetched bool
}

// New builds a Loader over the given row source.
func New(src RowSource, log zerolog.Logger) *Loader {
	return &Loader{src: src, log: log}
}

// FetchRows reads the remote range and replaces the cached rows
// unconditionally. Remote failures are wrapped in FetchError.
func (l *Loader) FetchRows(ctx context.Context) error {
	fetchID := uuid.NewString()
	l.log.Info().Str("fetch_id", fetchID).Msg("fetching rows from remote source")

	rows, err := l.src.ReadRows(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}

	l.rows = rows
	l.fetched = true
	l.log.Info().Str("fetch_id", fetchID).Int("rows", len(rows)).Msg("raw rows cached")
	return nil
}

// Rows returns the cached raw rows, fetching them once if no fetch has
// happened yet.
func (l *Loader) Rows(ctx context.Context) ([][]string, error) {
	if !l.fetched {
		if err := l.FetchRows(ctx); err != nil {
			return nil, err
		}
	}
	return l.rows, nil
}

// BuildTable converts the cached rows into a typed columnar table. Row 0 is
// discarded as the header. Zero rows yield ErrNoData; a lone header yields an
// empty table with the full schema.
func (l *Loader) BuildTable(ctx context.Context) (*transactions.Table, error) {
	rows, err := l.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if len(rows) == 1 {
		l.log.Info().Msg("header-only data, building empty transactions table")
		return transactions.FromRows(nil), nil
	}

	table := transactions.FromRows(rows[1:])
	l.log.Info().Int("rows", table.NumRows()).Msg("built transactions table")
	return table, nil
}

// Load builds the table and registers it with the analytical database as
// the transactions table.
func (l *Loader) Load(ctx context.Context, db *duckdb.DB) error {
	table, err := l.BuildTable(ctx)
	if err != nil {
		return err
	}
	if err := db.LoadTransactions(ctx, table); err != nil {
		return fmt.Errorf("load transactions table: %w", err)
	}
	return nil
}
