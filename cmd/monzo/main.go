package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/monzo-sheets/internal/config"
	"github.com/dvloznov/monzo-sheets/internal/credentials"
	"github.com/dvloznov/monzo-sheets/internal/infra/duckdb"
	"github.com/dvloznov/monzo-sheets/internal/loader"
	"github.com/dvloznov/monzo-sheets/internal/logger"
	"github.com/dvloznov/monzo-sheets/internal/sheets"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "auth":
		runAuth(log)
	case "clear":
		runClear(log)
	case "fetch":
		runFetch(log)
	case "query":
		runQuery(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Monzo Sheets")
	fmt.Println("\nUsage:")
	fmt.Println("  monzo <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  auth      Acquire and persist an OAuth token")
	fmt.Println("  clear     Clear the persisted OAuth token")
	fmt.Println("  fetch     Fetch transaction rows from the spreadsheet")
	fmt.Println("  query     Load transactions into DuckDB and run a SQL query")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'monzo <command> -h' for more information on a command.")
}

// storeFlags registers the token store selection flags.
type storeFlags struct {
	kind *string
	dir  *string
}

func registerStoreFlags(fs *flag.FlagSet) *storeFlags {
	return &storeFlags{
		kind: fs.String("store", "keyring", "Token store: keyring or file"),
		dir:  fs.String("token-dir", "", "Directory for the file token store (default ~/.monzo-sheets)"),
	}
}

func (f *storeFlags) open(log zerolog.Logger) credentials.Store {
	switch *f.kind {
	case "keyring":
		return credentials.NewKeyringStore()
	case "file":
		store, err := credentials.NewFileStore(*f.dir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open file token store")
		}
		return store
	default:
		log.Fatal().Str("store", *f.kind).Msg("Unknown token store, want keyring or file")
		return nil
	}
}

// sheetFlags registers the spreadsheet location flags.
type sheetFlags struct {
	spreadsheetID *string
	sheet         *string
	rangeStart    *string
	rangeEnd      *string
	credsPath     *string
}

func registerSheetFlags(fs *flag.FlagSet) *sheetFlags {
	return &sheetFlags{
		spreadsheetID: fs.String("spreadsheet-id", "", "Spreadsheet ID (falls back to "+config.EnvSpreadsheetID+")"),
		sheet:         fs.String("sheet", config.DefaultSheet, "Sheet name"),
		rangeStart:    fs.String("range-start", config.DefaultRangeStart, "Range start column"),
		rangeEnd:      fs.String("range-end", config.DefaultRangeEnd, "Range end column"),
		credsPath:     fs.String("credentials", config.DefaultCredentialsPath, "OAuth client secrets file"),
	}
}

func (f *sheetFlags) config(log zerolog.Logger) *config.Config {
	cfg, err := config.New(*f.spreadsheetID,
		config.WithSheet(*f.sheet),
		config.WithRange(*f.rangeStart, *f.rangeEnd),
		config.WithCredentialsPath(*f.credsPath),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return cfg
}

func newLoader(ctx context.Context, cfg *config.Config, store credentials.Store, log zerolog.Logger) *loader.Loader {
	creds, err := credentials.NewManagerFromFile(cfg.CredentialsPath, cfg.Scopes, store, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up credentials")
	}
	client, err := sheets.NewClient(ctx, cfg, creds, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}
	return loader.New(client, log)
}

func runAuth(log zerolog.Logger) {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	credsPath := fs.String("credentials", config.DefaultCredentialsPath, "OAuth client secrets file")
	sf := registerStoreFlags(fs)
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	creds, err := credentials.NewManagerFromFile(*credsPath,
		[]string{config.ScopeSpreadsheetsReadonly}, sf.open(log), nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up credentials")
	}

	if _, err := creds.Token(ctx); err != nil {
		log.Fatal().Err(err).Msg("Authorization failed")
	}

	fmt.Println("Authorization completed and token persisted.")
}

func runClear(log zerolog.Logger) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	sf := registerStoreFlags(fs)
	fs.Parse(os.Args[2:])

	store := sf.open(log)
	if err := store.Delete(); err != nil {
		log.Warn().Err(err).Msg("Could not delete persisted token")
	}

	fmt.Println("Credentials cleared.")
}

func runFetch(log zerolog.Logger) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	shf := registerSheetFlags(fs)
	sf := registerStoreFlags(fs)
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	cfg := shf.config(log)
	l := newLoader(ctx, cfg, sf.open(log), log)

	rows, err := l.Rows(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Fetch failed")
	}

	fmt.Printf("Fetched %d rows from %s\n", len(rows), cfg.RangeName())
}

func runQuery(log zerolog.Logger) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	shf := registerSheetFlags(fs)
	sf := registerStoreFlags(fs)
	query := fs.String("sql", "SELECT COUNT(*) AS transactions FROM transactions", "SQL to run against the transactions table")
	fs.Parse(os.Args[2:])

	ctx := context.Background()
	ctx = logger.WithContext(ctx, log)

	cfg := shf.config(log)
	l := newLoader(ctx, cfg, sf.open(log), log)

	db, err := duckdb.Open(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open DuckDB")
	}
	defer db.Close()

	if err := l.Load(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Load failed")
	}

	rows, err := db.Query(ctx, *query)
	if err != nil {
		log.Fatal().Err(err).Msg("Query failed")
	}
	defer rows.Close()

	if err := printRows(rows); err != nil {
		log.Fatal().Err(err).Msg("Failed to print results")
	}
}

// printRows writes a result set to stdout as tab-separated text.
func printRows(rows *sql.Rows) error {
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("columns: %w", err)
	}
	fmt.Println(strings.Join(cols, "\t"))

	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		fields := make([]string, len(vals))
		for i, v := range vals {
			switch val := v.(type) {
			case nil:
				fields[i] = "NULL"
			case []byte:
				fields[i] = string(val)
			default:
				fields[i] = fmt.Sprint(val)
			}
		}
		fmt.Println(strings.Join(fields, "\t"))
	}
	return rows.Err()
}
