package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/monzo-sheets/internal/transactions"
)

// TransactionsTable is the name of the analytical table.
const TransactionsTable = "transactions"

// DB wraps an in-memory DuckDB database holding the transactions table.
type DB struct {
	conn *sql.DB
}

// Open creates a new in-memory DuckDB database.
func Open(ctx context.Context) (*DB, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close releases the database. This should be called when the DB is no
// longer needed.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// TransactionsDDL returns the CREATE TABLE statement derived from the
// transaction schema: VARCHAR, DECIMAL(10,2), DATE and TIME columns in
// schema order.
func TransactionsDDL() string {
	cols := make([]string, transactions.NumColumns)
	for i, def := range transactions.Columns {
		cols[i] = def.Name + " " + sqlType(def.Kind)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", TransactionsTable, strings.Join(cols, ", "))
}

func sqlType(k transactions.Kind) string {
	switch k {
	case transactions.KindDecimal:
		return "DECIMAL(10,2)"
	case transactions.KindDate:
		return "DATE"
	case transactions.KindTime:
		return "TIME"
	default:
		return "VARCHAR"
	}
}

// LoadTransactions creates the transactions table and bulk-inserts the
// columnar table into it. An empty table still produces the full schema.
func (db *DB) LoadTransactions(ctx context.Context, table *transactions.Table) error {
	if _, err := db.conn.ExecContext(ctx, TransactionsDDL()); err != nil {
		return fmt.Errorf("create %s table: %w", TransactionsTable, err)
	}
	if table.NumRows() == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", transactions.NumColumns), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", TransactionsTable, placeholders)

	stmt, err := db.conn.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for r := 0; r < table.NumRows(); r++ {
		if _, err := stmt.ExecContext(ctx, insertArgs(table, r)...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}
	return nil
}

// insertArgs renders one table row as driver arguments. Decimal, date and
// time values are bound as their canonical strings; DuckDB casts them to the
// column types on insert. nil binds as SQL NULL.
func insertArgs(table *transactions.Table, row int) []interface{} {
	args := make([]interface{}, transactions.NumColumns)
	for col := 0; col < transactions.NumColumns; col++ {
		switch val := table.Value(row, col).(type) {
		case nil:
			args[col] = nil
		case string:
			args[col] = val
		case decimal.Decimal:
			args[col] = val.StringFixed(2)
		case civil.Date:
			args[col] = val.String()
		case civil.Time:
			args[col] = val.String()
		default:
			args[col] = fmt.Sprint(val)
		}
	}
	return args
}

// CountTransactions returns the number of rows in the transactions table.
func (db *DB) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	err := db.conn.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", TransactionsTable)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", TransactionsTable, err)
	}
	return count, nil
}

// Query runs an ad-hoc SQL statement against the database.
func (db *DB) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}
