package transactions

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Table is a columnar view of the export: one typed slice per schema column,
// nil entries meaning SQL NULL. String cells are nil only when positionally
// absent from the source row; an empty string passes through as "".
type Table struct {
	cols [NumColumns]column
	rows int
}

type column struct {
	def      ColumnDef
	strings  []*string
	decimals []*decimal.Decimal
	dates    []*civil.Date
	times    []*civil.Time
}

// FromRows builds a Table from data rows (header already removed). Rows
// shorter than the schema are padded with nulls in the missing trailing
// positions; cells beyond the schema width are ignored.
func FromRows(rows [][]string) *Table {
	t := &Table{rows: len(rows)}

	for i, def := range Columns {
		c := column{def: def}
		switch def.Kind {
		case KindString:
			c.strings = make([]*string, len(rows))
		case KindDecimal:
			c.decimals = make([]*decimal.Decimal, len(rows))
		case KindDate:
			c.dates = make([]*civil.Date, len(rows))
		case KindTime:
			c.times = make([]*civil.Time, len(rows))
		}

		for r, row := range rows {
			if i >= len(row) {
				continue // short row: stays null
			}
			cell := row[i]
			switch def.Kind {
			case KindString:
				v := cell
				c.strings[r] = &v
			case KindDecimal:
				c.decimals[r] = ParseDecimal(cell)
			case KindDate:
				c.dates[r] = ParseDate(cell)
			case KindTime:
				c.times[r] = ParseTime(cell)
			}
		}

		t.cols[i] = c
	}

	return t
}

// NumRows returns the number of data rows in the table.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the schema width.
func (t *Table) NumColumns() int { return NumColumns }

// Def returns the definition of column col.
func (t *Table) Def(col int) ColumnDef { return t.cols[col].def }

// Value returns the typed value at (row, col), or nil for SQL NULL.
// The concrete type depends on the column kind: string, decimal.Decimal,
// civil.Date or civil.Time.
func (t *Table) Value(row, col int) any {
	c := &t.cols[col]
	switch c.def.Kind {
	case KindString:
		if v := c.strings[row]; v != nil {
			return *v
		}
	case KindDecimal:
		if v := c.decimals[row]; v != nil {
			return *v
		}
	case KindDate:
		if v := c.dates[row]; v != nil {
			return *v
		}
	case KindTime:
		if v := c.times[row]; v != nil {
			return *v
		}
	}
	return nil
}
