package transactions

// Kind is the semantic type of a schema column.
type Kind int

const (
	KindString Kind = iota
	KindDecimal
	KindDate
	KindTime
)

// ColumnDef pairs a column name with its semantic type.
type ColumnDef struct {
	Name string
	Kind Kind
}

// NumColumns is the width of the Monzo export schema.
const NumColumns = 16

// Columns is the fixed Monzo export schema. Column identity is positional:
// cell i of a raw row maps to Columns[i] regardless of the source header text.
var Columns = [NumColumns]ColumnDef{
	{Name: "transaction_id", Kind: KindString},
	{Name: "date", Kind: KindDate},
	{Name: "time", Kind: KindTime},
	{Name: "type", Kind: KindString},
	{Name: "name", Kind: KindString},
	{Name: "emoji", Kind: KindString},
	{Name: "category", Kind: KindString},
	{Name: "amount", Kind: KindDecimal},
	{Name: "currency", Kind: KindString},
	{Name: "local_amount", Kind: KindDecimal},
	{Name: "local_currency", Kind: KindString},
	{Name: "notes_and_tags", Kind: KindString},
	{Name: "address", Kind: KindString},
	{Name: "receipt", Kind: KindString},
	{Name: "description", Kind: KindString},
	{Name: "category_split", Kind: KindString},
}

// ColumnNames returns the schema column names in order.
func ColumnNames() []string {
	names := make([]string, NumColumns)
	for i, def := range Columns {
		names[i] = def.Name
	}
	return names
}
