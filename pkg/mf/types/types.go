package types

// Row is one company record keyed by its ticker symbol.
// Fields hold the source columns as delivered: float64 for numeric cells,
// string for percentage-formatted and textual cells.
type Row struct {
	Ticker string
	Fields map[string]any
}

// Float returns the field value when it holds a float64.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r.Fields[col].(float64)
	return v, ok
}

// Table is an ordered set of company rows. Columns keeps the column order
// as delivered by the source; the ticker column is not listed, it lives on
// the rows themselves.
type Table struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return len(t.Rows) == 0 }

// Clone returns a deep copy, so a pipeline stage can transform the table
// without aliasing the input.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, r := range t.Rows {
		fields := make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			fields[k] = v
		}
		out.Rows[i] = Row{Ticker: r.Ticker, Fields: fields}
	}
	return out
}
