package models

// Table is an ordered set of named columns and the rows under them.
type Table struct {
	// Columns holds the column names in output order.
	Columns []string `json:"columns"`
	// Rows holds the data rows, keyed by column name.
	Rows []Row `json:"rows"`
	// Origins locates each row in the client workbook. It may be shorter
	// than Rows; use Origin to read it.
	Origins []Origin `json:"-"`
}

// Origin locates a row in the client workbook. Row is the 1-based
// spreadsheet row; the zero Origin means the location is unknown.
type Origin struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
}

// IsZero reports whether the location is unknown.
func (o Origin) IsZero() bool {
	return o.Sheet == "" && o.Row == 0
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AddColumn appends name to Columns unless it is already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Append adds a row. The row is stored as given.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// AppendFrom adds a row read from the location o.
func (t *Table) AppendFrom(row Row, o Origin) {
	for len(t.Origins) < len(t.Rows) {
		t.Origins = append(t.Origins, Origin{})
	}
	t.Rows = append(t.Rows, row)
	t.Origins = append(t.Origins, o)
}

// Origin returns the location of row i, or the zero Origin.
func (t *Table) Origin(i int) Origin {
	if t == nil || i < 0 || i >= len(t.Origins) {
		return Origin{}
	}
	return t.Origins[i]
}

// Column returns the values of one column, one entry per row.
func (t *Table) Column(name string) []any {
	values := make([]any, t.Len())
	for i, row := range t.Rows {
		values[i] = row.Get(name)
	}
	return values
}

// Values returns every row as a slice aligned with Columns.
func (t *Table) Values() [][]any {
	out := make([][]any, 0, t.Len())
	for _, row := range t.Rows {
		values := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			values[i] = row.Get(c)
		}
		out = append(out, values)
	}
	return out
}

// Filter returns a table with the same columns holding the rows keep accepts.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := NewTable(t.Columns...)
	for i, row := range t.Rows {
		if keep(row) {
			out.AppendFrom(row, t.Origin(i))
		}
	}
	return out
}

// Concat stacks tables on top of each other.
// Columns are the union of all input columns in first-seen order; a row
// from a table lacking a column reads nil there.
func Concat(tables ...*Table) *Table {
	out := NewTable()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		for i, row := range t.Rows {
			copied := make(Row, len(t.Columns))
			for _, c := range t.Columns {
				if v, ok := row[c]; ok {
					copied[c] = v
				}
			}
			out.AppendFrom(copied, t.Origin(i))
		}
	}
	return out
}
