package model

// RawRow is one input record: an ordered mapping from column name to raw text.
// Lookups of unknown columns yield the empty string.
type RawRow struct {
	Columns []string          `json:"columns"`
	Values  map[string]string `json:"values"`
}

// NewRawRow pairs headers with values. Missing trailing values become empty
// strings, surplus values are dropped, and a repeated header keeps its first
// value.
func NewRawRow(headers, values []string) RawRow {
	row := RawRow{
		Columns: make([]string, 0, len(headers)),
		Values:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		if _, dup := row.Values[h]; dup {
			continue
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		row.Columns = append(row.Columns, h)
		row.Values[h] = v
	}
	return row
}

// RowFromMap builds a RawRow from an unordered map using the given column order.
// Columns missing from the map are kept with an empty value.
func RowFromMap(columns []string, m map[string]string) RawRow {
	values := make([]string, len(columns))
	for i, c := range columns {
		values[i] = m[c]
	}
	return NewRawRow(columns, values)
}

// Get returns the value for column, or "" if the row has no such column.
func (r RawRow) Get(column string) string {
	if column == "" {
		return ""
	}
	return r.Values[column]
}

// Has reports whether the row carries the named column.
func (r RawRow) Has(column string) bool {
	_, ok := r.Values[column]
	return ok
}
