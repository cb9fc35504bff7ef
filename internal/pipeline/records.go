package pipeline

import (
	"sort"

	"github.com/sells-group/leadclean/internal/model"
)

// RowsFromRecords converts decoded JSON objects into RawRows. JSON objects
// carry no key order, so columns are the sorted union of all keys.
func RowsFromRecords(records []map[string]string) ([]string, []model.RawRow) {
	seen := make(map[string]struct{})
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)

	rows := make([]model.RawRow, len(records))
	for i, rec := range records {
		rows[i] = model.RowFromMap(columns, rec)
	}
	return columns, rows
}

// DefaultOverride returns a manual assignment for the conventional
// name/email/phone keys when all three are present, or nil.
func DefaultOverride(columns []string) *model.ColumnAssignment {
	a := &model.ColumnAssignment{Name: "name", Email: "email", Phone: "phone"}
	if requireColumns(columns, a.Name, a.Email, a.Phone) != nil {
		return nil
	}
	return a
}
