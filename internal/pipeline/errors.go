package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/detect"
)

var (
	// ErrEmptyBatch means the input had no data rows.
	ErrEmptyBatch = detect.ErrEmptyBatch
	// ErrMissingRequiredColumn means a named column is absent from the header.
	ErrMissingRequiredColumn = eris.New("pipeline: missing required column")
)

// requireColumns fails with ErrMissingRequiredColumn for the first name not
// found in columns.
func requireColumns(columns []string, names ...string) error {
	have := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		have[c] = struct{}{}
	}
	for _, n := range names {
		if _, ok := have[n]; !ok {
			return eris.Wrapf(ErrMissingRequiredColumn, "column %q", n)
		}
	}
	return nil
}

// IsBatchError reports whether err is a structural batch failure as opposed
// to an unexpected internal error.
func IsBatchError(err error) bool {
	return eris.Is(err, ErrEmptyBatch) || eris.Is(err, ErrMissingRequiredColumn)
}
