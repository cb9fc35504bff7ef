package export

import (
	"archive/zip"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/model"
)

// Archive entry names.
const (
	EntryCleaned  = "cleaned.csv"
	EntryRejected = "rejected.csv"
	EntrySummary  = "summary.json"
)

// WriteArchive writes a zip holding cleaned.csv, rejected.csv, and
// summary.json.
func WriteArchive(w io.Writer, cleaned []model.NormalizedLead, rejected []model.RejectedLead, summary model.BatchSummary) error {
	zw := zip.NewWriter(w)

	entries := []struct {
		name  string
		write func(io.Writer) error
	}{
		{EntryCleaned, func(ew io.Writer) error { return WriteCleanedCSV(ew, cleaned) }},
		{EntryRejected, func(ew io.Writer) error { return WriteRejectedCSV(ew, rejected) }},
		{EntrySummary, func(ew io.Writer) error {
			enc := json.NewEncoder(ew)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}},
	}

	for _, e := range entries {
		ew, err := zw.Create(e.name)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", e.name)
		}
		if err := e.write(ew); err != nil {
			return eris.Wrapf(err, "export: write %s", e.name)
		}
	}

	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "export: close archive")
	}
	return nil
}
