// Package export writes cleaned and rejected leads in fixed-column tabular
// formats, independent of the input's column layout.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/model"
)

var (
	CleanedHeader  = []string{"name", "email", "phone", "lead_score", "lead_status", "reason"}
	RejectedHeader = []string{"name", "email", "phone", "reason"}
	MessagesHeader = []string{"name", "email", "phone", "lead_score", "lead_status", "reason", "message"}
)

func cleanedRecord(l model.NormalizedLead) []string {
	return []string{l.Name, l.Email, l.Phone, strconv.Itoa(l.Score), string(l.Tier), l.Rationale}
}

func rejectedRecord(r model.RejectedLead) []string {
	return []string{r.Name, r.RawEmail, r.RawPhone, string(r.Reason)}
}

// WriteCleanedCSV writes the cleaned leads with a header row.
func WriteCleanedCSV(w io.Writer, leads []model.NormalizedLead) error {
	records := make([][]string, 0, len(leads))
	for _, l := range leads {
		records = append(records, cleanedRecord(l))
	}
	return writeCSV(w, CleanedHeader, records)
}

// WriteRejectedCSV writes the rejected rows with their original values.
func WriteRejectedCSV(w io.Writer, rejected []model.RejectedLead) error {
	records := make([][]string, 0, len(rejected))
	for _, r := range rejected {
		records = append(records, rejectedRecord(r))
	}
	return writeCSV(w, RejectedHeader, records)
}

// WriteMessagesCSV writes leads pulled from free text. messages[i] is the
// paragraph lead i came from; a shorter slice leaves the column empty.
func WriteMessagesCSV(w io.Writer, leads []model.NormalizedLead, messages []string) error {
	records := make([][]string, 0, len(leads))
	for i, l := range leads {
		msg := ""
		if i < len(messages) {
			msg = messages[i]
		}
		records = append(records, append(cleanedRecord(l), msg))
	}
	return writeCSV(w, MessagesHeader, records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	if err := cw.WriteAll(records); err != nil {
		return eris.Wrap(err, "export: write csv records")
	}
	return nil
}
