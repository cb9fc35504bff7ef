package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/leadclean/internal/model"
)

// Sheet names used by WriteXLSX.
const (
	SheetCleaned  = "cleaned"
	SheetRejected = "rejected"
	SheetSummary  = "summary"
)

// WriteXLSX writes a workbook with one sheet each for cleaned leads,
// rejected rows, and the batch summary.
func WriteXLSX(w io.Writer, cleaned []model.NormalizedLead, rejected []model.RejectedLead, summary model.BatchSummary) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(f.GetSheetName(0), SheetCleaned); err != nil {
		return eris.Wrap(err, "export: rename sheet")
	}
	for _, name := range []string{SheetRejected, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return eris.Wrapf(err, "export: add sheet %s", name)
		}
	}

	cleanedRows := make([][]any, 0, len(cleaned))
	for _, l := range cleaned {
		cleanedRows = append(cleanedRows, []any{l.Name, l.Email, l.Phone, l.Score, string(l.Tier), l.Rationale})
	}
	if err := fillSheet(f, SheetCleaned, CleanedHeader, cleanedRows); err != nil {
		return err
	}

	rejectedRows := make([][]any, 0, len(rejected))
	for _, r := range rejected {
		rejectedRows = append(rejectedRows, []any{r.Name, r.RawEmail, r.RawPhone, string(r.Reason)})
	}
	if err := fillSheet(f, SheetRejected, RejectedHeader, rejectedRows); err != nil {
		return err
	}

	summaryRows := [][]any{
		{"total", summary.Total},
		{"valid", summary.Valid},
		{"invalid", summary.Invalid},
		{"duplicates", summary.Duplicates},
	}
	for _, t := range model.Tiers {
		summaryRows = append(summaryRows, []any{string(t), summary.Tiers[t]})
	}
	if err := fillSheet(f, SheetSummary, []string{"metric", "count"}, summaryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return eris.Wrapf(err, "export: set %s!%s", sheet, cell)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return eris.Wrapf(err, "export: set %s!%s", sheet, cell)
			}
		}
	}
	return nil
}
