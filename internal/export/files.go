package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/model"
)

// Format selects the on-disk output layout.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatZIP  Format = "zip"
)

// ParseFormat validates a user-supplied output format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatXLSX, FormatZIP:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", eris.Errorf("export: unknown format %q (want csv, xlsx or zip)", s)
	}
}

// WriteDir writes a batch's outputs into dir and returns the paths written.
// CSV produces cleaned.csv and rejected.csv; XLSX produces leads.xlsx; ZIP
// produces leads.zip.
func WriteDir(dir string, format Format, cleaned []model.NormalizedLead, rejected []model.RejectedLead, summary model.BatchSummary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create %s", dir)
	}

	switch format {
	case FormatXLSX:
		path := filepath.Join(dir, "leads.xlsx")
		return []string{path}, writeFile(path, func(f *os.File) error {
			return WriteXLSX(f, cleaned, rejected, summary)
		})
	case FormatZIP:
		path := filepath.Join(dir, "leads.zip")
		return []string{path}, writeFile(path, func(f *os.File) error {
			return WriteArchive(f, cleaned, rejected, summary)
		})
	default:
		cleanedPath := filepath.Join(dir, EntryCleaned)
		if err := writeFile(cleanedPath, func(f *os.File) error { return WriteCleanedCSV(f, cleaned) }); err != nil {
			return nil, err
		}
		rejectedPath := filepath.Join(dir, EntryRejected)
		if err := writeFile(rejectedPath, func(f *os.File) error { return WriteRejectedCSV(f, rejected) }); err != nil {
			return nil, err
		}
		return []string{cleanedPath, rejectedPath}, nil
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
