package fetcher

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/model"
)

// Format identifies a supported tabular input format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// FormatFromName picks a format from a file name's extension. Unknown
// extensions are read as CSV.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".tsv", ".tab":
		return FormatTSV
	default:
		return FormatCSV
	}
}

// ReadFile loads a lead export from disk.
func ReadFile(ctx context.Context, path string) ([]string, []model.RawRow, error) {
	if FormatFromName(path) == FormatXLSX {
		return ReadXLSXRows(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return Read(ctx, f, path)
}

// Read loads a lead export from r, using name only to pick the format.
func Read(ctx context.Context, r io.Reader, name string) ([]string, []model.RawRow, error) {
	switch FormatFromName(name) {
	case FormatXLSX:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, nil, eris.Wrap(err, "fetcher: read xlsx")
		}
		return ReadXLSXBytes(data, XLSXOptions{})
	case FormatTSV:
		return ReadRows(ctx, r, CSVOptions{Delimiter: '\t', LazyQuotes: true})
	default:
		return ReadRows(ctx, r, CSVOptions{LazyQuotes: true})
	}
}

// ReadText loads free text for the message variant from a file, or from
// stdin when path is "-".
func ReadText(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdin); err != nil {
			return "", eris.Wrap(err, "fetcher: read stdin")
		}
		return buf.String(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: read %s", path)
	}
	return string(data), nil
}
