// Package tabular reads and writes the raw dataset table in xlsx and csv form.
package tabular

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/nuclear-dashboard/internal/domain"
)

// ErrUnsupportedFormat is wrapped in a DataSourceError when the file
// extension is neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FileReader reads a dataset file chosen by extension.
// It implements pipeline.TableReader.
type FileReader struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewFileReader creates a reader for path. sheet selects the xlsx worksheet;
// empty means the first sheet. It is ignored for csv files.
func NewFileReader(path, sheet string, logger *slog.Logger) *FileReader {
	return &FileReader{path: path, sheet: sheet, logger: logger}
}

// Path returns the file the reader was created for.
func (r *FileReader) Path() string { return r.path }

// ReadTable loads the whole file. A context already cancelled on entry
// returns ctx.Err() unwrapped; every other failure is a
// *domain.DataSourceError.
func (r *FileReader) ReadTable(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}
	if _, err := os.Stat(r.path); err != nil {
		return domain.RawTable{}, &domain.DataSourceError{Path: r.path, Err: err}
	}

	var (
		table domain.RawTable
		err   error
	)
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".xlsx", ".xlsm":
		table, err = readXLSX(r.path, r.sheet)
	case ".csv":
		table, err = readCSV(r.path)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(r.path))
	}
	if err != nil {
		return domain.RawTable{}, &domain.DataSourceError{Path: r.path, Err: err}
	}

	r.logger.Info("dataset file read",
		"path", r.path,
		"columns", len(table.Header),
		"rows", len(table.Rows),
	)
	return table, nil
}

// splitHeader separates the first row as header. An empty input is an error.
func splitHeader(rows [][]string) (domain.RawTable, error) {
	if len(rows) == 0 {
		return domain.RawTable{}, errors.New("file has no header row")
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return domain.RawTable{Header: header, Rows: rows[1:]}, nil
}
