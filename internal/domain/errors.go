package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSource marks a missing or unreadable dataset source.
	ErrDataSource = errors.New("data source error")

	// ErrDataIntegrity marks a row whose values cannot form a valid record.
	ErrDataIntegrity = errors.New("data integrity error")

	// ErrNotLoaded is returned when a view is requested before the dataset
	// has been loaded.
	ErrNotLoaded = errors.New("dataset not loaded")
)

// DataSourceError reports a dataset source that is absent, unreadable or in an
// unsupported format. It is fatal for the load.
type DataSourceError struct {
	Path string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source %q: %v", e.Path, e.Err)
}

func (e *DataSourceError) Unwrap() []error { return []error{ErrDataSource, e.Err} }

// DataIntegrityError reports a value that prevents building a record, such as
// a Day/Month/Year triple that is not a calendar date. Row is the 1-based data
// row in the source (the header is row 0).
type DataIntegrityError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("data integrity: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("data integrity: row %d column %q value %q: %s", e.Row, e.Column, e.Value, e.Reason)
}

func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }
