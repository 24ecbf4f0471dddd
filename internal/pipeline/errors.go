package pipeline

import (
	"errors"
	"fmt"
)

// ErrMissingInput is returned when the input source cannot be located or opened.
var ErrMissingInput = errors.New("input source not found")

// SchemaError reports a required column that is absent or a cell that cannot
// be used. Row is the 1-based data row, 0 when the problem is in the header.
type SchemaError struct {
	Column string
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("schema error: row %d, column %q: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
}

// EmptyGroupWarning is recoverable: the computation substitutes "N/A" and continues.
type EmptyGroupWarning struct {
	DietType  string
	Operation string
}

func (w *EmptyGroupWarning) Error() string {
	return fmt.Sprintf("%s: diet type %q has no values, using N/A", w.Operation, w.DietType)
}

// IsFatal reports whether err must abort the whole run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var warn *EmptyGroupWarning
	return !errors.As(err, &warn)
}
