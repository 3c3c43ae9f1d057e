package invoice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrExportFailed wraps every failure of the print, PDF or upload collaborators.
var ErrExportFailed = errors.New("invoice export failed")

// FieldError names one offending field of a bill.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InvalidBillError is returned for malformed bill input. Nothing may be
// rendered from a bill that produced it.
type InvalidBillError struct {
	Fields []FieldError `json:"errors"`
}

func (e *InvalidBillError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid bill"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "invalid bill: " + strings.Join(msgs, "; ")
}

// ExportError reports a failed export step; errors.Is(err, ErrExportFailed)
// holds for every ExportError.
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExportFailed.Error(), e.Op, e.Err)
}

func (e *ExportError) Unwrap() []error {
	return []error{ErrExportFailed, e.Err}
}

// ExportFailed wraps err as an ExportError for op. A nil err stays nil.
func ExportFailed(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ExportError{Op: op, Err: err}
}
