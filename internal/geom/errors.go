package geom

import (
	"errors"
	"fmt"
)

// ErrorKind classifies dataset errors.
type ErrorKind int

const (
	// KindUnknown unclassified error.
	KindUnknown ErrorKind = iota
	// FetchFailure network or HTTP error while downloading.
	FetchFailure
	// ParseFailure the body is not a usable table.
	ParseFailure
	// InvalidRecord a row has a missing field or an out-of-range coordinate.
	InvalidRecord
	// EmptyDataset no valid record survived parsing.
	EmptyDataset
)

func (k ErrorKind) String() string {
	switch k {
	case FetchFailure:
		return "fetch failure"
	case ParseFailure:
		return "parse failure"
	case InvalidRecord:
		return "invalid record"
	case EmptyDataset:
		return "empty dataset"
	default:
		return "unknown"
	}
}

// Error is returned by the loader and the aggregator.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// RecordError describes one rejected row. Line is the 1-based line of the
// row in the source, header included.
type RecordError struct {
	Line   int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Reason)
}

func kindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	var re *RecordError
	if errors.As(err, &re) {
		return InvalidRecord
	}
	return KindUnknown
}

// IsFetchFailure reports whether err is a FetchFailure.
func IsFetchFailure(err error) bool { return err != nil && kindOf(err) == FetchFailure }

// IsParseFailure reports whether err is a ParseFailure.
func IsParseFailure(err error) bool { return err != nil && kindOf(err) == ParseFailure }

// IsInvalidRecord reports whether err is an InvalidRecord.
func IsInvalidRecord(err error) bool { return err != nil && kindOf(err) == InvalidRecord }

// IsEmptyDataset reports whether err is an EmptyDataset.
func IsEmptyDataset(err error) bool { return err != nil && kindOf(err) == EmptyDataset }
