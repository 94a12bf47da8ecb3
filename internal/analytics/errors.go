package analytics

import "fmt"

// InvalidFieldError reports a field name that is unknown or of the wrong kind
// for the requested operation.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid field %q", e.Field)
	}
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// InvalidParameterError reports an out-of-range request parameter such as a
// page number or a cluster count.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// InsufficientDataError reports an input too small for the statistic asked for.
type InsufficientDataError struct {
	Operation string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs at least %d records, got %d", e.Operation, e.Need, e.Have)
}

// DatasetUnavailableError wraps a failure of the dataset source.
type DatasetUnavailableError struct {
	Source string
	Err    error
}

func (e *DatasetUnavailableError) Error() string {
	return fmt.Sprintf("dataset %s unavailable: %v", e.Source, e.Err)
}

func (e *DatasetUnavailableError) Unwrap() error {
	return e.Err
}
