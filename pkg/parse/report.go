package parse

import "errors"

// Report collects recoverable per-entry problems found while parsing.
// Every entry wraps core.ErrValidationDropped.
type Report struct {
	Dropped []error
}

func (r *Report) drop(err error) {
	r.Dropped = append(r.Dropped, err)
}

// Len returns the number of dropped entries.
func (r Report) Len() int {
	return len(r.Dropped)
}

// Err joins the dropped entries, or returns nil when nothing was dropped.
func (r Report) Err() error {
	return errors.Join(r.Dropped...)
}
